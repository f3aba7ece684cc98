package gallabox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xavierca1/cohort-crm/internal/entity"
	"github.com/xavierca1/cohort-crm/internal/usecase"
)

const serviceName = "gallabox"

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

func (c *Client) SendText(ctx context.Context, to, message string) (map[string]any, error) {
	return c.post(ctx, textPath, textMessageRequest{To: to, Message: message})
}

func (c *Client) SendTemplate(ctx context.Context, to string, template usecase.MessageTemplate) (map[string]any, error) {
	return c.post(ctx, templatePath, templateMessageRequest{To: to, Template: template})
}

func (c *Client) CreateCampaign(ctx context.Context, name string, filters map[string]any, template *usecase.MessageTemplate) (map[string]any, error) {
	if filters == nil {
		filters = map[string]any{}
	}
	return c.post(ctx, campaignPath, campaignRequest{Name: name, Filters: filters, Template: template})
}

// post manda o payload e devolve o corpo decodificado. Corpo que não é um
// objeto JSON vira {}. Status fora de 2xx vira *usecase.UpstreamError.
func (c *Client) post(ctx context.Context, path string, payload any) (map[string]any, error) {
	if !c.Configured() {
		logrus.Warn("⚠️ Gallabox: GALLABOX_API_KEY não configurada")
		return nil, entity.ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gallabox: erro ao serializar payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gallabox: erro ao criar requisição: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).WithField("path", path).Error("❌ Gallabox: falha de rede")
		return nil, &usecase.UpstreamError{Service: serviceName, Status: 0, Body: map[string]any{"message": err.Error()}}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	decoded := map[string]any{}
	if err := json.Unmarshal(respBody, &decoded); err != nil || decoded == nil {
		decoded = map[string]any{}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logrus.WithFields(logrus.Fields{
			"path":   path,
			"status": resp.StatusCode,
		}).Error("❌ Gallabox: API retornou erro")
		return nil, &usecase.UpstreamError{Service: serviceName, Status: resp.StatusCode, Body: decoded}
	}

	logrus.WithField("path", path).Info("✅ Gallabox: requisição aceita")
	return decoded, nil
}
