package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xavierca1/cohort-crm/internal/entity"
	"github.com/xavierca1/cohort-crm/internal/infra/logger"
	"github.com/xavierca1/cohort-crm/internal/infra/metrics"
)

const defaultTemplateLanguage = "en"

type MessagingUseCase struct {
	Provider     MessagingProvider
	LeadRepo     LeadRepositoryInterface
	ActivityRepo ActivityRepositoryInterface
	CampaignRepo CampaignRepositoryInterface
}

func NewMessagingUseCase(
	provider MessagingProvider,
	leadRepo LeadRepositoryInterface,
	activityRepo ActivityRepositoryInterface,
	campaignRepo CampaignRepositoryInterface,
) *MessagingUseCase {
	return &MessagingUseCase{
		Provider:     provider,
		LeadRepo:     leadRepo,
		ActivityRepo: activityRepo,
		CampaignRepo: campaignRepo,
	}
}

// SendMessage manda texto ou template e depois registra "WA Message" no lead.
// O registro é best-effort: a mensagem já saiu, então erro ali só é logado.
func (uc *MessagingUseCase) SendMessage(ctx context.Context, input SendMessageInput) (*SendMessageOutput, error) {
	input.To = strings.TrimSpace(input.To)
	if err := ValidateStruct(input); err != nil {
		return nil, err
	}
	if input.Template != nil && input.Template.Language == "" {
		input.Template.Language = defaultTemplateLanguage
	}

	var (
		resp map[string]any
		err  error
	)
	if input.Template != nil {
		resp, err = uc.Provider.SendTemplate(ctx, input.To, *input.Template)
	} else {
		resp, err = uc.Provider.SendText(ctx, input.To, input.Message)
	}
	if err != nil {
		return nil, providerError(err)
	}

	uc.logMessageActivity(ctx, input.LeadID, input.To, resp)
	return &SendMessageOutput{Data: resp}, nil
}

func (uc *MessagingUseCase) logMessageActivity(ctx context.Context, leadID, to string, resp map[string]any) {
	log := logrus.WithFields(logrus.Fields{"to": to, "lead_id": leadID})

	if leadID == "" {
		lead, err := uc.LeadRepo.FindByPhone(ctx, to)
		if err != nil {
			if !errors.Is(err, entity.ErrLeadNotFound) {
				log.WithError(err).Warn("⚠️ falha ao buscar lead pelo telefone")
			}
			return
		}
		leadID = lead.ID
	}

	activity, err := entity.NewActivity(leadID, entity.ActivityWAMessage, entity.OpaqueDetails(resp))
	if err != nil {
		return
	}
	if err := uc.ActivityRepo.Create(ctx, activity); err != nil {
		log.WithError(err).Warn("⚠️ mensagem enviada, mas a activity não foi registrada")
		return
	}
	metrics.RecordActivity(activity.Type)
}

// CreateCampaign cria o broadcast no provedor e guarda o registro local.
func (uc *MessagingUseCase) CreateCampaign(ctx context.Context, input CreateCampaignInput) (*CreateCampaignOutput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := ValidateStruct(input); err != nil {
		return nil, err
	}
	if input.Filters == nil {
		input.Filters = map[string]any{}
	}

	resp, err := uc.Provider.CreateCampaign(ctx, input.Name, input.Filters, input.Template)
	if err != nil {
		return nil, providerError(err)
	}

	campaign, err := entity.NewCampaign(input.Name, input.Filters, externalID(resp))
	if err != nil {
		return nil, newValidationErrors(ValidationError{"name", "is required"})
	}
	if err := uc.CampaignRepo.Create(ctx, campaign); err != nil {
		return nil, storeError("create campaign", err)
	}

	logger.LogEvent("campaign_created", map[string]interface{}{
		"campaign_id": campaign.ID,
		"external_id": campaign.GallaboxCampaignID,
	})
	return &CreateCampaignOutput{Data: campaign, Provider: resp}, nil
}

func externalID(resp map[string]any) string {
	switch v := resp["id"].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	return ""
}

func providerError(err error) error {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		metrics.RecordIntegrationError(ue.Service)
		return ue
	}
	if errors.Is(err, entity.ErrNotConfigured) {
		return configurationError("GALLABOX_API_KEY")
	}
	metrics.RecordIntegrationError("gallabox")
	return &UpstreamError{Service: "gallabox", Status: 0, Body: err.Error()}
}
