package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/xavierca1/cohort-crm/internal/usecase"
)

type WebhookHandler struct {
	Webhooks WebhookService
	Now      func() time.Time
}

func NewWebhookHandler(webhooks WebhookService) *WebhookHandler {
	return &WebhookHandler{Webhooks: webhooks, Now: time.Now}
}

// Gallabox (POST /webhooks/gallabox) responde ok sempre: o provedor não deve
// ficar reenviando algo que não conseguimos conciliar.
func (h *WebhookHandler) Gallabox(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body == nil {
		body = map[string]any{}
	}

	h.Webhooks.HandleGallaboxEvent(r.Context(), body)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// GoogleFormsPing (GET /webhooks/google-forms) para o Apps Script testar a URL.
func (h *WebhookHandler) GoogleFormsPing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"at":     h.Now().UTC().Format(time.RFC3339),
	})
}

// GoogleForms (POST /webhooks/google-forms)
func (h *WebhookHandler) GoogleForms(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	out, err := h.Webhooks.HandleFormSubmission(r.Context(), body)
	if err != nil {
		var missing *usecase.MissingFormFieldsError
		if errors.As(err, &missing) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":    missing.Error(),
				"received": missing.Received,
			})
			return
		}
		writeUseCaseError(w, err)
		return
	}

	status := http.StatusOK
	if out.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, out)
}
