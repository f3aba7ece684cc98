package handlers

import (
	"net/http"

	"github.com/xavierca1/cohort-crm/internal/usecase"
)

type GallaboxHandler struct {
	Messaging MessagingService
}

func NewGallaboxHandler(messaging MessagingService) *GallaboxHandler {
	return &GallaboxHandler{Messaging: messaging}
}

// SendMessage (POST /gallabox/send-message)
func (h *GallaboxHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var input usecase.SendMessageInput
	if err := decodeJSON(r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	out, err := h.Messaging.SendMessage(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateCampaign (POST /gallabox/campaign)
func (h *GallaboxHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateCampaignInput
	if err := decodeJSON(r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	out, err := h.Messaging.CreateCampaign(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
