package handlers

import (
	"net/http"

	"github.com/xavierca1/cohort-crm/internal/usecase"
)

type FollowUpHandler struct {
	FollowUps FollowUpService
}

func NewFollowUpHandler(followUps FollowUpService) *FollowUpHandler {
	return &FollowUpHandler{FollowUps: followUps}
}

func (h *FollowUpHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.FollowUps.ListPending(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *FollowUpHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateFollowUpInput
	if err := decodeJSON(r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	followUp, err := h.FollowUps.Create(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"data": followUp})
}

// Update (PUT /follow-ups): o id vem no corpo.
func (h *FollowUpHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdateFollowUpInput
	if err := decodeJSON(r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	followUp, err := h.FollowUps.Update(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": followUp})
}
