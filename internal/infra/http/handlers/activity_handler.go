package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/cohort-crm/internal/usecase"
)

type ActivityHandler struct {
	Activities ActivityService
}

func NewActivityHandler(activities ActivityService) *ActivityHandler {
	return &ActivityHandler{Activities: activities}
}

func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateActivityInput
	if err := decodeJSON(r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	activity, err := h.Activities.Append(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"data": activity})
}

func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdateActivityInput
	if err := decodeJSON(r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	activity, err := h.Activities.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Activities.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
