package handlers

import (
	"net/http"

	"github.com/xavierca1/cohort-crm/internal/usecase"
)

type AnalyticsHandler struct {
	Analytics AnalyticsService
}

func NewAnalyticsHandler(analytics AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{Analytics: analytics}
}

// Funnel (GET /analytics/funnel?startDate&endDate)
func (h *AnalyticsHandler) Funnel(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	counts, err := h.Analytics.Funnel(r.Context(), usecase.FunnelInput{
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
	})
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// Conversion (GET /analytics/conversion?mode=count|percent)
func (h *AnalyticsHandler) Conversion(w http.ResponseWriter, r *http.Request) {
	matrix, err := h.Analytics.Conversion(r.Context(), r.URL.Query().Get("mode"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matrix)
}

func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.Analytics.Dashboard(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}
