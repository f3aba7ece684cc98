package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/xavierca1/cohort-crm/internal/usecase"
)

type ErrorResponse struct {
	Error   string                    `json:"error"`
	Message string                    `json:"message,omitempty"`
	Code    string                    `json:"code,omitempty"`
	Fields  []usecase.ValidationError `json:"fields,omitempty"`
	Status  *int                      `json:"status,omitempty"`
	Body    any                       `json:"body,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Warn("⚠️ erro ao serializar resposta")
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// decodeJSON: corpo vazio vale como {} para os endpoints de patch.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// writeUseCaseError é o único lugar que traduz a taxonomia de erros em HTTP.
func writeUseCaseError(w http.ResponseWriter, err error) {
	var (
		verrs    *usecase.ValidationErrors
		domain   *usecase.DomainError
		tech     *usecase.TechnicalError
		upstream *usecase.UpstreamError
	)
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   usecase.CodeValidation,
			Message: verrs.Error(),
			Fields:  verrs.Fields,
		})
	case errors.As(err, &domain):
		status := http.StatusBadRequest
		if domain.Code == usecase.CodeNotFound {
			status = http.StatusNotFound
		}
		writeErrorResponse(w, status, domain.Code, domain.Message)
	case errors.As(err, &upstream):
		st := upstream.Status
		writeJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:   usecase.CodeUpstream,
			Message: upstream.Error(),
			Status:  &st,
			Body:    upstream.Body,
		})
	case errors.As(err, &tech):
		logrus.WithError(err).WithField("code", tech.Code).Error("❌ erro técnico")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   tech.Code,
			Message: tech.Message,
			Code:    tech.SQLState,
		})
	default:
		logrus.WithError(err).Error("❌ erro inesperado")
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
