package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xavierca1/cohort-crm/internal/entity"
)

const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeStore         = "STORE_ERROR"
	CodeUpstream      = "UPSTREAM_ERROR"
	CodeConfiguration = "CONFIGURATION_ERROR"
)

// DomainError: erro de negócio que volta como 4xx.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError: falha de infraestrutura (banco, config). Vira 5xx.
type TechnicalError struct {
	Code    string
	Message string
	// SQLState carrega o código do Postgres quando houver.
	SQLState string
	Err      error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// UpstreamError: o provedor de mensagens respondeu fora de 2xx.
type UpstreamError struct {
	Service string
	Status  int
	Body    any
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Service, e.Status)
}

func notFound(what string) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: what + " not found"}
}

func configurationError(what string) *TechnicalError {
	return &TechnicalError{Code: CodeConfiguration, Message: "missing configuration: " + what}
}

// storeError traduz erros de repositório para a taxonomia da API.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, entity.ErrLeadNotFound):
		return notFound("lead")
	case errors.Is(err, entity.ErrActivityNotFound):
		return notFound("activity")
	case errors.Is(err, entity.ErrFollowUpNotFound):
		return notFound("follow-up")
	case errors.Is(err, entity.ErrNotConfigured):
		return configurationError("DATABASE_URL")
	}

	te := &TechnicalError{
		Code:    CodeStore,
		Message: fmt.Sprintf("database error: %s: %v", op, err),
		Err:     err,
	}
	var coded interface{ SQLState() string }
	if errors.As(err, &coded) {
		te.SQLState = coded.SQLState()
	}
	return te
}

// wrapEntityError converte erros de validação do entity em ValidationErrors.
func wrapEntityError(err error) error {
	switch {
	case errors.Is(err, entity.ErrNameRequired):
		return newValidationErrors(ValidationError{"name", "is required"})
	case errors.Is(err, entity.ErrInvalidEmail):
		return newValidationErrors(ValidationError{"email", "must be a valid email"})
	case errors.Is(err, entity.ErrInvalidStage):
		return newValidationErrors(ValidationError{"stage", "must be one of " + stageList()})
	case errors.Is(err, entity.ErrTypeRequired):
		return newValidationErrors(ValidationError{"type", "is required"})
	}
	return err
}

func stageList() string {
	names := make([]string, 0, len(entity.Stages))
	for _, s := range entity.Stages {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}
