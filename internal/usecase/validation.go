package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/xavierca1/cohort-crm/internal/entity"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// usa o nome do campo JSON nas mensagens
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("stage", func(fl validator.FieldLevel) bool {
		raw := fl.Field().String()
		return raw == "" || entity.Stage(raw).Valid()
	})
	return v
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors agrupa todas as falhas de um payload.
type ValidationErrors struct {
	Fields []ValidationError
}

func newValidationErrors(fields ...ValidationError) *ValidationErrors {
	return &ValidationErrors{Fields: fields}
}

func (e *ValidationErrors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func IsValidationError(err error) bool {
	var ve *ValidationErrors
	return errors.As(err, &ve)
}

// ValidateStruct roda as tags do validator e devolve *ValidationErrors.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationErrors{}
	for _, fe := range verrs {
		field := fe.Field()
		// namespace = Struct.campo.subcampo; tira o nome do struct raiz
		if ns := fe.Namespace(); strings.Contains(ns, ".") {
			field = ns[strings.Index(ns, ".")+1:]
		}
		param := fe.Param()

		var msg string
		switch fe.Tag() {
		case "required", "required_without":
			msg = "is required"
		case "min":
			msg = "must be at least " + param + " characters"
		case "max":
			msg = "must be at most " + param + " characters"
		case "email":
			msg = "must be a valid email"
		case "uuid", "uuid4":
			msg = "must be a valid UUID"
		case "stage":
			msg = "must be one of " + stageList()
		case "oneof":
			msg = "must be one of " + strings.ReplaceAll(param, " ", ", ")
		default:
			msg = "is invalid"
		}
		out.Fields = append(out.Fields, ValidationError{Field: field, Message: msg})
	}
	return out
}

// ParseDateOrTime aceita "2006-01-02" ou RFC3339.
func ParseDateOrTime(raw string) (time.Time, bool, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), true, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid date %q", raw)
	}
	return t.UTC(), false, nil
}

// endOfDay: último instante do dia (UTC) para filtros inclusivos.
func endOfDay(t time.Time) time.Time {
	return t.Add(24*time.Hour - time.Millisecond)
}
