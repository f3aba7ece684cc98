package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xavierca1/cohort-crm/internal/entity"
	"github.com/xavierca1/cohort-crm/internal/infra/logger"
	"github.com/xavierca1/cohort-crm/internal/infra/metrics"
)

const (
	FormSource     = "Google Forms"
	webhookDedupTT = 24 * time.Hour
)

type WebhookUseCase struct {
	LeadRepo     LeadRepositoryInterface
	ActivityRepo ActivityRepositoryInterface
	Dedup        EventDeduplicator
}

func NewWebhookUseCase(leadRepo LeadRepositoryInterface, activityRepo ActivityRepositoryInterface, dedup EventDeduplicator) *WebhookUseCase {
	return &WebhookUseCase{LeadRepo: leadRepo, ActivityRepo: activityRepo, Dedup: dedup}
}

// HandleGallaboxEvent tenta associar o evento a um lead pelo telefone e
// registrar uma activity. Nunca devolve erro: o provedor sempre recebe ok.
func (uc *WebhookUseCase) HandleGallaboxEvent(ctx context.Context, body map[string]any) {
	if body == nil {
		body = map[string]any{}
	}
	log := logrus.WithField("source", "gallabox")

	var claimed string
	if id := gallaboxEventID(body); id != "" && uc.Dedup != nil {
		key := "webhook:gallabox:" + id
		first, err := uc.Dedup.FirstSeen(ctx, key, webhookDedupTT)
		if err != nil {
			log.WithError(err).Warn("⚠️ dedup indisponível, processando mesmo assim")
		} else if !first {
			log.WithField("event_id", id).Info("evento repetido ignorado")
			metrics.RecordWebhookEvent("gallabox", "duplicate")
			return
		} else {
			claimed = key
		}
	}
	// falha transitória: libera o id para a reentrega do provedor
	release := func() {
		if claimed == "" {
			return
		}
		if err := uc.Dedup.Forget(ctx, claimed); err != nil {
			log.WithError(err).Warn("⚠️ falha ao liberar id do evento no dedup")
		}
	}

	phone := gallaboxPhone(body)
	if phone == "" {
		metrics.RecordWebhookEvent("gallabox", "unmatched")
		return
	}

	lead, err := uc.LeadRepo.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			metrics.RecordWebhookEvent("gallabox", "unmatched")
			return
		}
		log.WithError(err).Warn("⚠️ falha ao buscar lead do webhook")
		release()
		metrics.RecordWebhookEvent("gallabox", "error")
		return
	}

	activityType := entity.ActivityWAEvent
	if dir, _ := body["direction"].(string); dir == "inbound" {
		activityType = entity.ActivityWAInbound
	}

	activity, _ := entity.NewActivity(lead.ID, activityType, entity.OpaqueDetails(body))
	if err := uc.ActivityRepo.Create(ctx, activity); err != nil {
		log.WithError(err).WithField("lead_id", lead.ID).Warn("⚠️ falha ao registrar activity do webhook")
		release()
		metrics.RecordWebhookEvent("gallabox", "error")
		return
	}
	metrics.RecordActivity(activityType)
	metrics.RecordWebhookEvent("gallabox", "logged")
}

// gallaboxPhone: to | from | data.phone | payload.phone
func gallaboxPhone(body map[string]any) string {
	for _, v := range []any{body["to"], body["from"], nested(body, "data", "phone"), nested(body, "payload", "phone")} {
		if s := coalesceString(v); s != "" {
			return s
		}
	}
	return ""
}

func gallaboxEventID(body map[string]any) string {
	for _, v := range []any{body["id"], body["messageId"], nested(body, "data", "id")} {
		if s := coalesceString(v); s != "" {
			return s
		}
	}
	return ""
}

func nested(body map[string]any, keys ...string) any {
	var cur any = body
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[k]
	}
	return cur
}

func coalesceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case float64:
		return fmt.Sprintf("%.0f", s)
	default:
		return strings.TrimSpace(fmt.Sprint(s))
	}
}

// FormFields são os campos extraídos de um envio do Google Forms.
type FormFields struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	WhatsApp string `json:"whatsapp"`
}

var (
	emailAliases    = []string{"email", "your email", "e-mail", "mail"}
	nameAliases     = []string{"name", "your name", "full name"}
	whatsappAliases = []string{"whatsapp", "your whatsapp number", "phone", "mobile"}
)

// ExtractFormFields procura os campos pelos apelidos comuns dos títulos de
// pergunta, comparando chaves sem diferenciar maiúsculas.
func ExtractFormFields(body map[string]any) FormFields {
	lookup := make(map[string]any, len(body))
	for k, v := range body {
		key := strings.ToLower(strings.TrimSpace(k))
		if _, exists := lookup[key]; !exists || k == key {
			lookup[key] = v
		}
	}
	pick := func(aliases []string) string {
		for _, a := range aliases {
			if v, ok := lookup[a]; ok && v != nil {
				if s := coalesceString(v); s != "" {
					return s
				}
			}
		}
		return ""
	}
	return FormFields{
		Email:    pick(emailAliases),
		Name:     pick(nameAliases),
		WhatsApp: pick(whatsappAliases),
	}
}

// MissingFormFieldsError carrega o que foi recebido para a resposta 400.
type MissingFormFieldsError struct {
	Received FormFields
}

func (e *MissingFormFieldsError) Error() string {
	return "Missing required fields"
}

// HandleFormSubmission deduplica por email; lead novo + activity "Form
// Submission" rodam como sequência compensada.
func (uc *WebhookUseCase) HandleFormSubmission(ctx context.Context, body map[string]any) (*FormSubmissionOutput, error) {
	fields := ExtractFormFields(body)
	if fields.Email == "" || fields.Name == "" || fields.WhatsApp == "" {
		logrus.WithField("received", fields).Warn("[google-forms] campos obrigatórios ausentes")
		metrics.RecordWebhookEvent("google_forms", "invalid")
		return nil, &MissingFormFieldsError{Received: fields}
	}

	existing, err := uc.LeadRepo.FindByEmail(ctx, fields.Email)
	switch {
	case err == nil:
		logrus.WithFields(logrus.Fields{"email": fields.Email, "lead_id": existing.ID}).Info("[google-forms] lead já existe")
		metrics.RecordWebhookEvent("google_forms", "duplicate")
		return &FormSubmissionOutput{Message: "Lead already exists", LeadID: existing.ID}, nil
	case !errors.Is(err, entity.ErrLeadNotFound):
		return nil, storeError("find lead by email", err)
	}

	lead, err := entity.NewLead(fields.Name, fields.Email, fields.WhatsApp, FormSource, string(entity.StageLead))
	if err != nil {
		return nil, wrapEntityError(err)
	}
	activity, _ := entity.NewActivity(lead.ID, entity.ActivityFormSubmission, &entity.FormSubmissionDetails{Source: FormSource})

	txn := NewTransaction()
	txn.AddStep("create_lead",
		func(ctx context.Context) error { return uc.LeadRepo.Create(ctx, lead) },
		func(ctx context.Context) error { return uc.LeadRepo.Delete(ctx, lead.ID) },
	)
	txn.AddStep("log_form_submission",
		func(ctx context.Context) error { return uc.ActivityRepo.Create(ctx, activity) },
		nil,
	)
	if err := txn.Execute(ctx); err != nil {
		logger.LogError("google_forms_intake", err, map[string]interface{}{"email": fields.Email})
		return nil, storeError("form intake", err)
	}

	metrics.RecordActivity(activity.Type)
	metrics.RecordWebhookEvent("google_forms", "created")
	logrus.WithFields(logrus.Fields{"email": fields.Email, "lead_id": lead.ID}).Info("[google-forms] lead criado")

	return &FormSubmissionOutput{Created: true, Message: "Lead created", LeadID: lead.ID, Lead: lead}, nil
}
