package usecase

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/xavierca1/cohort-crm/internal/entity"
	"github.com/xavierca1/cohort-crm/internal/infra/metrics"
)

// EnrollmentNotifier consome StageChangedEvent da fila e manda o template de
// boas-vindas quando o lead chega em Enrolled.
type EnrollmentNotifier struct {
	Provider     MessagingProvider
	LeadRepo     LeadRepositoryInterface
	ActivityRepo ActivityRepositoryInterface
	TemplateName string
	Language     string
}

func NewEnrollmentNotifier(provider MessagingProvider, leadRepo LeadRepositoryInterface, activityRepo ActivityRepositoryInterface, templateName string) *EnrollmentNotifier {
	return &EnrollmentNotifier{
		Provider:     provider,
		LeadRepo:     leadRepo,
		ActivityRepo: activityRepo,
		TemplateName: templateName,
		Language:     defaultTemplateLanguage,
	}
}

// HandleStageChanged devolve erro só para falhas que valem retry (Nack).
// Lead sem telefone, lead apagado ou template não configurado são ignorados.
func (n *EnrollmentNotifier) HandleStageChanged(ctx context.Context, event entity.StageChangedEvent) error {
	if event.ToStage != entity.StageEnrolled {
		return nil
	}
	log := logrus.WithField("lead_id", event.LeadID)

	if n.TemplateName == "" {
		log.Debug("ENROLLED_TEMPLATE_NAME vazio, notificação ignorada")
		return nil
	}

	lead, err := n.LeadRepo.FindByID(ctx, event.LeadID)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			log.Info("lead não existe mais, notificação descartada")
			return nil
		}
		return err
	}
	if lead.Phone == "" {
		log.Info("lead sem telefone, notificação ignorada")
		return nil
	}

	resp, err := n.Provider.SendTemplate(ctx, lead.Phone, MessageTemplate{Name: n.TemplateName, Language: n.Language})
	if err != nil {
		if errors.Is(err, entity.ErrNotConfigured) {
			log.Warn("⚠️ Gallabox não configurado, notificação ignorada")
			return nil
		}
		metrics.RecordIntegrationError("gallabox")
		return err
	}

	details := entity.OpaqueDetails{"template": n.TemplateName, "trigger": "enrolled"}
	for k, v := range resp {
		details[k] = v
	}
	activity, _ := entity.NewActivity(lead.ID, entity.ActivityWAMessage, details)
	if err := n.ActivityRepo.Create(ctx, activity); err != nil {
		log.WithError(err).Warn("⚠️ boas-vindas enviada, activity não registrada")
		return nil
	}
	metrics.RecordActivity(activity.Type)
	log.Info("✅ boas-vindas de matrícula enviada")
	return nil
}
