package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/xavierca1/cohort-crm/internal/entity"
	"github.com/xavierca1/cohort-crm/internal/infra/logger"
)

const DefaultReminderSchedule = "@every 15m"

type ReminderSender interface {
	SendFollowUpReminders(to string, items []*entity.FollowUpWithLead) error
}

// FollowUpReminderWorker junta os follow-ups vencidos num e-mail e marca
// reminded_at para não lembrar duas vezes o mesmo item.
type FollowUpReminderWorker struct {
	repo      entity.FollowUpRepositoryInterface
	sender    ReminderSender
	recipient string
	schedule  string
	now       func() time.Time
	cron      *cron.Cron
}

func NewFollowUpReminderWorker(repo entity.FollowUpRepositoryInterface, sender ReminderSender, recipient, schedule string) *FollowUpReminderWorker {
	if schedule == "" {
		schedule = DefaultReminderSchedule
	}
	return &FollowUpReminderWorker{
		repo:      repo,
		sender:    sender,
		recipient: recipient,
		schedule:  schedule,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Start registra o job no cron e volta; Stop encerra esperando o job em curso.
func (w *FollowUpReminderWorker) Start(ctx context.Context) error {
	w.cron = cron.New()
	if _, err := w.cron.AddFunc(w.schedule, func() { w.RunOnce(ctx) }); err != nil {
		return err
	}
	w.cron.Start()
	logrus.WithField("schedule", w.schedule).Info("🕒 Follow-up reminder worker iniciado")
	return nil
}

func (w *FollowUpReminderWorker) Stop() {
	if w.cron == nil {
		return
	}
	<-w.cron.Stop().Done()
	logrus.Info("⚠️ Follow-up reminder worker encerrado")
}

// RunOnce devolve quantos follow-ups foram lembrados.
func (w *FollowUpReminderWorker) RunOnce(ctx context.Context) int {
	now := w.now()
	due, err := w.repo.ListDueForReminder(ctx, now)
	if err != nil {
		logger.LogError("followup_reminder_read", err, nil)
		return 0
	}
	if len(due) == 0 {
		return 0
	}

	if err := w.sender.SendFollowUpReminders(w.recipient, due); err != nil {
		logger.LogError("followup_reminder_send", err, map[string]interface{}{"count": len(due)})
		return 0
	}

	ids := make([]string, 0, len(due))
	for _, f := range due {
		ids = append(ids, f.ID)
	}
	if err := w.repo.MarkReminded(ctx, ids, now); err != nil {
		// o e-mail saiu; no pior caso o próximo ciclo repete o lembrete
		logger.LogError("followup_reminder_mark", err, map[string]interface{}{"count": len(ids)})
	}

	logrus.WithField("count", len(due)).Info("✅ lembretes de follow-up enviados")
	return len(due)
}
