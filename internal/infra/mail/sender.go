package mail

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"

	"github.com/xavierca1/cohort-crm/internal/entity"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templates embed.FS

var reminderTemplate = template.Must(template.ParseFS(templates, "templates/followup_reminder.html"))

var ErrNoRecipient = errors.New("mail: destinatário vazio")

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		From:   from,
		Dialer: gomail.NewDialer(host, port, user, password),
	}
}

func RenderReminderDigest(items []*entity.FollowUpWithLead) (string, error) {
	var body bytes.Buffer
	if err := reminderTemplate.Execute(&body, ReminderDigestData{Count: len(items), Items: items}); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return body.String(), nil
}

// SendFollowUpReminders manda um único e-mail com todos os follow-ups vencidos.
func (s *EmailSender) SendFollowUpReminders(to string, items []*entity.FollowUpWithLead) error {
	if to == "" {
		return ErrNoRecipient
	}
	if len(items) == 0 {
		return nil
	}

	body, err := RenderReminderDigest(items)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("⏰ %d follow-up(s) pendente(s)", len(items)))
	m.SetBody("text/html", body)

	if err := s.Dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}
