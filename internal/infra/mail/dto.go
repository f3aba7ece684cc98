package mail

import (
	"github.com/xavierca1/cohort-crm/internal/entity"
	"gopkg.in/gomail.v2"
)

type ReminderDigestData struct {
	Count int
	Items []*entity.FollowUpWithLead
}

// Dialer é o que o *gomail.Dialer oferece; os testes trocam por um fake.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From   string
	Dialer Dialer
}
