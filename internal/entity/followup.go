package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type FollowUp struct {
	ID           string     `json:"id"`
	LeadID       string     `json:"lead_id"`
	FollowUpDate time.Time  `json:"follow_up_date"`
	Notes        string     `json:"notes"`
	Completed    bool       `json:"completed"`
	RemindedAt   *time.Time `json:"reminded_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// LeadSummary é o recorte do lead embutido na listagem de follow-ups.
type LeadSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Stage Stage  `json:"stage"`
}

type FollowUpWithLead struct {
	FollowUp
	Lead LeadSummary `json:"leads"`
}

func NewFollowUp(leadID string, date time.Time, notes string) (*FollowUp, error) {
	if leadID == "" {
		return nil, errors.New("lead_id is required")
	}
	if date.IsZero() {
		return nil, errors.New("follow_up_date is required")
	}
	return &FollowUp{
		ID:           uuid.New().String(),
		LeadID:       leadID,
		FollowUpDate: date.UTC(),
		Notes:        notes,
		Completed:    false,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

type FollowUpPatch struct {
	FollowUpDate *time.Time
	Notes        *string
	Completed    *bool
}

func (p FollowUpPatch) Apply(f *FollowUp) {
	if p.FollowUpDate != nil {
		f.FollowUpDate = p.FollowUpDate.UTC()
	}
	if p.Notes != nil {
		f.Notes = *p.Notes
	}
	if p.Completed != nil {
		f.Completed = *p.Completed
	}
}

type FollowUpRepositoryInterface interface {
	Create(ctx context.Context, f *FollowUp) error
	ListPending(ctx context.Context) ([]*FollowUpWithLead, error)
	// UpdateLocked loads the follow-up under a row lock, lets mutate change it
	// and persists the result in the same transaction.
	UpdateLocked(ctx context.Context, id string, mutate func(f *FollowUp) error) (*FollowUp, error)
	ListDueForReminder(ctx context.Context, now time.Time) ([]*FollowUpWithLead, error)
	MarkReminded(ctx context.Context, ids []string, at time.Time) error
}
