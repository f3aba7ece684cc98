package entity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
)

type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Source    string    `json:"source,omitempty"`
	Stage     Stage     `json:"stage"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLead monta um lead novo já validado. Stage vazio vira "Lead".
func NewLead(name, email, phone, source, stage string) (*Lead, error) {
	st, err := ParseStage(stage)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	lead := &Lead{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		Phone:     strings.TrimSpace(phone),
		Source:    strings.TrimSpace(source),
		Stage:     st,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}
	return lead, nil
}

func (l *Lead) Validate() error {
	if l.Name == "" {
		return ErrNameRequired
	}
	if l.Email != "" {
		if err := checkmail.ValidateFormat(l.Email); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidEmail, l.Email)
		}
	}
	if !l.Stage.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStage, l.Stage)
	}
	return nil
}

// LeadPatch carrega só os campos enviados no update (nil = não mexe).
type LeadPatch struct {
	Name   *string
	Email  *string
	Phone  *string
	Source *string
	Stage  *Stage
}

// Apply muda o lead em memória e devolve o stage anterior.
func (p LeadPatch) Apply(l *Lead) (previous Stage) {
	previous = l.Stage
	if p.Name != nil {
		l.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		l.Email = strings.TrimSpace(*p.Email)
	}
	if p.Phone != nil {
		l.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Source != nil {
		l.Source = strings.TrimSpace(*p.Source)
	}
	if p.Stage != nil {
		l.Stage = *p.Stage
	}
	return previous
}

// LeadFilter: todos os campos são opcionais e combinados com AND.
type LeadFilter struct {
	Stage       *Stage
	NameLike    string
	SourceLike  string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	FindByEmail(ctx context.Context, email string) (*Lead, error)
	FindByPhone(ctx context.Context, phone string) (*Lead, error)
	List(ctx context.Context, filter LeadFilter) ([]*Lead, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*Lead, error)
	Count(ctx context.Context) (int, error)
	// UpdateLocked loads the lead under a row lock, lets mutate change it and
	// optionally return an activity, then persists both in one transaction.
	UpdateLocked(ctx context.Context, id string, mutate func(lead *Lead) (*Activity, error)) (*Lead, error)
	Delete(ctx context.Context, id string) error
}
