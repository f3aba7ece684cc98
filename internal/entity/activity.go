package entity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ActivityStageChanged   = "Lead Stage Changed"
	ActivityFormSubmission = "Form Submission"
	ActivityWAMessage      = "WA Message"
	ActivityWAInbound      = "WA Inbound"
	ActivityWAEvent        = "WA Event"
	ActivityCall           = "Call"
	ActivityEmail          = "Email"
)

// ActivityDetails é o payload tipado de uma Activity. As variantes conhecidas
// têm struct própria; o resto cai em OpaqueDetails.
type ActivityDetails interface {
	isActivityDetails()
}

type StageChangeDetails struct {
	FromStage Stage     `json:"from_stage"`
	ToStage   Stage     `json:"to_stage"`
	ChangedAt time.Time `json:"changed_at"`
	Message   string    `json:"message"`
}

type FormSubmissionDetails struct {
	Source string `json:"source"`
}

type OpaqueDetails map[string]any

func (*StageChangeDetails) isActivityDetails()    {}
func (*FormSubmissionDetails) isActivityDetails() {}
func (OpaqueDetails) isActivityDetails()          {}

type Activity struct {
	ID        string          `json:"id"`
	LeadID    string          `json:"lead_id"`
	Type      string          `json:"type"`
	Details   ActivityDetails `json:"details"`
	CreatedAt time.Time       `json:"created_at"`
}

func NewActivity(leadID, activityType string, details ActivityDetails) (*Activity, error) {
	activityType = strings.TrimSpace(activityType)
	if activityType == "" {
		return nil, ErrTypeRequired
	}
	if details == nil {
		details = OpaqueDetails{}
	}
	return &Activity{
		ID:        uuid.New().String(),
		LeadID:    leadID,
		Type:      activityType,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NewStageChange builds the "Lead Stage Changed" entry for a transition.
func NewStageChange(leadID string, from, to Stage, at time.Time) *Activity {
	return &Activity{
		ID:     uuid.New().String(),
		LeadID: leadID,
		Type:   ActivityStageChanged,
		Details: &StageChangeDetails{
			FromStage: from,
			ToStage:   to,
			ChangedAt: at,
			Message:   fmt.Sprintf("Lead stage changed from %s to %s", from, to),
		},
		CreatedAt: at,
	}
}

// StageChange devolve os detalhes de transição quando a activity for uma.
// Registros corrigidos à mão (com campos extras) chegam como OpaqueDetails,
// então from_stage/to_stage também são lidos do mapa.
func (a *Activity) StageChange() (*StageChangeDetails, bool) {
	if a.Type != ActivityStageChanged {
		return nil, false
	}
	switch d := a.Details.(type) {
	case *StageChangeDetails:
		return d, d.FromStage != "" && d.ToStage != ""
	case OpaqueDetails:
		from, _ := d["from_stage"].(string)
		to, _ := d["to_stage"].(string)
		if from == "" || to == "" {
			return nil, false
		}
		return &StageChangeDetails{FromStage: Stage(from), ToStage: Stage(to)}, true
	}
	return nil, false
}

// DecodeDetails interpreta o JSON guardado conforme o type da activity.
// Payload que não encaixa na variante conhecida vira OpaqueDetails.
func DecodeDetails(activityType string, raw []byte) (ActivityDetails, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return OpaqueDetails{}, nil
	}

	switch activityType {
	case ActivityStageChanged:
		var d StageChangeDetails
		if err := strictUnmarshal(raw, &d); err == nil && d.FromStage != "" && d.ToStage != "" {
			return &d, nil
		}
	case ActivityFormSubmission:
		var d FormSubmissionDetails
		if err := strictUnmarshal(raw, &d); err == nil {
			return &d, nil
		}
	}

	var opaque OpaqueDetails
	if err := json.Unmarshal(raw, &opaque); err != nil {
		return nil, fmt.Errorf("details must be a JSON object: %w", err)
	}
	if opaque == nil {
		opaque = OpaqueDetails{}
	}
	return opaque, nil
}

// EncodeDetails serializa para a coluna JSONB.
func EncodeDetails(details ActivityDetails) ([]byte, error) {
	if details == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(details)
}

func strictUnmarshal(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// ActivityPatch: correções manuais (nil = mantém).
type ActivityPatch struct {
	Type    *string
	Details json.RawMessage
}

type ActivityRepositoryInterface interface {
	Create(ctx context.Context, activity *Activity) error
	FindByID(ctx context.Context, id string) (*Activity, error)
	ListByLead(ctx context.Context, leadID string) ([]*Activity, error)
	// ListStageChanges returns "Lead Stage Changed" rows, oldest first; an
	// empty leadIDs slice means every lead.
	ListStageChanges(ctx context.Context, leadIDs []string) ([]*Activity, error)
	Update(ctx context.Context, activity *Activity) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
