package usecase

import (
	"encoding/json"

	"github.com/xavierca1/cohort-crm/internal/entity"
)

type CreateLeadInput struct {
	Name   string `json:"name" validate:"required,max=200"`
	Email  string `json:"email" validate:"omitempty,email"`
	Phone  string `json:"phone" validate:"omitempty,max=40"`
	Source string `json:"source" validate:"omitempty,max=200"`
	Stage  string `json:"stage" validate:"omitempty,stage"`
}

// UpdateLeadInput: ponteiro nil = campo não enviado.
type UpdateLeadInput struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Phone  *string `json:"phone" validate:"omitempty,max=40"`
	Source *string `json:"source" validate:"omitempty,max=200"`
	Stage  *string `json:"stage" validate:"omitempty,stage"`
}

type ListLeadsInput struct {
	Stage  string
	Name   string
	Source string
	From   string
	To     string
}

type CreateActivityInput struct {
	LeadID  string          `json:"lead_id" validate:"required,uuid"`
	Type    string          `json:"type" validate:"required,max=100"`
	Details json.RawMessage `json:"details"`
}

type UpdateActivityInput struct {
	Type    *string         `json:"type" validate:"omitempty,min=1,max=100"`
	Details json.RawMessage `json:"details"`
}

type CreateFollowUpInput struct {
	LeadID       string `json:"lead_id" validate:"required,uuid"`
	FollowUpDate string `json:"follow_up_date" validate:"required"`
	Notes        string `json:"notes"`
}

type UpdateFollowUpInput struct {
	ID           string  `json:"id" validate:"required,uuid"`
	FollowUpDate *string `json:"follow_up_date"`
	Notes        *string `json:"notes"`
	Completed    *bool   `json:"completed"`
}

type FunnelInput struct {
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}

type SendMessageInput struct {
	LeadID   string           `json:"leadId" validate:"omitempty,uuid"`
	To       string           `json:"to" validate:"required"`
	Message  string           `json:"message"`
	Template *MessageTemplate `json:"template"`
}

type SendMessageOutput struct {
	Data map[string]any `json:"data"`
}

type CreateCampaignInput struct {
	Name     string           `json:"name" validate:"required"`
	Filters  map[string]any   `json:"filters"`
	Template *MessageTemplate `json:"template"`
}

type CreateCampaignOutput struct {
	Data     *entity.Campaign `json:"data"`
	Provider map[string]any   `json:"gb"`
}

type FormSubmissionOutput struct {
	Created bool         `json:"-"`
	Message string       `json:"message"`
	LeadID  string       `json:"lead_id"`
	Lead    *entity.Lead `json:"lead,omitempty"`
}
