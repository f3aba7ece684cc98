package handlers

import (
	"context"

	"github.com/xavierca1/cohort-crm/internal/analytics"
	"github.com/xavierca1/cohort-crm/internal/entity"
	"github.com/xavierca1/cohort-crm/internal/usecase"
)

// Os handlers dependem só do que chamam; os *UseCase concretos satisfazem.

type LeadService interface {
	Create(ctx context.Context, input usecase.CreateLeadInput) (*entity.Lead, error)
	Get(ctx context.Context, id string) (*entity.Lead, error)
	List(ctx context.Context, input usecase.ListLeadsInput) ([]*entity.Lead, error)
	Update(ctx context.Context, id string, input usecase.UpdateLeadInput) (*entity.Lead, error)
	Delete(ctx context.Context, id string) error
}

type ActivityService interface {
	Append(ctx context.Context, input usecase.CreateActivityInput) (*entity.Activity, error)
	ListByLead(ctx context.Context, leadID string) ([]*entity.Activity, error)
	Update(ctx context.Context, id string, input usecase.UpdateActivityInput) (*entity.Activity, error)
	Delete(ctx context.Context, id string) error
}

type FollowUpService interface {
	Create(ctx context.Context, input usecase.CreateFollowUpInput) (*entity.FollowUp, error)
	ListPending(ctx context.Context) ([]*entity.FollowUpWithLead, error)
	Update(ctx context.Context, input usecase.UpdateFollowUpInput) (*entity.FollowUp, error)
}

type AnalyticsService interface {
	Funnel(ctx context.Context, input usecase.FunnelInput) (analytics.FunnelCounts, error)
	Conversion(ctx context.Context, mode string) (analytics.ConversionMatrix, error)
	Dashboard(ctx context.Context) (analytics.DashboardMetrics, error)
}

type MessagingService interface {
	SendMessage(ctx context.Context, input usecase.SendMessageInput) (*usecase.SendMessageOutput, error)
	CreateCampaign(ctx context.Context, input usecase.CreateCampaignInput) (*usecase.CreateCampaignOutput, error)
}

type WebhookService interface {
	HandleGallaboxEvent(ctx context.Context, body map[string]any)
	HandleFormSubmission(ctx context.Context, body map[string]any) (*usecase.FormSubmissionOutput, error)
}
