package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/cohort-crm/internal/analytics"
	"github.com/xavierca1/cohort-crm/internal/entity"
	"github.com/xavierca1/cohort-crm/internal/usecase"
)

type MockLeadService struct{ mock.Mock }

func (m *MockLeadService) Create(ctx context.Context, input usecase.CreateLeadInput) (*entity.Lead, error) {
	args := m.Called(ctx, input)
	lead, _ := args.Get(0).(*entity.Lead)
	return lead, args.Error(1)
}

func (m *MockLeadService) Get(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	lead, _ := args.Get(0).(*entity.Lead)
	return lead, args.Error(1)
}

func (m *MockLeadService) List(ctx context.Context, input usecase.ListLeadsInput) ([]*entity.Lead, error) {
	args := m.Called(ctx, input)
	leads, _ := args.Get(0).([]*entity.Lead)
	return leads, args.Error(1)
}

func (m *MockLeadService) Update(ctx context.Context, id string, input usecase.UpdateLeadInput) (*entity.Lead, error) {
	args := m.Called(ctx, id, input)
	lead, _ := args.Get(0).(*entity.Lead)
	return lead, args.Error(1)
}

func (m *MockLeadService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockActivityService struct{ mock.Mock }

func (m *MockActivityService) Append(ctx context.Context, input usecase.CreateActivityInput) (*entity.Activity, error) {
	args := m.Called(ctx, input)
	a, _ := args.Get(0).(*entity.Activity)
	return a, args.Error(1)
}

func (m *MockActivityService) ListByLead(ctx context.Context, leadID string) ([]*entity.Activity, error) {
	args := m.Called(ctx, leadID)
	items, _ := args.Get(0).([]*entity.Activity)
	return items, args.Error(1)
}

func (m *MockActivityService) Update(ctx context.Context, id string, input usecase.UpdateActivityInput) (*entity.Activity, error) {
	args := m.Called(ctx, id, input)
	a, _ := args.Get(0).(*entity.Activity)
	return a, args.Error(1)
}

func (m *MockActivityService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockFollowUpService struct{ mock.Mock }

func (m *MockFollowUpService) Create(ctx context.Context, input usecase.CreateFollowUpInput) (*entity.FollowUp, error) {
	args := m.Called(ctx, input)
	f, _ := args.Get(0).(*entity.FollowUp)
	return f, args.Error(1)
}

func (m *MockFollowUpService) ListPending(ctx context.Context) ([]*entity.FollowUpWithLead, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]*entity.FollowUpWithLead)
	return items, args.Error(1)
}

func (m *MockFollowUpService) Update(ctx context.Context, input usecase.UpdateFollowUpInput) (*entity.FollowUp, error) {
	args := m.Called(ctx, input)
	f, _ := args.Get(0).(*entity.FollowUp)
	return f, args.Error(1)
}

type MockAnalyticsService struct{ mock.Mock }

func (m *MockAnalyticsService) Funnel(ctx context.Context, input usecase.FunnelInput) (analytics.FunnelCounts, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(analytics.FunnelCounts), args.Error(1)
}

func (m *MockAnalyticsService) Conversion(ctx context.Context, mode string) (analytics.ConversionMatrix, error) {
	args := m.Called(ctx, mode)
	return args.Get(0).(analytics.ConversionMatrix), args.Error(1)
}

func (m *MockAnalyticsService) Dashboard(ctx context.Context) (analytics.DashboardMetrics, error) {
	args := m.Called(ctx)
	return args.Get(0).(analytics.DashboardMetrics), args.Error(1)
}

type MockMessagingService struct{ mock.Mock }

func (m *MockMessagingService) SendMessage(ctx context.Context, input usecase.SendMessageInput) (*usecase.SendMessageOutput, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*usecase.SendMessageOutput)
	return out, args.Error(1)
}

func (m *MockMessagingService) CreateCampaign(ctx context.Context, input usecase.CreateCampaignInput) (*usecase.CreateCampaignOutput, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*usecase.CreateCampaignOutput)
	return out, args.Error(1)
}

type MockWebhookService struct{ mock.Mock }

func (m *MockWebhookService) HandleGallaboxEvent(ctx context.Context, body map[string]any) {
	m.Called(ctx, body)
}

func (m *MockWebhookService) HandleFormSubmission(ctx context.Context, body map[string]any) (*usecase.FormSubmissionOutput, error) {
	args := m.Called(ctx, body)
	out, _ := args.Get(0).(*usecase.FormSubmissionOutput)
	return out, args.Error(1)
}
