package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/cohort-crm/internal/entity"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
	// Committed guarda o que UpdateLocked "gravou" quando mutate deu certo.
	Committed []*entity.Activity
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByPhone(ctx context.Context, phone string) (*entity.Lead, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*entity.Lead, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// UpdateLocked entrega o lead configurado para mutate e imita o commit.
// O terceiro retorno opcional simula falha ao gravar a activity.
func (m *MockLeadRepository) UpdateLocked(ctx context.Context, id string, mutate func(*entity.Lead) (*entity.Activity, error)) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	original := args.Get(0).(*entity.Lead)
	working := *original

	activity, err := mutate(&working)
	if err != nil {
		return nil, err
	}
	if len(args) > 2 && activity != nil {
		if insertErr := args.Error(2); insertErr != nil {
			// rollback: o lead original fica intacto
			return nil, insertErr
		}
	}
	*original = working
	if activity != nil {
		m.Committed = append(m.Committed, activity)
	}
	return original, nil
}

func (m *MockLeadRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockActivityRepository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Create(ctx context.Context, a *entity.Activity) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockActivityRepository) FindByID(ctx context.Context, id string) (*entity.Activity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Activity), args.Error(1)
}

func (m *MockActivityRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.Activity, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Activity), args.Error(1)
}

func (m *MockActivityRepository) ListStageChanges(ctx context.Context, leadIDs []string) ([]*entity.Activity, error) {
	args := m.Called(ctx, leadIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Activity), args.Error(1)
}

func (m *MockActivityRepository) Update(ctx context.Context, a *entity.Activity) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockActivityRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockActivityRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockFollowUpRepository
type MockFollowUpRepository struct {
	mock.Mock
}

func (m *MockFollowUpRepository) Create(ctx context.Context, f *entity.FollowUp) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFollowUpRepository) ListPending(ctx context.Context) ([]*entity.FollowUpWithLead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FollowUpWithLead), args.Error(1)
}

// UpdateLocked aplica mutate numa cópia do follow-up configurado.
func (m *MockFollowUpRepository) UpdateLocked(ctx context.Context, id string, mutate func(*entity.FollowUp) error) (*entity.FollowUp, error) {
	args := m.Called(ctx, id)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	working := *args.Get(0).(*entity.FollowUp)
	if err := mutate(&working); err != nil {
		return nil, err
	}
	return &working, nil
}

func (m *MockFollowUpRepository) ListDueForReminder(ctx context.Context, now time.Time) ([]*entity.FollowUpWithLead, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FollowUpWithLead), args.Error(1)
}

func (m *MockFollowUpRepository) MarkReminded(ctx context.Context, ids []string, at time.Time) error {
	args := m.Called(ctx, ids, at)
	return args.Error(0)
}

// MockCampaignRepository
type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) Create(ctx context.Context, c *entity.Campaign) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// MockProvider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) SendText(ctx context.Context, to, message string) (map[string]any, error) {
	args := m.Called(ctx, to, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockProvider) SendTemplate(ctx context.Context, to string, template MessageTemplate) (map[string]any, error) {
	args := m.Called(ctx, to, template)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockProvider) CreateCampaign(ctx context.Context, name string, filters map[string]any, template *MessageTemplate) (map[string]any, error) {
	args := m.Called(ctx, name, filters, template)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

// MockPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishStageChanged(ctx context.Context, event entity.StageChangedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockDeduplicator
type MockDeduplicator struct {
	mock.Mock
}

func (m *MockDeduplicator) FirstSeen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockDeduplicator) Forget(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
