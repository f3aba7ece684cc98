package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/cohort-crm/internal/analytics"
	"github.com/xavierca1/cohort-crm/internal/entity"
)

func TestFunnelWindow(t *testing.T) {
	start, end, err := FunnelWindow(FunnelInput{StartDate: "2025-01-01", EndDate: "2025-01-31"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC), end)

	for name, in := range map[string]FunnelInput{
		"missing":  {StartDate: "2025-01-01"},
		"garbage":  {StartDate: "jan", EndDate: "2025-01-31"},
		"inverted": {StartDate: "2025-02-01", EndDate: "2025-01-01"},
	} {
		_, _, err := FunnelWindow(in)
		assert.True(t, IsValidationError(err), name)
	}
}

func TestAnalyticsUseCase_Funnel(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	actRepo := new(MockActivityRepository)
	at := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	leads := []*entity.Lead{
		{ID: "a", Stage: entity.StageEnrolled, CreatedAt: at},
		{ID: "b", Stage: entity.StageLead, CreatedAt: at},
	}
	leadRepo.On("ListCreatedBetween", mock.Anything, mock.Anything, mock.Anything).Return(leads, nil)
	actRepo.On("ListStageChanges", mock.Anything, []string{"a", "b"}).Return([]*entity.Activity{
		entity.NewStageChange("a", entity.StageLead, entity.StageProspect, at.Add(time.Hour)),
		entity.NewStageChange("a", entity.StageProspect, entity.StageEnrolled, at.Add(2*time.Hour)),
	}, nil)

	counts, err := NewAnalyticsUseCase(leadRepo, actRepo).Funnel(context.Background(), FunnelInput{StartDate: "2025-01-01", EndDate: "2025-01-31"})

	require.NoError(t, err)
	assert.Equal(t, analytics.FunnelCounts{Leads: 2, Prospects: 1, Enrolled: 1}, counts)
}

func TestAnalyticsUseCase_Funnel_DegradesOnReadFailure(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	leadRepo.On("ListCreatedBetween", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	counts, err := NewAnalyticsUseCase(leadRepo, new(MockActivityRepository)).Funnel(context.Background(), FunnelInput{StartDate: "2025-01-01", EndDate: "2025-01-31"})

	require.NoError(t, err)
	assert.Equal(t, analytics.FunnelCounts{}, counts)
}

func TestAnalyticsUseCase_Conversion(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	actRepo := new(MockActivityRepository)
	created := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	leadRepo.On("List", mock.Anything, entity.LeadFilter{}).Return([]*entity.Lead{
		{ID: "a", Stage: entity.StageEnrolled, CreatedAt: created},
	}, nil)
	actRepo.On("ListStageChanges", mock.Anything, []string(nil)).Return(nil, errors.New("boom"))
	uc := NewAnalyticsUseCase(leadRepo, actRepo)

	m, err := uc.Conversion(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, analytics.ModeCount, m.Mode)
	require.Len(t, m.Rows, 1)
	assert.Equal(t, 1, m.Rows[0].Cells["2025-01"])

	_, err = uc.Conversion(context.Background(), "ratio")
	assert.True(t, IsValidationError(err))
}

func TestAnalyticsUseCase_Dashboard(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	actRepo := new(MockActivityRepository)
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	leadRepo.On("List", mock.Anything, entity.LeadFilter{}).Return([]*entity.Lead{
		{ID: "a", Stage: entity.StageEnrolled, CreatedAt: now},
	}, nil)
	actRepo.On("Count", mock.Anything).Return(0, errors.New("down"))
	uc := NewAnalyticsUseCase(leadRepo, actRepo)
	uc.Now = func() time.Time { return now }

	m, err := uc.Dashboard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, m.TotalLeads)
	assert.Equal(t, 1, m.EnrollmentsThisMonth)
	assert.Equal(t, 0, m.TotalActivities)
	assert.Equal(t, 100.0, m.GrowthRate)
}
