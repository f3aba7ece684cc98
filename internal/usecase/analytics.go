package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/cohort-crm/internal/analytics"
	"github.com/xavierca1/cohort-crm/internal/entity"
	"github.com/xavierca1/cohort-crm/internal/infra/logger"
)

// AnalyticsUseCase só lê. Falha de leitura vira resultado zerado (logado),
// para o dashboard mostrar "sem dados" em vez de erro.
type AnalyticsUseCase struct {
	LeadRepo     LeadRepositoryInterface
	ActivityRepo ActivityRepositoryInterface
	Now          Clock
}

func NewAnalyticsUseCase(leadRepo LeadRepositoryInterface, activityRepo ActivityRepositoryInterface) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		LeadRepo:     leadRepo,
		ActivityRepo: activityRepo,
		Now:          func() time.Time { return time.Now().UTC() },
	}
}

// FunnelWindow converte startDate/endDate (YYYY-MM-DD) em [00:00:00Z, 23:59:59.999Z].
func FunnelWindow(input FunnelInput) (time.Time, time.Time, error) {
	if err := ValidateStruct(input); err != nil {
		return time.Time{}, time.Time{}, err
	}

	var verrs []ValidationError
	start, err := time.Parse("2006-01-02", input.StartDate)
	if err != nil {
		verrs = append(verrs, ValidationError{"startDate", "must be YYYY-MM-DD"})
	}
	end, err := time.Parse("2006-01-02", input.EndDate)
	if err != nil {
		verrs = append(verrs, ValidationError{"endDate", "must be YYYY-MM-DD"})
	}
	if len(verrs) == 0 && end.Before(start) {
		verrs = append(verrs, ValidationError{"endDate", "must not be before startDate"})
	}
	if len(verrs) > 0 {
		return time.Time{}, time.Time{}, newValidationErrors(verrs...)
	}
	return start.UTC(), endOfDay(end.UTC()), nil
}

func (uc *AnalyticsUseCase) Funnel(ctx context.Context, input FunnelInput) (analytics.FunnelCounts, error) {
	start, end, err := FunnelWindow(input)
	if err != nil {
		return analytics.FunnelCounts{}, err
	}

	leads, err := uc.LeadRepo.ListCreatedBetween(ctx, start, end)
	if err != nil {
		logger.LogError("funnel_leads_read", err, map[string]interface{}{"start": input.StartDate, "end": input.EndDate})
		return analytics.FunnelCounts{}, nil
	}
	if len(leads) == 0 {
		return analytics.FunnelCounts{}, nil
	}

	changes, err := uc.ActivityRepo.ListStageChanges(ctx, leadIDs(leads))
	if err != nil {
		logger.LogError("funnel_stage_changes_read", err, nil)
		return analytics.FunnelCounts{Leads: len(leads)}, nil
	}
	return analytics.Funnel(leads, changes), nil
}

func (uc *AnalyticsUseCase) Conversion(ctx context.Context, mode string) (analytics.ConversionMatrix, error) {
	m := analytics.ConversionMode(mode)
	if mode == "" {
		m = analytics.ModeCount
	}
	if !m.Valid() {
		return analytics.ConversionMatrix{}, newValidationErrors(ValidationError{"mode", "must be one of count, percent"})
	}

	empty := analytics.ConversionMatrix{Mode: m, Months: []analytics.Month{}, Rows: []analytics.ConversionRow{}}

	leads, err := uc.LeadRepo.List(ctx, entity.LeadFilter{})
	if err != nil {
		logger.LogError("conversion_leads_read", err, nil)
		return empty, nil
	}
	if len(leads) == 0 {
		return empty, nil
	}

	changes, err := uc.ActivityRepo.ListStageChanges(ctx, nil)
	if err != nil {
		// sem o log, cai no fallback por stage atual
		logger.LogError("conversion_stage_changes_read", err, nil)
		changes = nil
	}
	return analytics.Conversion(leads, changes, m), nil
}

func (uc *AnalyticsUseCase) Dashboard(ctx context.Context) (analytics.DashboardMetrics, error) {
	leads, err := uc.LeadRepo.List(ctx, entity.LeadFilter{})
	if err != nil {
		logger.LogError("dashboard_leads_read", err, nil)
		return analytics.DashboardMetrics{}, nil
	}

	activities, err := uc.ActivityRepo.Count(ctx)
	if err != nil {
		logger.LogError("dashboard_activities_count", err, nil)
		activities = 0
	}
	return analytics.Dashboard(leads, activities, uc.Now()), nil
}

func leadIDs(leads []*entity.Lead) []string {
	ids := make([]string, 0, len(leads))
	for _, l := range leads {
		ids = append(ids, l.ID)
	}
	return ids
}
