package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xavierca1/cohort-crm/internal/entity"
)

func TestDashboard(t *testing.T) {
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)
	leads := []*entity.Lead{
		lead("1", entity.StageEnrolled, time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)),
		lead("2", entity.StageLead, time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)),
		lead("3", entity.StageProspect, time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC)),
		lead("4", entity.StageEnrolled, time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)),
		lead("5", entity.StageLead, time.Date(2025, 4, 21, 0, 0, 0, 0, time.UTC)),
		lead("6", entity.StageLead, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)),
	}

	m := Dashboard(leads, 42, now)
	assert.Equal(t, DashboardMetrics{
		LeadsThisMonth:       3,
		EnrollmentsThisMonth: 1,
		TotalLeads:           6,
		LeadsLastMonth:       2,
		GrowthRate:           50,
		TotalActivities:      42,
	}, m)
}

func TestDashboard_GrowthEdgeCases(t *testing.T) {
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0.0, Dashboard(nil, 0, now).GrowthRate)

	onlyThisMonth := []*entity.Lead{lead("1", entity.StageLead, now)}
	assert.Equal(t, 100.0, Dashboard(onlyThisMonth, 0, now).GrowthRate)

	// dezembro do ano anterior conta como mês passado
	lastDecember := []*entity.Lead{
		lead("1", entity.StageLead, time.Date(2024, 12, 3, 0, 0, 0, 0, time.UTC)),
		lead("2", entity.StageLead, time.Date(2024, 12, 4, 0, 0, 0, 0, time.UTC)),
		lead("3", entity.StageLead, time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC)),
		lead("4", entity.StageLead, now),
	}
	m := Dashboard(lastDecember, 0, now)
	assert.Equal(t, 3, m.LeadsLastMonth)
	assert.Equal(t, -66.7, m.GrowthRate)
}
