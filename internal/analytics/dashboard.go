package analytics

import (
	"math"
	"time"

	"github.com/xavierca1/cohort-crm/internal/entity"
)

type DashboardMetrics struct {
	LeadsThisMonth       int     `json:"leads_this_month"`
	EnrollmentsThisMonth int     `json:"enrollments_this_month"`
	TotalLeads           int     `json:"total_leads"`
	LeadsLastMonth       int     `json:"leads_last_month"`
	GrowthRate           float64 `json:"growth_rate"`
	TotalActivities      int     `json:"total_activities"`
}

// Dashboard computes the month-over-month cards. Enrollments this month are
// leads created this month whose current stage is Enrolled.
func Dashboard(leads []*entity.Lead, totalActivities int, now time.Time) DashboardMetrics {
	thisMonth := monthOf(now)
	lastMonth := thisMonth.AddDate(0, -1, 0)

	m := DashboardMetrics{TotalLeads: len(leads), TotalActivities: totalActivities}
	for _, l := range leads {
		created := monthOf(l.CreatedAt)
		switch {
		case created.Equal(thisMonth):
			m.LeadsThisMonth++
			if l.Stage == entity.StageEnrolled {
				m.EnrollmentsThisMonth++
			}
		case created.Equal(lastMonth):
			m.LeadsLastMonth++
		}
	}

	switch {
	case m.LeadsLastMonth > 0:
		rate := float64(m.LeadsThisMonth-m.LeadsLastMonth) / float64(m.LeadsLastMonth) * 100
		m.GrowthRate = math.Round(rate*10) / 10
	case m.LeadsThisMonth > 0:
		m.GrowthRate = 100
	}
	return m
}
