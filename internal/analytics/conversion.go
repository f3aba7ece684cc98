package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/xavierca1/cohort-crm/internal/entity"
)

type ConversionMode string

const (
	ModeCount   ConversionMode = "count"
	ModePercent ConversionMode = "percent"
)

func (m ConversionMode) Valid() bool {
	return m == ModeCount || m == ModePercent
}

type Month struct {
	Key   string `json:"key"`   // 2006-01
	Label string `json:"label"` // Jan 2006
}

type ConversionRow struct {
	Month       string         `json:"month"`
	Label       string         `json:"label"`
	Total       int            `json:"total"`
	NotEnrolled int            `json:"not_enrolled"`
	Cells       map[string]int `json:"cells"`
}

// ConversionMatrix: linha = mês de criação, coluna = mês de matrícula.
type ConversionMatrix struct {
	Mode   ConversionMode  `json:"mode"`
	Months []Month         `json:"months"`
	Rows   []ConversionRow `json:"rows"`
}

func monthOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// EnrollmentTimes devolve, por lead, o momento da matrícula: a primeira
// transição para Enrolled; sem ela, created_at se o stage atual for Enrolled.
func EnrollmentTimes(leads []*entity.Lead, stageChanges []*entity.Activity) map[string]time.Time {
	enrolled := make(map[string]time.Time)
	for _, a := range stageChanges {
		change, ok := a.StageChange()
		if !ok || change.ToStage != entity.StageEnrolled {
			continue
		}
		if prev, seen := enrolled[a.LeadID]; !seen || a.CreatedAt.Before(prev) {
			enrolled[a.LeadID] = a.CreatedAt
		}
	}

	known := make(map[string]struct{}, len(leads))
	for _, l := range leads {
		known[l.ID] = struct{}{}
		if _, ok := enrolled[l.ID]; !ok && l.Stage == entity.StageEnrolled {
			enrolled[l.ID] = l.CreatedAt
		}
	}
	for id := range enrolled {
		if _, ok := known[id]; !ok {
			delete(enrolled, id)
		}
	}
	return enrolled
}

// Conversion monta a matriz esparsa e materializa o produto cartesiano de
// todos os meses observados, com zero nas células vazias.
func Conversion(leads []*entity.Lead, stageChanges []*entity.Activity, mode ConversionMode) ConversionMatrix {
	if !mode.Valid() {
		mode = ModeCount
	}
	enrolledAt := EnrollmentTimes(leads, stageChanges)

	months := map[string]time.Time{}
	totals := map[string]int{}
	counts := map[string]map[string]int{}
	notEnrolled := map[string]int{}

	for _, l := range leads {
		created := monthOf(l.CreatedAt)
		ck := monthKey(created)
		months[ck] = created
		totals[ck]++
		if counts[ck] == nil {
			counts[ck] = map[string]int{}
		}

		at, ok := enrolledAt[l.ID]
		if !ok {
			notEnrolled[ck]++
			continue
		}
		enrolledMonth := monthOf(at)
		ek := monthKey(enrolledMonth)
		months[ek] = enrolledMonth
		counts[ck][ek]++
	}

	ordered := make([]time.Time, 0, len(months))
	for _, m := range months {
		ordered = append(ordered, m)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Before(ordered[j]) })

	matrix := ConversionMatrix{Mode: mode, Months: make([]Month, 0, len(ordered)), Rows: make([]ConversionRow, 0, len(ordered))}
	for _, m := range ordered {
		matrix.Months = append(matrix.Months, Month{Key: monthKey(m), Label: m.Format("Jan 2006")})
	}

	for _, rowMonth := range matrix.Months {
		total := totals[rowMonth.Key]
		row := ConversionRow{
			Month:       rowMonth.Key,
			Label:       rowMonth.Label,
			Total:       total,
			NotEnrolled: notEnrolled[rowMonth.Key],
			Cells:       make(map[string]int, len(matrix.Months)),
		}
		for _, col := range matrix.Months {
			row.Cells[col.Key] = counts[rowMonth.Key][col.Key]
		}
		if mode == ModePercent {
			for k, v := range row.Cells {
				row.Cells[k] = percent(v, total)
			}
			row.NotEnrolled = percent(row.NotEnrolled, total)
		}
		matrix.Rows = append(matrix.Rows, row)
	}
	return matrix
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
