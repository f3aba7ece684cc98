// Package analytics holds the dashboard aggregations. Everything here is a
// pure function over leads and activities already loaded by the caller; no
// derived state is stored anywhere.
package analytics

import (
	"sort"

	"github.com/xavierca1/cohort-crm/internal/entity"
)

type FunnelCounts struct {
	Leads     int `json:"leads"`
	Prospects int `json:"prospects"`
	Enrolled  int `json:"enrolled"`
}

// Journey é a sequência de stages que um lead já visitou, sem repetição,
// na ordem em que apareceram.
type Journey []entity.Stage

func (j Journey) Contains(s entity.Stage) bool {
	for _, v := range j {
		if v == s {
			return true
		}
	}
	return false
}

// Journeys replays the stage-change log for the given leads. Every journey
// starts at Lead; activities for leads outside the set are ignored.
func Journeys(leads []*entity.Lead, stageChanges []*entity.Activity) map[string]Journey {
	journeys := make(map[string]Journey, len(leads))
	for _, l := range leads {
		journeys[l.ID] = Journey{entity.StageLead}
	}

	ordered := make([]*entity.Activity, len(stageChanges))
	copy(ordered, stageChanges)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	for _, a := range ordered {
		journey, ok := journeys[a.LeadID]
		if !ok {
			continue
		}
		change, ok := a.StageChange()
		if !ok {
			continue
		}
		if !journey.Contains(change.ToStage) {
			journeys[a.LeadID] = append(journey, change.ToStage)
		}
	}
	return journeys
}

// Funnel conta alcance: um lead conta uma vez em cada etapa que já visitou,
// mesmo que tenha regredido depois. Quem chegou a Enrolled também conta como
// Prospect, então enrolled <= prospects <= leads sempre vale.
func Funnel(leads []*entity.Lead, stageChanges []*entity.Activity) FunnelCounts {
	counts := FunnelCounts{Leads: len(leads)}
	for _, journey := range Journeys(leads, stageChanges) {
		enrolled := journey.Contains(entity.StageEnrolled)
		if enrolled || journey.Contains(entity.StageProspect) {
			counts.Prospects++
		}
		if enrolled {
			counts.Enrolled++
		}
	}
	return counts
}
