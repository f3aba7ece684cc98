package entity

import (
	"fmt"
	"strings"
)

// Stage é a etapa do lead no pipeline de matrícula.
type Stage string

const (
	StageLead       Stage = "Lead"
	StageProspect   Stage = "Prospect"
	StageEnrolled   Stage = "Enrolled"
	StageRejected   Stage = "Rejected"
	StageNextCohort Stage = "Next Cohort"
)

// Stages lists the pipeline in display order.
var Stages = []Stage{StageLead, StageProspect, StageEnrolled, StageRejected, StageNextCohort}

func (s Stage) Valid() bool {
	for _, known := range Stages {
		if s == known {
			return true
		}
	}
	return false
}

func (s Stage) String() string {
	return string(s)
}

// ParseStage aceita o valor exato; vazio vira StageLead.
func ParseStage(raw string) (Stage, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return StageLead, nil
	}
	s := Stage(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStage, raw)
	}
	return s, nil
}
