package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStage(t *testing.T) {
	s, err := ParseStage("")
	require.NoError(t, err)
	assert.Equal(t, StageLead, s)

	s, err = ParseStage(" Next Cohort ")
	require.NoError(t, err)
	assert.Equal(t, StageNextCohort, s)

	_, err = ParseStage("enrolled")
	assert.ErrorIs(t, err, ErrInvalidStage)
}

func TestStageValid(t *testing.T) {
	for _, s := range Stages {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Stage("Graduated").Valid())
}
