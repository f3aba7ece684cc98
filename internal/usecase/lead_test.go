package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/cohort-crm/internal/entity"
)

var fixedNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func newLeadUC(repo *MockLeadRepository, pub EventPublisher) *LeadUseCase {
	uc := NewLeadUseCase(repo, pub)
	uc.Now = func() time.Time { return fixedNow }
	return uc
}

func existingLead(stage entity.Stage) *entity.Lead {
	return &entity.Lead{
		ID:        "7f6a3c9e-3a2b-4d2e-9a44-0c6b1f1f0001",
		Name:      "Ana",
		Phone:     "5511999",
		Stage:     stage,
		CreatedAt: fixedNow.Add(-48 * time.Hour),
		UpdatedAt: fixedNow.Add(-48 * time.Hour),
	}
}

func TestLeadUseCase_Create(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Lead")).Return(nil)

	lead, err := newLeadUC(repo, nil).Create(context.Background(), CreateLeadInput{Name: "Ana", Email: "ana@example.com"})

	require.NoError(t, err)
	assert.Equal(t, entity.StageLead, lead.Stage)
	repo.AssertExpectations(t)
}

func TestLeadUseCase_Create_Validation(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := newLeadUC(repo, nil)

	_, err := uc.Create(context.Background(), CreateLeadInput{Email: "bad", Stage: "Alumni"})

	var verrs *ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := map[string]bool{}
	for _, f := range verrs.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["name"])
	assert.True(t, fields["email"])
	assert.True(t, fields["stage"])
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLeadUseCase_Update_StageChangeWritesActivity(t *testing.T) {
	repo := new(MockLeadRepository)
	pub := new(MockPublisher)
	lead := existingLead(entity.StageLead)
	repo.On("UpdateLocked", mock.Anything, lead.ID).Return(lead, nil)
	pub.On("PublishStageChanged", mock.Anything, entity.StageChangedEvent{
		LeadID:    lead.ID,
		FromStage: entity.StageLead,
		ToStage:   entity.StageProspect,
		ChangedAt: fixedNow,
	}).Return(nil)

	updated, err := newLeadUC(repo, pub).Update(context.Background(), lead.ID, UpdateLeadInput{Stage: strPtr("Prospect")})

	require.NoError(t, err)
	assert.Equal(t, entity.StageProspect, updated.Stage)
	assert.Equal(t, fixedNow, updated.UpdatedAt)
	require.Len(t, repo.Committed, 1)

	details, ok := repo.Committed[0].StageChange()
	require.True(t, ok)
	assert.Equal(t, entity.StageLead, details.FromStage)
	assert.Equal(t, entity.StageProspect, details.ToStage)
	assert.Equal(t, "Lead stage changed from Lead to Prospect", details.Message)
	pub.AssertExpectations(t)
}

func TestLeadUseCase_Update_SameStageOrNoStageWritesNothing(t *testing.T) {
	for name, input := range map[string]UpdateLeadInput{
		"same stage": {Stage: strPtr("Prospect")},
		"no stage":   {Name: strPtr("Ana Maria")},
	} {
		t.Run(name, func(t *testing.T) {
			repo := new(MockLeadRepository)
			pub := new(MockPublisher)
			lead := existingLead(entity.StageProspect)
			repo.On("UpdateLocked", mock.Anything, lead.ID).Return(lead, nil)

			_, err := newLeadUC(repo, pub).Update(context.Background(), lead.ID, input)

			require.NoError(t, err)
			assert.Empty(t, repo.Committed)
			pub.AssertNotCalled(t, "PublishStageChanged", mock.Anything, mock.Anything)
		})
	}
}

func TestLeadUseCase_Update_ActivityFailureRollsBack(t *testing.T) {
	repo := new(MockLeadRepository)
	pub := new(MockPublisher)
	lead := existingLead(entity.StageProspect)
	repo.On("UpdateLocked", mock.Anything, lead.ID).Return(lead, nil, errors.New("insert activity: disk full"))

	_, err := newLeadUC(repo, pub).Update(context.Background(), lead.ID, UpdateLeadInput{Stage: strPtr("Enrolled")})

	var te *TechnicalError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, CodeStore, te.Code)
	assert.Equal(t, entity.StageProspect, lead.Stage, "stage não pode mudar sem a activity")
	assert.Empty(t, repo.Committed)
	pub.AssertNotCalled(t, "PublishStageChanged", mock.Anything, mock.Anything)
}

func TestLeadUseCase_Update_PublishFailureIsNotSurfaced(t *testing.T) {
	repo := new(MockLeadRepository)
	pub := new(MockPublisher)
	lead := existingLead(entity.StageProspect)
	repo.On("UpdateLocked", mock.Anything, lead.ID).Return(lead, nil)
	pub.On("PublishStageChanged", mock.Anything, mock.Anything).Return(errors.New("amqp closed"))

	updated, err := newLeadUC(repo, pub).Update(context.Background(), lead.ID, UpdateLeadInput{Stage: strPtr("Enrolled")})

	require.NoError(t, err)
	assert.Equal(t, entity.StageEnrolled, updated.Stage)
}

func TestLeadUseCase_Update_InvalidStage(t *testing.T) {
	repo := new(MockLeadRepository)

	_, err := newLeadUC(repo, nil).Update(context.Background(), "id", UpdateLeadInput{Stage: strPtr("Graduated")})

	assert.True(t, IsValidationError(err))
	repo.AssertNotCalled(t, "UpdateLocked", mock.Anything, mock.Anything)
}

func TestLeadUseCase_Update_EmptyNameRejected(t *testing.T) {
	repo := new(MockLeadRepository)
	lead := existingLead(entity.StageLead)
	repo.On("UpdateLocked", mock.Anything, lead.ID).Return(lead, nil)

	_, err := newLeadUC(repo, nil).Update(context.Background(), lead.ID, UpdateLeadInput{Name: strPtr("  ")})

	assert.True(t, IsValidationError(err))
	assert.Equal(t, "Ana", lead.Name)
}

func TestLeadUseCase_Update_NotFound(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("UpdateLocked", mock.Anything, "missing").Return(nil, entity.ErrLeadNotFound)

	_, err := newLeadUC(repo, nil).Update(context.Background(), "missing", UpdateLeadInput{Stage: strPtr("Prospect")})

	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeNotFound, de.Code)
}

func TestLeadUseCase_Scenario_LeadToEnrolled(t *testing.T) {
	repo := new(MockLeadRepository)
	lead := existingLead(entity.StageLead)
	repo.On("UpdateLocked", mock.Anything, lead.ID).Return(lead, nil)
	uc := newLeadUC(repo, nil)

	for _, s := range []string{"Prospect", "Prospect", "Enrolled"} {
		_, err := uc.Update(context.Background(), lead.ID, UpdateLeadInput{Stage: strPtr(s)})
		require.NoError(t, err)
	}

	require.Len(t, repo.Committed, 2)
	first, _ := repo.Committed[0].StageChange()
	second, _ := repo.Committed[1].StageChange()
	assert.Equal(t, entity.StageProspect, first.ToStage)
	assert.Equal(t, entity.StageProspect, second.FromStage)
	assert.Equal(t, entity.StageEnrolled, second.ToStage)
}

func TestLeadUseCase_List_Filters(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("List", mock.Anything, mock.MatchedBy(func(f entity.LeadFilter) bool {
		return f.Stage != nil && *f.Stage == entity.StageEnrolled &&
			f.NameLike == "ana" &&
			f.CreatedFrom.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) &&
			f.CreatedTo.Equal(time.Date(2025, 1, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC))
	})).Return([]*entity.Lead{}, nil)

	leads, err := newLeadUC(repo, nil).List(context.Background(), ListLeadsInput{
		Stage: "Enrolled", Name: " ana ", From: "2025-01-01", To: "2025-01-31",
	})

	require.NoError(t, err)
	assert.NotNil(t, leads)
	repo.AssertExpectations(t)
}

func TestLeadUseCase_List_AllStagesAndBadInput(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("List", mock.Anything, entity.LeadFilter{}).Return(nil, nil)
	uc := newLeadUC(repo, nil)

	leads, err := uc.List(context.Background(), ListLeadsInput{Stage: "all"})
	require.NoError(t, err)
	assert.Empty(t, leads)

	_, err = uc.List(context.Background(), ListLeadsInput{Stage: "Nope", From: "yesterday"})
	var verrs *ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs.Fields, 2)
}

func TestLeadUseCase_Delete(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Delete", mock.Anything, "ok").Return(nil)
	repo.On("Delete", mock.Anything, "missing").Return(entity.ErrLeadNotFound)
	uc := newLeadUC(repo, nil)

	assert.NoError(t, uc.Delete(context.Background(), "ok"))

	var de *DomainError
	require.ErrorAs(t, uc.Delete(context.Background(), "missing"), &de)
	assert.Equal(t, CodeNotFound, de.Code)
}

func TestLeadUseCase_StoreErrorsCarrySQLState(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(sqlStateErr{"23505"})

	_, err := newLeadUC(repo, nil).Create(context.Background(), CreateLeadInput{Name: "Ana"})

	var te *TechnicalError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "23505", te.SQLState)
}

type sqlStateErr struct{ code string }

func (e sqlStateErr) Error() string    { return "pq: " + e.code }
func (e sqlStateErr) SQLState() string { return e.code }

func TestLeadUseCase_NotConfigured(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("FindByID", mock.Anything, "x").Return(nil, entity.ErrNotConfigured)

	_, err := newLeadUC(repo, nil).Get(context.Background(), "x")

	var te *TechnicalError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, CodeConfiguration, te.Code)
}
