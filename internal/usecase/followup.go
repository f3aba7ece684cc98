package usecase

import (
	"context"

	"github.com/xavierca1/cohort-crm/internal/entity"
)

type FollowUpUseCase struct {
	Repo FollowUpRepositoryInterface
}

func NewFollowUpUseCase(repo FollowUpRepositoryInterface) *FollowUpUseCase {
	return &FollowUpUseCase{Repo: repo}
}

func (uc *FollowUpUseCase) Create(ctx context.Context, input CreateFollowUpInput) (*entity.FollowUp, error) {
	if err := ValidateStruct(input); err != nil {
		return nil, err
	}

	date, _, err := ParseDateOrTime(input.FollowUpDate)
	if err != nil {
		return nil, newValidationErrors(ValidationError{"follow_up_date", "must be YYYY-MM-DD or RFC3339"})
	}

	followUp, err := entity.NewFollowUp(input.LeadID, date, input.Notes)
	if err != nil {
		return nil, newValidationErrors(ValidationError{"follow_up", err.Error()})
	}

	if err := uc.Repo.Create(ctx, followUp); err != nil {
		return nil, storeError("create follow-up", err)
	}
	return followUp, nil
}

// ListPending devolve os follow-ups em aberto, do mais próximo ao mais distante.
func (uc *FollowUpUseCase) ListPending(ctx context.Context) ([]*entity.FollowUpWithLead, error) {
	items, err := uc.Repo.ListPending(ctx)
	if err != nil {
		return nil, storeError("list follow-ups", err)
	}
	if items == nil {
		items = []*entity.FollowUpWithLead{}
	}
	return items, nil
}

func (uc *FollowUpUseCase) Update(ctx context.Context, input UpdateFollowUpInput) (*entity.FollowUp, error) {
	if err := ValidateStruct(input); err != nil {
		return nil, err
	}

	patch := entity.FollowUpPatch{Notes: input.Notes, Completed: input.Completed}
	if input.FollowUpDate != nil {
		date, _, err := ParseDateOrTime(*input.FollowUpDate)
		if err != nil {
			return nil, newValidationErrors(ValidationError{"follow_up_date", "must be YYYY-MM-DD or RFC3339"})
		}
		patch.FollowUpDate = &date
	}

	followUp, err := uc.Repo.UpdateLocked(ctx, input.ID, func(current *entity.FollowUp) error {
		// reagendar libera um novo lembrete
		if patch.FollowUpDate != nil && !patch.FollowUpDate.Equal(current.FollowUpDate) {
			current.RemindedAt = nil
		}
		patch.Apply(current)
		return nil
	})
	if err != nil {
		return nil, storeError("update follow-up", err)
	}
	return followUp, nil
}
