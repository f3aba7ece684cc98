package usecase

import (
	"context"
	"strings"

	"github.com/xavierca1/cohort-crm/internal/entity"
	"github.com/xavierca1/cohort-crm/internal/infra/metrics"
)

type ActivityUseCase struct {
	Repo     ActivityRepositoryInterface
	LeadRepo LeadRepositoryInterface
}

func NewActivityUseCase(repo ActivityRepositoryInterface, leadRepo LeadRepositoryInterface) *ActivityUseCase {
	return &ActivityUseCase{Repo: repo, LeadRepo: leadRepo}
}

func (uc *ActivityUseCase) Append(ctx context.Context, input CreateActivityInput) (*entity.Activity, error) {
	if err := ValidateStruct(input); err != nil {
		return nil, err
	}

	details, err := entity.DecodeDetails(input.Type, input.Details)
	if err != nil {
		return nil, newValidationErrors(ValidationError{"details", "must be a JSON object"})
	}

	activity, err := entity.NewActivity(input.LeadID, input.Type, details)
	if err != nil {
		return nil, wrapEntityError(err)
	}

	// lead inexistente estoura a FK e o repositório devolve ErrLeadNotFound
	if err := uc.Repo.Create(ctx, activity); err != nil {
		return nil, storeError("create activity", err)
	}
	metrics.RecordActivity(activity.Type)
	return activity, nil
}

func (uc *ActivityUseCase) ListByLead(ctx context.Context, leadID string) ([]*entity.Activity, error) {
	if _, err := uc.LeadRepo.FindByID(ctx, leadID); err != nil {
		return nil, storeError("get lead", err)
	}
	activities, err := uc.Repo.ListByLead(ctx, leadID)
	if err != nil {
		return nil, storeError("list activities", err)
	}
	if activities == nil {
		activities = []*entity.Activity{}
	}
	return activities, nil
}

// Update é correção manual: só confere existência, sem invariantes extras.
func (uc *ActivityUseCase) Update(ctx context.Context, id string, input UpdateActivityInput) (*entity.Activity, error) {
	if err := ValidateStruct(input); err != nil {
		return nil, err
	}

	activity, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("get activity", err)
	}

	typeChanged := false
	if input.Type != nil {
		t := strings.TrimSpace(*input.Type)
		if t == "" {
			return nil, newValidationErrors(ValidationError{"type", "is required"})
		}
		typeChanged = t != activity.Type
		activity.Type = t
	}

	switch {
	case len(input.Details) > 0:
		details, err := entity.DecodeDetails(activity.Type, input.Details)
		if err != nil {
			return nil, newValidationErrors(ValidationError{"details", "must be a JSON object"})
		}
		activity.Details = details
	case typeChanged:
		// reinterpreta o payload existente sob o novo type
		raw, err := entity.EncodeDetails(activity.Details)
		if err == nil {
			if details, err := entity.DecodeDetails(activity.Type, raw); err == nil {
				activity.Details = details
			}
		}
	}

	if err := uc.Repo.Update(ctx, activity); err != nil {
		return nil, storeError("update activity", err)
	}
	return activity, nil
}

func (uc *ActivityUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.Repo.Delete(ctx, id); err != nil {
		return storeError("delete activity", err)
	}
	return nil
}
