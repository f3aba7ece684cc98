package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xavierca1/cohort-crm/internal/entity"
	"github.com/xavierca1/cohort-crm/internal/infra/logger"
	"github.com/xavierca1/cohort-crm/internal/infra/metrics"
)

type LeadUseCase struct {
	Repo      LeadRepositoryInterface
	Publisher EventPublisher
	Now       Clock
}

func NewLeadUseCase(repo LeadRepositoryInterface, publisher EventPublisher) *LeadUseCase {
	return &LeadUseCase{
		Repo:      repo,
		Publisher: publisher,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

func (uc *LeadUseCase) Create(ctx context.Context, input CreateLeadInput) (*entity.Lead, error) {
	if err := ValidateStruct(input); err != nil {
		return nil, err
	}

	lead, err := entity.NewLead(input.Name, input.Email, input.Phone, input.Source, input.Stage)
	if err != nil {
		return nil, wrapEntityError(err)
	}

	if err := uc.Repo.Create(ctx, lead); err != nil {
		return nil, storeError("create lead", err)
	}

	logrus.WithFields(logrus.Fields{"lead_id": lead.ID, "stage": lead.Stage}).Info("lead criado")
	return lead, nil
}

func (uc *LeadUseCase) Get(ctx context.Context, id string) (*entity.Lead, error) {
	lead, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("get lead", err)
	}
	return lead, nil
}

func (uc *LeadUseCase) List(ctx context.Context, input ListLeadsInput) ([]*entity.Lead, error) {
	filter := entity.LeadFilter{
		NameLike:   strings.TrimSpace(input.Name),
		SourceLike: strings.TrimSpace(input.Source),
	}

	var verrs []ValidationError
	if s := strings.TrimSpace(input.Stage); s != "" && s != "all" {
		st := entity.Stage(s)
		if !st.Valid() {
			verrs = append(verrs, ValidationError{"stage", "must be one of " + stageList()})
		} else {
			filter.Stage = &st
		}
	}
	if input.From != "" {
		from, _, err := ParseDateOrTime(input.From)
		if err != nil {
			verrs = append(verrs, ValidationError{"from", "must be YYYY-MM-DD or RFC3339"})
		} else {
			filter.CreatedFrom = &from
		}
	}
	if input.To != "" {
		to, dateOnly, err := ParseDateOrTime(input.To)
		if err != nil {
			verrs = append(verrs, ValidationError{"to", "must be YYYY-MM-DD or RFC3339"})
		} else {
			if dateOnly {
				to = endOfDay(to)
			}
			filter.CreatedTo = &to
		}
	}
	if len(verrs) > 0 {
		return nil, newValidationErrors(verrs...)
	}

	leads, err := uc.Repo.List(ctx, filter)
	if err != nil {
		return nil, storeError("list leads", err)
	}
	if leads == nil {
		leads = []*entity.Lead{}
	}
	return leads, nil
}

// Update aplica o patch e, se o stage mudou, grava a activity de transição
// na mesma transação (o repositório segura o lock da linha).
func (uc *LeadUseCase) Update(ctx context.Context, id string, input UpdateLeadInput) (*entity.Lead, error) {
	if err := ValidateStruct(input); err != nil {
		return nil, err
	}

	patch := entity.LeadPatch{
		Name:   input.Name,
		Email:  input.Email,
		Phone:  input.Phone,
		Source: input.Source,
	}
	if input.Stage != nil {
		st := entity.Stage(strings.TrimSpace(*input.Stage))
		patch.Stage = &st
	}

	var transition *entity.Activity
	lead, err := uc.Repo.UpdateLocked(ctx, id, func(current *entity.Lead) (*entity.Activity, error) {
		transition = ApplyStageTransition(current, patch, uc.Now())
		if err := current.Validate(); err != nil {
			return nil, err
		}
		current.UpdatedAt = uc.Now()
		return transition, nil
	})
	if err != nil {
		if errors.Is(err, entity.ErrNameRequired) || errors.Is(err, entity.ErrInvalidEmail) || errors.Is(err, entity.ErrInvalidStage) {
			return nil, wrapEntityError(err)
		}
		return nil, storeError("update lead", err)
	}

	if transition != nil {
		uc.afterTransition(ctx, transition)
	}
	return lead, nil
}

// ApplyStageTransition aplica o patch ao lead (já travado) e devolve a
// activity "Lead Stage Changed" quando o stage enviado difere do atual.
// Patch sem stage, ou com o mesmo stage, não gera activity.
func ApplyStageTransition(lead *entity.Lead, patch entity.LeadPatch, now time.Time) *entity.Activity {
	previous := patch.Apply(lead)
	if patch.Stage == nil || *patch.Stage == previous {
		return nil
	}
	return entity.NewStageChange(lead.ID, previous, lead.Stage, now)
}

func (uc *LeadUseCase) afterTransition(ctx context.Context, activity *entity.Activity) {
	details, ok := activity.StageChange()
	if !ok {
		return
	}
	metrics.RecordStageTransition(string(details.FromStage), string(details.ToStage))
	metrics.RecordActivity(activity.Type)

	logger.LogEvent("lead_stage_changed", map[string]interface{}{
		"lead_id":    activity.LeadID,
		"from_stage": details.FromStage,
		"to_stage":   details.ToStage,
	})

	if uc.Publisher == nil {
		return
	}
	event := entity.StageChangedEvent{
		LeadID:    activity.LeadID,
		FromStage: details.FromStage,
		ToStage:   details.ToStage,
		ChangedAt: details.ChangedAt,
	}
	if err := uc.Publisher.PublishStageChanged(ctx, event); err != nil {
		// a transição já foi commitada; a fila é best-effort
		logger.LogError("stage_event_publish", err, map[string]interface{}{"lead_id": activity.LeadID})
	}
}

func (uc *LeadUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.Repo.Delete(ctx, id); err != nil {
		return storeError("delete lead", err)
	}
	logrus.WithField("lead_id", id).Info("lead removido (activities e follow-ups em cascata)")
	return nil
}
