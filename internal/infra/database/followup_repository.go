package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/xavierca1/cohort-crm/internal/entity"
)

type FollowUpRepository struct {
	DB *sql.DB
}

func NewFollowUpRepository(db *sql.DB) *FollowUpRepository {
	return &FollowUpRepository{DB: db}
}

const followUpColumns = `f.id, f.lead_id, f.follow_up_date, f.notes, f.completed, f.reminded_at, f.created_at`

const followUpWithLeadQuery = `
	SELECT ` + followUpColumns + `,
	       l.id, l.name, COALESCE(l.email, ''), COALESCE(l.phone, ''), l.stage
	FROM follow_ups f
	JOIN leads l ON l.id = f.lead_id
`

func scanFollowUp(row rowScanner, extra ...any) (*entity.FollowUp, error) {
	var (
		f        entity.FollowUp
		reminded sql.NullTime
	)
	dest := append([]any{&f.ID, &f.LeadID, &f.FollowUpDate, &f.Notes, &f.Completed, &reminded, &f.CreatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if reminded.Valid {
		t := reminded.Time.UTC()
		f.RemindedAt = &t
	}
	f.FollowUpDate = f.FollowUpDate.UTC()
	f.CreatedAt = f.CreatedAt.UTC()
	return &f, nil
}

func (r *FollowUpRepository) Create(ctx context.Context, f *entity.FollowUp) error {
	if err := requireDB(r.DB); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO follow_ups (id, lead_id, follow_up_date, notes, completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, f.ID, f.LeadID, f.FollowUpDate, f.Notes, f.Completed, f.CreatedAt)
	if err != nil {
		if code := pgCode(err); code == pgForeignKeyViolation || code == pgInvalidTextRepresent {
			return entity.ErrLeadNotFound
		}
		return fmt.Errorf("erro ao inserir follow-up: %w", err)
	}
	return nil
}

// ListPending: não concluídos, do mais próximo ao mais distante, com o lead embutido.
func (r *FollowUpRepository) ListPending(ctx context.Context) ([]*entity.FollowUpWithLead, error) {
	if err := requireDB(r.DB); err != nil {
		return nil, err
	}
	return r.queryWithLead(ctx, followUpWithLeadQuery+` WHERE f.completed = FALSE ORDER BY f.follow_up_date ASC`)
}

// ListDueForReminder: pendentes já vencidos que ainda não foram lembrados.
func (r *FollowUpRepository) ListDueForReminder(ctx context.Context, now time.Time) ([]*entity.FollowUpWithLead, error) {
	if err := requireDB(r.DB); err != nil {
		return nil, err
	}
	return r.queryWithLead(ctx,
		followUpWithLeadQuery+` WHERE f.completed = FALSE AND f.reminded_at IS NULL AND f.follow_up_date <= $1 ORDER BY f.follow_up_date ASC`,
		now,
	)
}

func (r *FollowUpRepository) queryWithLead(ctx context.Context, query string, args ...any) ([]*entity.FollowUpWithLead, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar follow-ups: %w", err)
	}
	defer rows.Close()

	out := []*entity.FollowUpWithLead{}
	for rows.Next() {
		var (
			lead  entity.LeadSummary
			stage string
		)
		f, err := scanFollowUp(rows, &lead.ID, &lead.Name, &lead.Email, &lead.Phone, &stage)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler follow-up: %w", err)
		}
		lead.Stage = entity.Stage(stage)
		out = append(out, &entity.FollowUpWithLead{FollowUp: *f, Lead: lead})
	}
	return out, rows.Err()
}

// UpdateLocked trava a linha (FOR UPDATE) para que dois PATCH concorrentes
// não se sobrescrevam campo a campo.
func (r *FollowUpRepository) UpdateLocked(ctx context.Context, id string, mutate func(f *entity.FollowUp) error) (*entity.FollowUp, error) {
	if err := requireDB(r.DB); err != nil {
		return nil, err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir transação: %w", err)
	}
	defer tx.Rollback()

	f, err := scanFollowUp(tx.QueryRowContext(ctx, `SELECT `+followUpColumns+` FROM follow_ups f WHERE f.id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || invalidID(err) {
			return nil, entity.ErrFollowUpNotFound
		}
		return nil, fmt.Errorf("erro ao travar follow-up: %w", err)
	}

	if err := mutate(f); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE follow_ups
		SET follow_up_date = $2, notes = $3, completed = $4, reminded_at = $5
		WHERE id = $1
	`, f.ID, f.FollowUpDate, f.Notes, f.Completed, f.RemindedAt)
	if err != nil {
		return nil, fmt.Errorf("erro ao atualizar follow-up: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("erro ao confirmar transação: %w", err)
	}
	return f, nil
}

func (r *FollowUpRepository) MarkReminded(ctx context.Context, ids []string, at time.Time) error {
	if err := requireDB(r.DB); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	_, err := r.DB.ExecContext(ctx, `UPDATE follow_ups SET reminded_at = $1 WHERE id = ANY($2::uuid[])`, at, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("erro ao marcar lembretes: %w", err)
	}
	return nil
}
