package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/xavierca1/cohort-crm/internal/entity"
)

type ActivityRepository struct {
	DB *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insertActivity serve tanto o *sql.DB quanto a tx do UpdateLocked.
func insertActivity(ctx context.Context, db execer, a *entity.Activity) error {
	details, err := entity.EncodeDetails(a.Details)
	if err != nil {
		return fmt.Errorf("erro ao serializar details: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO activities (id, lead_id, type, details, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, a.ID, a.LeadID, a.Type, details, a.CreatedAt)
	if err != nil {
		if code := pgCode(err); code == pgForeignKeyViolation || code == pgInvalidTextRepresent {
			return entity.ErrLeadNotFound
		}
		return fmt.Errorf("erro ao inserir activity: %w", err)
	}
	return nil
}

func scanActivity(row rowScanner) (*entity.Activity, error) {
	var (
		a   entity.Activity
		raw []byte
	)
	if err := row.Scan(&a.ID, &a.LeadID, &a.Type, &raw, &a.CreatedAt); err != nil {
		return nil, err
	}
	details, err := entity.DecodeDetails(a.Type, raw)
	if err != nil {
		details = entity.OpaqueDetails{}
	}
	a.Details = details
	a.CreatedAt = a.CreatedAt.UTC()
	return &a, nil
}

const activityColumns = `id, lead_id, type, details, created_at`

func (r *ActivityRepository) Create(ctx context.Context, a *entity.Activity) error {
	if err := requireDB(r.DB); err != nil {
		return err
	}
	return insertActivity(ctx, r.DB, a)
}

func (r *ActivityRepository) FindByID(ctx context.Context, id string) (*entity.Activity, error) {
	if err := requireDB(r.DB); err != nil {
		return nil, err
	}
	a, err := scanActivity(r.DB.QueryRowContext(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || invalidID(err) {
			return nil, entity.ErrActivityNotFound
		}
		return nil, fmt.Errorf("erro ao buscar activity: %w", err)
	}
	return a, nil
}

// ListByLead: mais recentes primeiro.
func (r *ActivityRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.Activity, error) {
	if err := requireDB(r.DB); err != nil {
		return nil, err
	}
	return r.query(ctx, `SELECT `+activityColumns+` FROM activities WHERE lead_id = $1 ORDER BY created_at DESC`, leadID)
}

func (r *ActivityRepository) ListStageChanges(ctx context.Context, leadIDs []string) ([]*entity.Activity, error) {
	if err := requireDB(r.DB); err != nil {
		return nil, err
	}
	if len(leadIDs) == 0 {
		return r.query(ctx, `SELECT `+activityColumns+` FROM activities WHERE type = $1 ORDER BY created_at ASC`, entity.ActivityStageChanged)
	}
	return r.query(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE type = $1 AND lead_id = ANY($2::uuid[]) ORDER BY created_at ASC`,
		entity.ActivityStageChanged, pq.Array(leadIDs),
	)
}

func (r *ActivityRepository) query(ctx context.Context, query string, args ...any) ([]*entity.Activity, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar activities: %w", err)
	}
	defer rows.Close()

	out := []*entity.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler activity: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *ActivityRepository) Update(ctx context.Context, a *entity.Activity) error {
	if err := requireDB(r.DB); err != nil {
		return err
	}
	details, err := entity.EncodeDetails(a.Details)
	if err != nil {
		return fmt.Errorf("erro ao serializar details: %w", err)
	}
	res, err := r.DB.ExecContext(ctx, `UPDATE activities SET type = $2, details = $3 WHERE id = $1`, a.ID, a.Type, details)
	if err != nil {
		if invalidID(err) {
			return entity.ErrActivityNotFound
		}
		return fmt.Errorf("erro ao atualizar activity: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrActivityNotFound
	}
	return nil
}

func (r *ActivityRepository) Delete(ctx context.Context, id string) error {
	if err := requireDB(r.DB); err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		if invalidID(err) {
			return entity.ErrActivityNotFound
		}
		return fmt.Errorf("erro ao remover activity: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrActivityNotFound
	}
	return nil
}

func (r *ActivityRepository) Count(ctx context.Context) (int, error) {
	if err := requireDB(r.DB); err != nil {
		return 0, err
	}
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities`).Scan(&n); err != nil {
		return 0, fmt.Errorf("erro ao contar activities: %w", err)
	}
	return n, nil
}
