package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xavierca1/cohort-crm/internal/entity"
)

const leadColumns = `id, name, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(source, ''), stage, created_at, updated_at`

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var l entity.Lead
	var stage string
	if err := row.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Source, &stage, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.Stage = entity.Stage(stage)
	l.CreatedAt = l.CreatedAt.UTC()
	l.UpdatedAt = l.UpdatedAt.UTC()
	return &l, nil
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	if err := requireDB(r.DB); err != nil {
		return err
	}
	query := `
		INSERT INTO leads (id, name, email, phone, source, stage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.Name,
		nullString(lead.Email),
		nullString(lead.Phone),
		nullString(lead.Source),
		string(lead.Stage),
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("erro ao inserir lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) findOne(ctx context.Context, where string, arg any) (*entity.Lead, error) {
	if err := requireDB(r.DB); err != nil {
		return nil, err
	}
	query := `SELECT ` + leadColumns + ` FROM leads WHERE ` + where + ` ORDER BY created_at ASC LIMIT 1`
	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || invalidID(err) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, fmt.Errorf("erro ao buscar lead: %w", err)
	}
	return lead, nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	return r.findOne(ctx, `id = $1`, id)
}

// FindByEmail compara sem diferenciar maiúsculas.
func (r *LeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	return r.findOne(ctx, `lower(email) = lower($1)`, strings.TrimSpace(email))
}

func (r *LeadRepository) FindByPhone(ctx context.Context, phone string) (*entity.Lead, error) {
	return r.findOne(ctx, `phone = $1`, strings.TrimSpace(phone))
}

// List aplica os filtros opcionais; mais recentes primeiro.
func (r *LeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	if err := requireDB(r.DB); err != nil {
		return nil, err
	}

	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.Stage != nil {
		add("stage = $%d", string(*filter.Stage))
	}
	if filter.NameLike != "" {
		add(`name ILIKE $%d ESCAPE '\'`, containsPattern(filter.NameLike))
	}
	if filter.SourceLike != "" {
		add(`source ILIKE $%d ESCAPE '\'`, containsPattern(filter.SourceLike))
	}
	if filter.CreatedFrom != nil {
		add("created_at >= $%d", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		add("created_at <= $%d", *filter.CreatedTo)
	}

	query := `SELECT ` + leadColumns + ` FROM leads`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	return r.query(ctx, query, args...)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsPattern monta o padrão de substring literal: % e _ do usuário não
// viram curinga.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// ListCreatedBetween: janela fechada [from, to], mais antigos primeiro.
func (r *LeadRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*entity.Lead, error) {
	if err := requireDB(r.DB); err != nil {
		return nil, err
	}
	query := `SELECT ` + leadColumns + ` FROM leads WHERE created_at >= $1 AND created_at <= $2 ORDER BY created_at ASC`
	return r.query(ctx, query, from, to)
}

func (r *LeadRepository) query(ctx context.Context, query string, args ...any) ([]*entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar leads: %w", err)
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler lead: %w", err)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) Count(ctx context.Context) (int, error) {
	if err := requireDB(r.DB); err != nil {
		return 0, err
	}
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`).Scan(&n); err != nil {
		return 0, fmt.Errorf("erro ao contar leads: %w", err)
	}
	return n, nil
}

// UpdateLocked trava a linha (FOR UPDATE), deixa mutate alterar o lead e
// grava lead + activity opcional no mesmo commit. Qualquer falha faz rollback
// e nada fica persistido.
func (r *LeadRepository) UpdateLocked(ctx context.Context, id string, mutate func(lead *entity.Lead) (*entity.Activity, error)) (*entity.Lead, error) {
	if err := requireDB(r.DB); err != nil {
		return nil, err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir transação: %w", err)
	}
	defer tx.Rollback()

	lead, err := scanLead(tx.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || invalidID(err) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, fmt.Errorf("erro ao travar lead: %w", err)
	}

	activity, err := mutate(lead)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE leads
		SET name = $2, email = $3, phone = $4, source = $5, stage = $6, updated_at = $7
		WHERE id = $1
	`,
		lead.ID,
		lead.Name,
		nullString(lead.Email),
		nullString(lead.Phone),
		nullString(lead.Source),
		string(lead.Stage),
		lead.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("erro ao atualizar lead: %w", err)
	}

	if activity != nil {
		if err := insertActivity(ctx, tx, activity); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("erro no commit do lead: %w", err)
	}
	return lead, nil
}

// Delete remove o lead; activities e follow-ups vão junto (ON DELETE CASCADE).
func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	if err := requireDB(r.DB); err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		if invalidID(err) {
			return entity.ErrLeadNotFound
		}
		return fmt.Errorf("erro ao remover lead: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}
