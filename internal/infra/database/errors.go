package database

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/xavierca1/cohort-crm/internal/entity"
)

const (
	pgForeignKeyViolation  = "23503"
	pgInvalidTextRepresent = "22P02"
)

func pgCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// uuid malformado no parâmetro é o mesmo que "não existe".
func invalidID(err error) bool {
	return pgCode(err) == pgInvalidTextRepresent
}

func requireDB(db *sql.DB) error {
	if db == nil {
		return entity.ErrNotConfigured
	}
	return nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
