package data

import (
	"context"
	"database/sql"

	"github.com/classtools/rosterjobs/internal/data/pgxutil"
)

// SQLTransactor implements core.Transactor over a *sql.DB. The line
// processor opens one transaction per line through it so each line's writes
// are atomic as a unit, with no lock held across lines.
type SQLTransactor struct {
	DB *sql.DB
}

// NewSQLTransactor creates a SQLTransactor over the given database connection.
func NewSQLTransactor(db *sql.DB) *SQLTransactor {
	return &SQLTransactor{DB: db}
}

// InTx runs fn within a transaction, committing on nil error.
func (t *SQLTransactor) InTx(ctx context.Context, fn func(*sql.Tx) error) error {
	return pgxutil.WithSQLTx(ctx, t.DB, fn)
}
