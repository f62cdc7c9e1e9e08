package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/classtools/rosterjobs/internal/data/pgxutil"
	"github.com/classtools/rosterjobs/internal/domain/model"
)

// ReportRepo implements core.ReportStore on Postgres. The reporting document
// store is an external collaborator in principle; this implementation keeps
// the rows in a jsonb table so deployments without a separate store still
// get nightly reports.
type ReportRepo struct {
	DB *sql.DB
}

// NewReportRepo creates a new ReportRepo with the given database connection.
func NewReportRepo(db *sql.DB) *ReportRepo {
	return &ReportRepo{DB: db}
}

// WriteRows inserts the aggregated rows in one transaction. A rerun for the
// same batch and report date replaces earlier rows for the same student.
func (r *ReportRepo) WriteRows(ctx context.Context, rows []model.ReportRow) error {
	if len(rows) == 0 {
		return nil
	}

	return pgxutil.WithPgxTx(ctx, r.DB, func(tx pgx.Tx) error {
		for i := range rows {
			row := &rows[i]
			fields, err := json.Marshal(row.Fields)
			if err != nil {
				return fmt.Errorf("encode report fields: %w", err)
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO report_rows (contract_id, course_id, student_id, batch, fields, report_date)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (batch, report_date, contract_id, student_id) DO UPDATE
				SET course_id = EXCLUDED.course_id,
				    fields = EXCLUDED.fields`,
				row.ContractID, row.CourseID, row.StudentID, row.Batch,
				fields, row.ReportDate.UTC()); err != nil {
				return fmt.Errorf("insert report row: %w", err)
			}
		}
		return nil
	})
}
