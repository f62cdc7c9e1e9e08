// Package devseed populates a development database with a realistic roster:
// a couple of contracts, their custom field definitions, active students,
// and enough raw score documents for the nightly aggregations to produce
// report rows. Seeding is idempotent; rerunning it leaves existing rows
// alone.
package devseed

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/classtools/rosterjobs/internal/core"
	"github.com/classtools/rosterjobs/internal/data"
	"github.com/classtools/rosterjobs/internal/domain/model"
)

// Run executes the full development seeding workflow against the provided DB.
func Run(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	roster := data.NewRosterRepo(db)
	failures := 0
	for _, c := range defaultContracts() {
		contractID, err := ensureContract(ctx, db, c)
		if err != nil {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to seed contract", "name", c.contract.Name, "error", err)
			}
			failures++
			continue
		}
		if logger != nil {
			logger.InfoContext(ctx, "seeded contract", "name", c.contract.Name, "contract_id", contractID)
		}
		failures += seedStudents(ctx, db, roster, logger, contractID, c.students)
		failures += seedScoreDocuments(ctx, db, logger, contractID, c.students)
	}
	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

type seedContract struct {
	contract     model.Contract
	customFields []string
	students     []model.Student
}

func defaultContracts() []seedContract {
	code := func(s string) *string { return &s }
	return []seedContract{
		{
			contract:     model.Contract{Name: "acme-onboarding", Revision: 1, MaxStudents: 500},
			customFields: []string{"department", "employee_no"},
			students: []model.Student{
				{Name: "Taro Yamada", Kana: "ヤマダタロウ", Email: "taro@example.com", ExternalID: "ACME-001", CourseID: 10,
					CustomFields: map[string]string{"department": "Sales"}},
				{Name: "Hanako Sato", Kana: "サトウハナコ", Email: "hanako@example.com", ExternalID: "ACME-002", CourseID: 10},
				{Name: "Jiro Suzuki", Kana: "スズキジロウ", Email: "jiro@example.com", ExternalID: "ACME-003", CourseID: 11,
					Completed: true},
			},
		},
		{
			contract:     model.Contract{Name: "globex-compliance", Revision: 1, UseLoginCode: true, MaxStudents: 100},
			customFields: []string{"branch"},
			students: []model.Student{
				{Name: "Alice Smith", Email: "alice@globex.example.com", ExternalID: "GX-01", CourseID: 20,
					LoginCode: code("gx-alice"), LoginPassword: code("dev-password")},
				{Name: "Bob Jones", Email: "bob@globex.example.com", ExternalID: "GX-02", CourseID: 20,
					LoginCode: code("gx-bob"), LoginPassword: code("dev-password")},
			},
		},
	}
}

// ensureContract finds the contract by name, creating it and its custom
// field definitions on first run. Contract names are not unique in the
// schema, so lookup-then-insert is good enough for a dev database.
func ensureContract(ctx context.Context, db *sql.DB, c seedContract) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx, `SELECT id FROM contracts WHERE name = $1 ORDER BY id LIMIT 1`, c.contract.Name).Scan(&id)
	switch {
	case err == nil:
		return id, nil
	case !errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("look up contract %q: %w", c.contract.Name, err)
	}

	err = db.QueryRowContext(ctx, `
		INSERT INTO contracts (name, revision, use_login_code, max_students)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		c.contract.Name, c.contract.Revision, c.contract.UseLoginCode, c.contract.MaxStudents,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert contract %q: %w", c.contract.Name, err)
	}
	for _, field := range c.customFields {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO contract_custom_fields (contract_id, name)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, id, field); err != nil {
			return 0, fmt.Errorf("insert custom field %q: %w", field, err)
		}
	}
	return id, nil
}

func seedStudents(ctx context.Context, db *sql.DB, roster core.RosterRepository, logger *slog.Logger, contractID int64, students []model.Student) int {
	failures := 0
	for _, s := range students {
		s.ID = uuid.NewString()
		s.ContractID = contractID
		s.Status = model.StudentStatusActive
		created, err := insertStudent(ctx, db, roster, &s)
		if err != nil {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to seed student", "email", s.Email, "error", err)
			}
			failures++
			continue
		}
		if logger != nil {
			msg := "student already exists"
			if created {
				msg = "created student"
			}
			logger.InfoContext(ctx, msg, "email", s.Email)
		}
	}
	return failures
}

func insertStudent(ctx context.Context, db *sql.DB, roster core.RosterRepository, s *model.Student) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	if err := roster.InsertStudentInTx(ctx, tx, s); err != nil {
		_ = tx.Rollback()
		if errors.Is(err, data.ErrStudentConflict) {
			return false, nil
		}
		return false, err
	}
	return true, tx.Commit()
}

// seedScoreDocuments writes a handful of raw score and playback documents
// per active student so aggregate-scores and aggregate-playback have input.
// Documents are keyed by recorded_at; rerunning the seed on the same day
// skips students that already have one.
func seedScoreDocuments(ctx context.Context, db *sql.DB, logger *slog.Logger, contractID int64, students []model.Student) int {
	failures := 0
	recordedAt := time.Now().UTC().Truncate(24 * time.Hour)
	for i, s := range students {
		var studentID string
		err := db.QueryRowContext(ctx, `
			SELECT id FROM students WHERE contract_id = $1 AND external_id = $2 LIMIT 1`,
			contractID, s.ExternalID).Scan(&studentID)
		if err != nil {
			failures++
			continue
		}
		score := map[string]any{"attempts": []map[string]any{{"score": 60 + 10*i}}, "completed": s.Completed}
		playback := map[string]any{"watched_seconds": 1200 + 300*i, "last_position": 0.5}
		if err := insertScoreDocument(ctx, db, contractID, s.CourseID, studentID, "score", score, recordedAt); err != nil {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to seed score document", "student", s.ExternalID, "error", err)
			}
			failures++
		}
		if err := insertScoreDocument(ctx, db, contractID, s.CourseID, studentID, "playback", playback, recordedAt); err != nil {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to seed playback document", "student", s.ExternalID, "error", err)
			}
			failures++
		}
	}
	return failures
}

func insertScoreDocument(ctx context.Context, db *sql.DB, contractID, courseID int64, studentID, kind string, payload map[string]any, recordedAt time.Time) error {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM score_documents
			WHERE contract_id = $1 AND student_id = $2 AND kind = $3 AND recorded_at = $4
		)`, contractID, studentID, kind, recordedAt).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO score_documents (contract_id, course_id, student_id, kind, payload, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		contractID, courseID, studentID, kind, raw, recordedAt)
	return err
}
