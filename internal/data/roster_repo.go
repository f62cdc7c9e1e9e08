package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/classtools/rosterjobs/internal/core"
	"github.com/classtools/rosterjobs/internal/domain/model"
)

// RosterRepo provides database operations for contracts and student rosters.
// Methods suffixed InTx participate in a caller-owned transaction so one
// bulk line's writes commit or roll back as a unit.
type RosterRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewRosterRepo creates a new RosterRepo with the given database connection.
func NewRosterRepo(db *sql.DB) *RosterRepo {
	return &RosterRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewRosterRepoWithTimeProvider creates a RosterRepo with a custom TimeProvider.
func NewRosterRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *RosterRepo {
	return &RosterRepo{DB: db, timeProvider: tp}
}

// GetContract loads a contract by ID, returning ErrContractNotFound when absent.
func (r *RosterRepo) GetContract(ctx context.Context, id int64) (*model.Contract, error) {
	var c model.Contract
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, revision, use_login_code, max_students, created_at, updated_at
		FROM contracts WHERE id = $1`, id).Scan(
		&c.ID, &c.Name, &c.Revision, &c.UseLoginCode, &c.MaxStudents,
		&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrContractNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contract: %w", err)
	}
	return &c, nil
}

const studentColumns = `
  id,
  contract_id,
  name,
  kana,
  email,
  external_id,
  course_id,
  login_code,
  login_password,
  status,
  masked,
  completed,
  custom_fields,
  created_at,
  updated_at
`

func scanStudent(row *sql.Row) (*model.Student, error) {
	var s model.Student
	var fields []byte
	err := row.Scan(
		&s.ID, &s.ContractID, &s.Name, &s.Kana, &s.Email, &s.ExternalID,
		&s.CourseID, &s.LoginCode, &s.LoginPassword, &s.Status, &s.Masked,
		&s.Completed, &fields, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if unmarshalErr := json.Unmarshal(fields, &s.CustomFields); unmarshalErr != nil {
			return nil, fmt.Errorf("decode custom fields: %w", unmarshalErr)
		}
	}
	return &s, nil
}

// GetStudent loads a student scoped to a contract, returning
// ErrStudentNotFound when absent.
func (r *RosterRepo) GetStudent(
	ctx context.Context,
	contractID int64,
	studentID string,
) (*model.Student, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+studentColumns+`
		FROM students WHERE contract_id = $1 AND id = $2`, contractID, studentID)
	s, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	return s, nil
}

// InsertStudentInTx inserts one roster row within the caller's transaction.
// A unique violation on email or login code maps to ErrStudentConflict so
// the line processor records it as a per-line validation failure, not a
// fatal error.
func (r *RosterRepo) InsertStudentInTx(ctx context.Context, tx *sql.Tx, s *model.Student) error {
	if s == nil {
		return errors.New("student is required")
	}

	fields := []byte(`{}`)
	if s.CustomFields != nil {
		encoded, err := json.Marshal(s.CustomFields)
		if err != nil {
			return fmt.Errorf("encode custom fields: %w", err)
		}
		fields = encoded
	}

	now := r.timeProvider.Now().UTC()
	_, err := tx.ExecContext(ctx, `
		INSERT INTO students (id, contract_id, name, kana, email, external_id, course_id,
		                      login_code, login_password, status, masked, completed,
		                      custom_fields, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'active', false, false, $10, $11, $11)`,
		s.ID, s.ContractID, s.Name, s.Kana, s.Email, s.ExternalID, s.CourseID,
		s.LoginCode, s.LoginPassword, fields, now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: %s", ErrStudentConflict, pgErr.ConstraintName)
		}
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

// UnregisterInTx marks a student unregistered within the caller's
// transaction. Returns false when the student was already unregistered so
// the worker can classify the line as skipped.
func (r *RosterRepo) UnregisterInTx(
	ctx context.Context,
	tx *sql.Tx,
	contractID int64,
	studentID string,
) (bool, error) {
	now := r.timeProvider.Now().UTC()
	res, err := tx.ExecContext(ctx, `
		UPDATE students
		SET status = 'unregistered', updated_at = $3
		WHERE contract_id = $1 AND id = $2 AND status <> 'unregistered'`,
		contractID, studentID, now)
	if err != nil {
		return false, fmt.Errorf("unregister student: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// MaskInTx overwrites a student's personal data with placeholders within the
// caller's transaction. Returns false when the row was already masked.
func (r *RosterRepo) MaskInTx(
	ctx context.Context,
	tx *sql.Tx,
	contractID int64,
	studentID string,
) (bool, error) {
	now := r.timeProvider.Now().UTC()
	res, err := tx.ExecContext(ctx, `
		UPDATE students
		SET name = '***', kana = '***',
		    email = 'masked+' || id || '@invalid.example',
		    masked = true, updated_at = $3
		WHERE contract_id = $1 AND id = $2 AND NOT masked`,
		contractID, studentID, now)
	if err != nil {
		return false, fmt.Errorf("mask student: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// UpdateCustomFieldInTx sets one custom field value on the student matched
// by external ID. Unknown field names map to ErrUnknownCustomField; the set
// of known fields is the contract's custom field definitions.
func (r *RosterRepo) UpdateCustomFieldInTx(
	ctx context.Context,
	tx *sql.Tx,
	p core.UpdateCustomFieldParams,
) error {
	var known bool
	if err := tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM contract_custom_fields
			WHERE contract_id = $1 AND name = $2
		)`, p.ContractID, p.Field).Scan(&known); err != nil {
		return fmt.Errorf("check custom field: %w", err)
	}
	if !known {
		return fmt.Errorf("%w: %s", ErrUnknownCustomField, p.Field)
	}

	now := r.timeProvider.Now().UTC()
	res, err := tx.ExecContext(ctx, `
		UPDATE students
		SET custom_fields = custom_fields || jsonb_build_object($3::text, $4::text),
		    updated_at = $5
		WHERE contract_id = $1 AND external_id = $2 AND status = 'active'`,
		p.ContractID, p.ExternalID, p.Field, p.Value, now)
	if err != nil {
		return fmt.Errorf("update custom field: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrStudentNotFound
	}
	return nil
}
