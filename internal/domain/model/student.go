package model

import "time"

// StudentStatus represents the roster lifecycle of a student row.
type StudentStatus string

const (
	// StudentStatusActive is a registered, active student.
	StudentStatusActive StudentStatus = "active"
	// StudentStatusUnregistered is a student removed from the roster.
	StudentStatusUnregistered StudentStatus = "unregistered"
)

// Student is one roster row belonging to a contract. LoginCode and
// LoginPassword are only set for contracts using login-code authentication.
type Student struct {
	ID            string         `json:"id"                       db:"id"`
	ContractID    int64          `json:"contract_id"              db:"contract_id"`
	Name          string         `json:"name"                     db:"name"`
	Kana          string         `json:"kana"                     db:"kana"`
	Email         string         `json:"email"                    db:"email"`
	ExternalID    string         `json:"external_id"              db:"external_id"`
	CourseID      int64          `json:"course_id"                db:"course_id"`
	LoginCode     *string        `json:"login_code,omitempty"     db:"login_code"`
	LoginPassword *string        `json:"-"                        db:"login_password"`
	Status        StudentStatus  `json:"status"                   db:"status"`
	Masked        bool           `json:"masked"                   db:"masked"`
	Completed     bool           `json:"completed"                db:"completed"`
	CustomFields  map[string]string `json:"custom_fields,omitempty" db:"custom_fields"`
	CreatedAt     time.Time      `json:"created_at"               db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"               db:"updated_at"`
}

// Contract is the organization-contract context every bulk operation runs
// under. Revision increments on every contract edit; jobs submitted against
// an older revision fail fast at execution time.
type Contract struct {
	ID            int64     `json:"id"              db:"id"`
	Name          string    `json:"name"            db:"name"`
	Revision      int       `json:"revision"        db:"revision"`
	UseLoginCode  bool      `json:"use_login_code"  db:"use_login_code"`
	MaxStudents   int       `json:"max_students"    db:"max_students"`
	CreatedAt     time.Time `json:"created_at"      db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"      db:"updated_at"`
}
