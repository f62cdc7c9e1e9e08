package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"

	"github.com/classtools/rosterjobs/internal/core"
	"github.com/classtools/rosterjobs/internal/data"
	"github.com/classtools/rosterjobs/internal/domain/model"
	"github.com/classtools/rosterjobs/internal/msgcat"
)

// Column layouts for registration CSV lines. Contracts using login-code
// authentication append two columns.
const (
	registerColumns          = 5
	registerLoginCodeColumns = registerColumns + 2

	maxNameLen         = 64
	maxKanaLen         = 64
	maxExternalIDLen   = 64
	minPasswordLen     = 8
	welcomeMailSubject = "Welcome to your course"
)

var loginCodePattern = regexp.MustCompile(`^[A-Za-z0-9]{4,16}$`)

// RegisterWorkerOptions groups dependencies for RegisterWorker.
type RegisterWorkerOptions struct {
	Roster    core.RosterRepository // Required: roster repository
	Processor *LineProcessor        // Required: shared line loop
	Mailer    core.Mailer           // Optional: welcome mail delivery
	Logger    *slog.Logger          // Optional: structured logger
}

// RegisterWorker registers students from uploaded CSV lines. Each line is
// validated in a fixed order: column count, field formats, duplicates
// within the upload, then conflicts with the existing roster. The first
// failing check wins.
type RegisterWorker struct {
	roster core.RosterRepository
	proc   *LineProcessor
	mailer core.Mailer
	logger *slog.Logger
}

var _ core.LineWorker = (*RegisterWorker)(nil)

// NewRegisterWorker constructs a new RegisterWorker.
func NewRegisterWorker(opts RegisterWorkerOptions) (*RegisterWorker, error) {
	if opts.Roster == nil {
		return nil, errors.New("RosterRepository is required")
	}
	if opts.Processor == nil {
		return nil, errors.New("LineProcessor is required")
	}
	return &RegisterWorker{
		roster: opts.Roster,
		proc:   opts.Processor,
		mailer: opts.Mailer,
		logger: opts.Logger,
	}, nil
}

// Run implements core.LineWorker.
func (w *RegisterWorker) Run(
	ctx context.Context,
	job *model.BulkJob,
	actionName string,
) (model.Snapshot, error) {
	var in model.RegistrationInput
	if err := model.DecodeInput(job.Input, &in); err != nil {
		return model.Snapshot{}, NewInputError(err)
	}

	contract, err := resolveContract(ctx, w.roster, &in.JobInput)
	if err != nil {
		return model.Snapshot{}, err
	}

	messages := msgcat.New(in.Locale)

	// One outbound connection amortizes SMTP setup across all lines; it is
	// released on every exit path.
	var session core.MailSession
	if in.SendWelcome && w.mailer != nil {
		session, err = w.mailer.Open(ctx)
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("open mail session: %w", err)
		}
		defer func() {
			if closeErr := session.Close(); closeErr != nil && w.logger != nil {
				w.logger.WarnContext(ctx, "close mail session failed", "error", closeErr)
			}
		}()
	}

	seenEmails := make(map[string]bool)
	seenCodes := make(map[string]bool)

	return w.proc.Process(ctx, ProcessParams{
		Job:        job,
		ActionName: actionName,
		Messages:   messages,
		Fn: func(ctx context.Context, tx *sql.Tx, target *model.LineTarget) (LineResult, error) {
			return w.processLine(ctx, registerLineParams{
				tx:         tx,
				target:     target,
				contract:   contract,
				messages:   messages,
				session:    session,
				seenEmails: seenEmails,
				seenCodes:  seenCodes,
			})
		},
	})
}

type registerLineParams struct {
	tx         *sql.Tx
	target     *model.LineTarget
	contract   *model.Contract
	messages   *msgcat.Formatter
	session    core.MailSession
	seenEmails map[string]bool
	seenCodes  map[string]bool
}

type registerRow struct {
	name          string
	kana          string
	email         string
	externalID    string
	courseID      int64
	loginCode     *string
	loginPassword *string
}

func (w *RegisterWorker) processLine(ctx context.Context, p registerLineParams) (LineResult, error) {
	row, fail := w.parseAndValidate(p)
	if fail != nil {
		return *fail, nil
	}

	student := &model.Student{
		ID:            uuid.NewString(),
		ContractID:    p.contract.ID,
		Name:          row.name,
		Kana:          row.kana,
		Email:         row.email,
		ExternalID:    row.externalID,
		CourseID:      row.courseID,
		LoginCode:     row.loginCode,
		LoginPassword: row.loginPassword,
		Status:        model.StudentStatusActive,
	}
	if err := w.roster.InsertStudentInTx(ctx, p.tx, student); err != nil {
		if errors.Is(err, data.ErrStudentConflict) {
			return FailWith(p.messages.Format(msgcat.KeyDuplicateExisting, row.email)), nil
		}
		return LineResult{}, err
	}

	if p.session != nil {
		body := fmt.Sprintf("Hello %s,\n\nYour course registration is complete.", row.name)
		if err := p.session.Send(ctx, row.email, welcomeMailSubject, body); err != nil {
			return LineResult{}, fmt.Errorf("send welcome mail: %w", err)
		}
	}

	// Recorded only once the line is past every failure point: a rolled-back
	// line must not reserve its email or login code against later lines.
	p.seenEmails[row.email] = true
	if row.loginCode != nil {
		p.seenCodes[*row.loginCode] = true
	}

	return Succeed(), nil
}

// parseAndValidate applies the fixed validation order. It returns a non-nil
// failure result as soon as one check rejects the line.
func (w *RegisterWorker) parseAndValidate(p registerLineParams) (registerRow, *LineResult) {
	msgs := p.messages
	fields := splitLine(p.target.RawInput)

	expected := registerColumns
	if p.contract.UseLoginCode {
		expected = registerLoginCodeColumns
	}
	if len(fields) != expected {
		return registerRow{}, failp(msgs.Format(msgcat.KeyColumnCount, expected, len(fields)))
	}

	row := registerRow{
		name:       fields[0],
		kana:       fields[1],
		email:      fields[2],
		externalID: fields[3],
	}

	if row.name == "" {
		return registerRow{}, failp(msgs.Format(msgcat.KeyFieldRequired, "name"))
	}
	if len([]rune(row.name)) > maxNameLen {
		return registerRow{}, failp(msgs.Format(msgcat.KeyFieldTooLong, "name", maxNameLen))
	}
	if len([]rune(row.kana)) > maxKanaLen {
		return registerRow{}, failp(msgs.Format(msgcat.KeyFieldTooLong, "kana", maxKanaLen))
	}
	if !validEmail(row.email) {
		return registerRow{}, failp(msgs.Format(msgcat.KeyInvalidEmail))
	}
	if len([]rune(row.externalID)) > maxExternalIDLen {
		return registerRow{}, failp(msgs.Format(msgcat.KeyFieldTooLong, "external id", maxExternalIDLen))
	}

	courseID, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil || courseID <= 0 {
		return registerRow{}, failp(msgs.Format(msgcat.KeyInvalidCourse))
	}
	row.courseID = courseID

	if p.contract.UseLoginCode {
		code, password := fields[5], fields[6]
		if !loginCodePattern.MatchString(code) {
			return registerRow{}, failp(msgs.Format(msgcat.KeyInvalidLoginCode))
		}
		if len(password) < minPasswordLen {
			return registerRow{}, failp(msgs.Format(msgcat.KeyPasswordTooShort, minPasswordLen))
		}
		row.loginCode = &code
		row.loginPassword = &password
	}

	// Duplicates against earlier lines of the same job win over roster
	// conflicts so the operator sees the in-file duplicate first.
	if p.seenEmails[row.email] {
		return registerRow{}, failp(msgs.Format(msgcat.KeyDuplicateInJob, "email"))
	}
	if row.loginCode != nil && p.seenCodes[*row.loginCode] {
		return registerRow{}, failp(msgs.Format(msgcat.KeyDuplicateInJob, "login code"))
	}

	return row, nil
}

func failp(msg string) *LineResult {
	r := FailWith(msg)
	return &r
}

// splitLine splits a comma-delimited line and trims surrounding whitespace
// from each field. Lines are pre-split by the upload collaborator; quoting
// is out of scope.
func splitLine(raw string) []string {
	fields := strings.Split(raw, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// validEmail checks address syntax and that the domain has a registrable
// effective TLD+1.
func validEmail(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	if err != nil || parsed.Address != addr {
		return false
	}
	at := strings.LastIndex(addr, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(addr[at+1:])
	if _, err := publicsuffix.EffectiveTLDPlusOne(domain); err != nil {
		return false
	}
	return true
}
