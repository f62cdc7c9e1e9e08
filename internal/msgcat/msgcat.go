// Package msgcat formats user-visible line messages for a given locale.
//
// Bulk operations attach the outcome of each line to its line target in the
// submitting operator's language. The formatter is passed explicitly into
// each worker; there is no implicit request-scoped locale.
package msgcat

import "fmt"

// Message keys shared by the bulk operations.
const (
	KeyColumnCount       = "line.column_count"
	KeyFieldRequired     = "line.field_required"
	KeyFieldTooLong      = "line.field_too_long"
	KeyInvalidEmail      = "line.invalid_email"
	KeyInvalidCourse     = "line.invalid_course"
	KeyInvalidLoginCode  = "line.invalid_login_code"
	KeyPasswordTooShort  = "line.password_too_short"
	KeyDuplicateInJob    = "line.duplicate_in_job"
	KeyDuplicateExisting = "line.duplicate_existing"
	KeyInvalidStudentID  = "line.invalid_student_id"
	KeyStudentNotFound   = "line.student_not_found"
	KeyActingOnSelf      = "line.acting_on_self"
	KeyAlreadyDone       = "line.already_done"
	KeyUnknownField      = "line.unknown_field"
	KeyRetryLater        = "line.retry_later"
)

var catalogs = map[string]map[string]string{
	"en": {
		KeyColumnCount:       "expected %d columns, got %d",
		KeyFieldRequired:     "%s is required",
		KeyFieldTooLong:      "%s must be at most %d characters",
		KeyInvalidEmail:      "invalid email address",
		KeyInvalidCourse:     "invalid course id",
		KeyInvalidLoginCode:  "login code must be 4-16 letters or digits",
		KeyPasswordTooShort:  "password must be at least %d characters",
		KeyDuplicateInJob:    "duplicate %s within this upload",
		KeyDuplicateExisting: "%s already registered",
		KeyInvalidStudentID:  "invalid student id",
		KeyStudentNotFound:   "student not found",
		KeyActingOnSelf:      "cannot target your own account",
		KeyAlreadyDone:       "already in the requested state",
		KeyUnknownField:      "unknown custom field %q",
		KeyRetryLater:        "processing failed, please retry later",
	},
	"ja": {
		KeyColumnCount:       "列数が不正です（期待 %d 列、実際 %d 列）",
		KeyFieldRequired:     "%s は必須です",
		KeyFieldTooLong:      "%s は %d 文字以内で入力してください",
		KeyInvalidEmail:      "メールアドレスが不正です",
		KeyInvalidCourse:     "コースIDが不正です",
		KeyInvalidLoginCode:  "ログインコードは4〜16桁の英数字で入力してください",
		KeyPasswordTooShort:  "パスワードは %d 文字以上で入力してください",
		KeyDuplicateInJob:    "このアップロード内で %s が重複しています",
		KeyDuplicateExisting: "%s は既に登録されています",
		KeyInvalidStudentID:  "受講者IDが不正です",
		KeyStudentNotFound:   "受講者が見つかりません",
		KeyActingOnSelf:      "自分自身を対象にできません",
		KeyAlreadyDone:       "既に処理済みです",
		KeyUnknownField:      "カスタム項目 %q が存在しません",
		KeyRetryLater:        "処理に失敗しました。時間をおいて再試行してください",
	},
}

// DefaultLocale is used when a job input carries no locale.
const DefaultLocale = "ja"

// Formatter renders catalog messages for one locale.
type Formatter struct {
	locale string
}

// New returns a Formatter for the locale, falling back to DefaultLocale for
// unknown locales.
func New(locale string) *Formatter {
	if _, ok := catalogs[locale]; !ok {
		locale = DefaultLocale
	}
	return &Formatter{locale: locale}
}

// Locale returns the resolved locale.
func (f *Formatter) Locale() string { return f.locale }

// Format renders one catalog message.
func (f *Formatter) Format(key string, args ...any) string {
	tmpl, ok := catalogs[f.locale][key]
	if !ok {
		tmpl = catalogs["en"][key]
	}
	if tmpl == "" {
		return key
	}
	return fmt.Sprintf(tmpl, args...)
}

// Line prefixes a message with its line number, the shape shown to
// operators in the per-line outcome list.
func (f *Formatter) Line(n int, msg string) string {
	return fmt.Sprintf("Line %d: %s", n, msg)
}
