package models

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors for entity lookups.
var (
	ErrAuditNotFound = errors.New("audit record not found")
	ErrUserNotFound  = errors.New("user not found")
)

// ErrDuplicateKey indicates a unique constraint violation (maps to HTTP 409 Conflict).
var ErrDuplicateKey = errors.New("duplicate key")

// ErrInvalidAuditRecord is wrapped by AuditWriteError when a record fails the
// table's required-field checks before it reaches storage.
var ErrInvalidAuditRecord = errors.New("invalid audit record")

// ValidationError reports caller input that cannot be used as given.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AuditWriteError reports that an audit record could not be persisted.
type AuditWriteError struct {
	Action      Action
	TargetModel TargetModel
	Err         error
}

func (e *AuditWriteError) Error() string {
	return fmt.Sprintf("writing %s audit record for %s: %v", e.Action, e.TargetModel, e.Err)
}

func (e *AuditWriteError) Unwrap() error {
	return e.Err
}

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf("%s exceeds maximum length of %d", field, maxLen)}
}

func quote(s string) string {
	return strconv.Quote(s)
}
