package services

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrAccountNotApproved = errors.New("Your account is not approved yet. Please contact admin.")
	ErrAccountDeactivated = errors.New("Your account is deactivated. Please contact admin.")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// FieldError is a message attached to one request field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError reports input that was well formed but not acceptable,
// such as a duplicate email.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func NewValidationError(message string, fields ...FieldError) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Error)
	}
	sort.Strings(parts)
	return e.Message + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) FieldMap() map[string]string {
	m := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		m[f.Field] = f.Error
	}
	return m
}
