package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yatube/backend/internal/validation"
)

var (
	// ErrNotFound is returned when a post, group, user or profile does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the acting user may not mutate a resource.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials is returned by Login for an unknown user or wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned for malformed, expired or foreign session tokens.
	ErrInvalidToken = errors.New("invalid token")
)

// ValidationError carries per-field messages for a rejected form. Nothing is
// persisted when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError converts a validator or binding error.
func NewValidationError(err error) *ValidationError {
	return &ValidationError{Fields: validation.Fields(err)}
}

// FieldError builds a ValidationError for one field.
func FieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

var validate = validation.New()

func validateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return NewValidationError(err)
	}
	return nil
}

func isDomainError(err error) bool {
	var verr *ValidationError
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrForbidden) ||
		errors.As(err, &verr)
}
