package domain

import (
	"errors"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("access forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidState    = errors.New("invalid state")
	ErrValidation      = errors.New("validation failed")
)

// StateError reports a lifecycle precondition that does not hold.
// Two StateErrors match under errors.Is when their codes are equal, so callers
// can compare against the exported values while the message carries detail.
type StateError struct {
	Code    string
	Message string
}

func (e *StateError) Error() string { return e.Message }

func (e *StateError) Is(target error) bool {
	if target == ErrInvalidState {
		return true
	}
	t, ok := target.(*StateError)
	return ok && t.Code == e.Code
}

// WithMessage returns a copy of e carrying msg.
func (e *StateError) WithMessage(msg string) *StateError {
	return &StateError{Code: e.Code, Message: msg}
}

var (
	ErrBancaNotFoundForJugada    = &StateError{Code: "banca_not_found", Message: "banca not found"}
	ErrBancaInactive             = &StateError{Code: "banca_inactive", Message: "banca inactive"}
	ErrVendedorNotFoundForJugada = &StateError{Code: "vendedor_not_found", Message: "vendedor not found"}
	ErrVendedorInactive          = &StateError{Code: "vendedor_inactive", Message: "vendedor inactive"}
	ErrVendedorNotAssigned       = &StateError{Code: "vendedor_not_assigned", Message: "vendedor not assigned to banca"}
	ErrAlreadyCancelled          = &StateError{Code: "already_cancelled", Message: "already cancelled"}
	ErrCancelWindowExpired       = &StateError{Code: "cancellation_window_expired", Message: "cancellation window expired"}
	ErrResultPublished           = &StateError{Code: "result_published", Message: "result already published"}
)

// FieldError describes one offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError enumerates every invalid field of a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError is a shorthand for a single-field validation failure.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
