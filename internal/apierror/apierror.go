// Package apierror defines the error taxonomy of the backend and the
// standardized JSON envelopes returned to clients. Services return *apierror.Error
// values; handlers map the error kind onto an HTTP status. Internal details
// (stack traces, SQL errors) never reach the wire.
package apierror

import (
	"errors"
	"net/http"
)

// Kind classifies an error for transport mapping and retry semantics.
type Kind int

const (
	// KindValidation — malformed input; never retried automatically.
	KindValidation Kind = iota
	// KindConflict — state-machine violation; caller must re-query before retrying.
	KindConflict
	// KindNotFound — resource missing or outside the caller's tenant.
	KindNotFound
	// KindPersistence — storage-layer failure; transient from the caller's view.
	KindPersistence
)

// Error is the canonical domain error carried from services to handlers.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }
func Conflict(msg string) *Error   { return &Error{Kind: KindConflict, Message: msg} }
func NotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Message: msg} }

// Persistence wraps a storage error behind a generic client-safe message.
func Persistence(err error) *Error {
	return &Error{Kind: KindPersistence, Message: "Error de almacenamiento", Err: err}
}

// Status maps an error to its HTTP status code. Unclassified errors are 500.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-safe message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Error interno del servidor"
}

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors from request binding.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
