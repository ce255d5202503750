package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error codes surfaced to embedding services.
const (
	CodeStorageFailure   = "STORAGE_FAILURE"
	CodeTicketNotFound   = "TICKET_NOT_FOUND"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeInternal         = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewStorageError wraps an unrecoverable backend failure. The cause is kept
// for logs but never serialized to callers.
func NewStorageError(err error) error {
	return &DomainError{
		Code:       CodeStorageFailure,
		Message:    "storage backend failure",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewTicketNotFound reports a missing or soft-deleted ticket.
func NewTicketNotFound(ticketID string) error {
	return &DomainError{
		Code:       CodeTicketNotFound,
		Message:    fmt.Sprintf("ticket not found: %s", ticketID),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"ticket_id": ticketID},
	}
}

// NewInvalidInput reports malformed caller input (bad id shape, bad enum
// code, inverted period).
func NewInvalidInput(reason string) error {
	return NewDomainError(CodeInvalidInput, reason, http.StatusBadRequest, nil)
}

// NewValidationError reports input that parsed but failed a business rule.
func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

// NewUnauthorized is reserved for embedding services that surface their own
// authorization failures through this taxonomy; this module never raises it.
func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// WrapStorage maps a repository error into the taxonomy. pgx.ErrNoRows on a
// single-row lookup or update means the ticket is absent or soft-deleted;
// anything else is a backend failure.
func WrapStorage(err error, ticketID string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewTicketNotFound(ticketID)
	}
	return NewStorageError(err)
}

// ToDomainError converts generic errors to DomainError for transport.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
