package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRole is returned when a role outside {admin, employee} is used.
	ErrInvalidRole = errors.New("invalid role")

	// ErrNotAuthenticated is returned when an operation needs a session and
	// the store has none.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrForbidden is returned when the stored identity has the wrong role.
	ErrForbidden = errors.New("access forbidden")

	// ErrUnexpectedPayload marks a successful HTTP exchange whose body did not
	// carry the fields the caller needs.
	ErrUnexpectedPayload = errors.New("unexpected response payload")

	// ErrIncompleteSession is returned by the store when asked to persist a
	// token without an identity or the other way round.
	ErrIncompleteSession = errors.New("session requires both token and identity")

	// ErrInvalidStatus is returned for an application status outside the
	// known set.
	ErrInvalidStatus = errors.New("invalid application status")
)

// Fixed messages shared by every HTTP client wrapper.
const (
	NetworkErrorMessage    = "Network error. Please check your connection."
	FallbackErrorMessage   = "Something went wrong. Please try again."
	UnexpectedReplyMessage = "Unexpected response from server."
)

// ErrorKind classifies where a normalized error came from.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindBackend      ErrorKind = "backend"
	KindNetwork      ErrorKind = "network"
	KindConstruction ErrorKind = "construction"
	KindPayload      ErrorKind = "payload"
)

// APIError is the single error shape every consumer of the HTTP layer sees.
// Message is the only data callers should depend on; Kind and StatusCode are
// there for logging and status mapping.
type APIError struct {
	Message string `json:"message"`

	kind   ErrorKind
	status int
	cause  error
}

// NewAPIError builds an APIError. An empty message falls back to
// FallbackErrorMessage.
func NewAPIError(kind ErrorKind, status int, message string, cause error) *APIError {
	if message == "" {
		message = FallbackErrorMessage
	}
	return &APIError{Message: message, kind: kind, status: status, cause: cause}
}

// ValidationError wraps a pre-dispatch validation failure.
func ValidationError(message string) *APIError {
	return NewAPIError(KindValidation, 0, message, nil)
}

func (e *APIError) Error() string { return e.Message }

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *APIError) Unwrap() error { return e.cause }

// Kind reports the source category.
func (e *APIError) Kind() ErrorKind { return e.kind }

// StatusCode is the backend HTTP status, or 0 when no response was received.
func (e *APIError) StatusCode() int { return e.status }

// AsAPIError normalizes any error into an *APIError. Errors that are already
// normalized pass through untouched.
func AsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewAPIError(KindConstruction, 0, err.Error(), err)
}

// BackendStatusMessage is the message used when the backend returns an error
// status without a message body.
func BackendStatusMessage(status int) string {
	return fmt.Sprintf("Error: %d", status)
}
