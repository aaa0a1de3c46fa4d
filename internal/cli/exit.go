package cli

import (
	"errors"
	"fmt"

	"github.com/jobportal/portal/internal/core/domain"
)

const (
	exitFailure    = 1
	exitUsage      = 2
	exitValidation = 3
	exitAuth       = 4
	exitNetwork    = 5
)

// ExitError is an error that carries a specific process exit code.
// Cobra's RunE returns this to signal the desired exit code to main.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// exitError creates a new ExitError with the given code and formatted message.
func exitError(code int, format string, args ...any) *ExitError {
	return &ExitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// fromAPIError maps a service error to an exit code. The message shown to the
// user is the normalized one.
func fromAPIError(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	if errors.Is(err, domain.ErrNotAuthenticated) {
		return exitError(exitAuth, "not logged in; run `jobportal login` first")
	}
	if errors.Is(err, domain.ErrInvalidRole) || errors.Is(err, domain.ErrInvalidStatus) {
		return exitError(exitUsage, "%s", err.Error())
	}

	apiErr := domain.AsAPIError(err)
	switch apiErr.Kind() {
	case domain.KindValidation:
		return exitError(exitValidation, "%s", apiErr.Message)
	case domain.KindNetwork:
		return exitError(exitNetwork, "%s", apiErr.Message)
	case domain.KindBackend:
		if apiErr.StatusCode() == 401 || apiErr.StatusCode() == 403 {
			return exitError(exitAuth, "%s", apiErr.Message)
		}
	}
	return exitError(exitFailure, "%s", apiErr.Message)
}
