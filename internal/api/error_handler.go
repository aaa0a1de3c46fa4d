package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jobportal/portal/internal/core/domain"
)

// errorResponse mirrors the backend's failure body so shells can treat both
// the same way.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Passes normalized backend errors through with their message.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Success: false, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, "not authenticated"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrInvalidRole), errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest, err.Error()
	}

	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiStatus(apiErr, log, c), apiErr.Message
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

func apiStatus(err *domain.APIError, log zerolog.Logger, c echo.Context) int {
	switch err.Kind() {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindBackend:
		if err.StatusCode() >= http.StatusBadRequest {
			return err.StatusCode()
		}
		return http.StatusBadGateway
	case domain.KindNetwork:
		return http.StatusBadGateway
	case domain.KindPayload:
		log.Warn().
			Err(err).
			Str("path", c.Path()).
			Msg("backend reply missing expected payload")
		return http.StatusBadGateway
	default:
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("request could not be built")
		return http.StatusInternalServerError
	}
}
