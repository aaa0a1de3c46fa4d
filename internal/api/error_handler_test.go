package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jobportal/portal/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"not authenticated", domain.ErrNotAuthenticated, http.StatusUnauthorized, "not authenticated"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"invalid role", fmt.Errorf("%w: %q", domain.ErrInvalidRole, "guest"), http.StatusBadRequest, `invalid role: "guest"`},
		{"validation", domain.ValidationError("Please write a cover letter"), http.StatusBadRequest, "Please write a cover letter"},
		{"backend 401", domain.NewAPIError(domain.KindBackend, 401, "Invalid credentials", nil), http.StatusUnauthorized, "Invalid credentials"},
		{"backend 500", domain.NewAPIError(domain.KindBackend, 500, "Error: 500", nil), http.StatusInternalServerError, "Error: 500"},
		{"network", domain.NewAPIError(domain.KindNetwork, 0, domain.NetworkErrorMessage, nil), http.StatusBadGateway, domain.NetworkErrorMessage},
		{"payload", domain.NewAPIError(domain.KindPayload, 200, domain.UnexpectedReplyMessage, domain.ErrUnexpectedPayload), http.StatusBadGateway, domain.UnexpectedReplyMessage},
		{"construction", domain.NewAPIError(domain.KindConstruction, 0, "parse \"http://[::1\": missing ']'", nil), http.StatusInternalServerError, "parse \"http://[::1\": missing ']'"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	e := echo.New()
	handle := NewHTTPErrorHandler(zerolog.Nop())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/x", nil), rec)

			handle(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Success || resp.Message != tt.wantMsg {
				t.Fatalf("unexpected body: %+v", resp)
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponseUntouched(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/x", nil), rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response was rewritten: %d %q", rec.Code, rec.Body.String())
	}
}
