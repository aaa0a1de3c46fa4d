package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobportal/portal/internal/core/ports"
)

// Context keys set by Session.
const (
	ContextIdentity = "identity"
	ContextRole     = "role"
)

// Session loads the stored identity and injects it into the context. It
// answers 401 when the store holds no token or no readable identity.
func Session(store ports.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			token, identity, err := store.Snapshot(ctx)
			if err != nil {
				return err
			}
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			if identity == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "session has no identity")
			}

			c.Set(ContextIdentity, identity)
			c.Set(ContextRole, identity.Role)

			return next(c)
		}
	}
}
