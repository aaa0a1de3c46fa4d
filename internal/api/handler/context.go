package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobportal/portal/internal/api/middleware"
	"github.com/jobportal/portal/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Session middleware.
// Its absence means the route was mounted without the middleware.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	identity, _ := c.Get(middleware.ContextIdentity).(*domain.Identity)
	if identity == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session identity")
	}
	return identity, nil
}

// bindAndValidate decodes the request body into req and runs the echo
// validator on it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if c.Echo().Validator != nil {
		if err := c.Validate(req); err != nil {
			return err
		}
	}
	return nil
}

func ok[T any](c echo.Context, status int, data T) error {
	return c.JSON(status, domain.Envelope[T]{Success: true, Data: data})
}
