package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/jobportal/portal/internal/core/domain"
)

// RBAC lets a request through only when the identity loaded by Session holds
// one of roles. Rejections surface as domain.ErrForbidden so the central
// error handler renders them.
func RBAC(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextRole).(domain.Role)
			for _, r := range roles {
				if role == r {
					return next(c)
				}
			}
			return fmt.Errorf("%w: %s area", domain.ErrForbidden, roleLabel(roles))
		}
	}
}

func roleLabel(roles []domain.Role) string {
	if len(roles) == 1 {
		return roles[0].String()
	}
	return "restricted"
}
