package handler

import (
	"github.com/jobportal/portal/internal/core/validation"
)

// echoValidator lets Echo call c.Validate(req) with the same rules and
// messages the services apply.
type echoValidator struct{}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{}
}

// Validate satisfies the echo.Validator interface. Failures are
// *domain.APIError of kind validation.
func (echoValidator) Validate(i any) error {
	return validation.Struct(i)
}
