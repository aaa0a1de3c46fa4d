package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jobportal/portal/internal/core/domain"
	"github.com/jobportal/portal/internal/core/ports"
	"github.com/jobportal/portal/internal/core/service"
)

type AuthHandler struct {
	authService ports.AuthService
	tokens      ports.TokenSource
	now         func() time.Time
}

func NewAuthHandler(authService ports.AuthService, tokens ports.TokenSource) *AuthHandler {
	return &AuthHandler{authService: authService, tokens: tokens, now: time.Now}
}

// Login authenticates against the backend and stores the session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        role  path      string             true  "admin or employee"
// @Param        body  body      ports.Credentials  true  "Login credentials"
// @Success      200   {object}  domain.Identity
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      502   {object}  messageResponse
// @Router       /auth/{role}/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	role, err := domain.ParseRole(c.Param("role"))
	if err != nil {
		return err
	}
	var req ports.Credentials
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	sess, err := h.authService.Login(c.Request().Context(), role, req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, sess.Identity)
}

// Register creates an account and stores the returned session.
//
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        role  path      string              true  "admin or employee"
// @Param        body  body      ports.Registration  true  "Account details"
// @Success      201   {object}  domain.Identity
// @Failure      400   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Router       /auth/{role}/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	role, err := domain.ParseRole(c.Param("role"))
	if err != nil {
		return err
	}
	var req ports.Registration
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	sess, err := h.authService.Register(c.Request().Context(), role, req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, sess.Identity)
}

// Logout clears the stored session. Always succeeds.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.authService.Logout(c.Request().Context())
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Logged out"})
}

// Session reports the current auth state, identity and unverified token
// claims.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	ctx := c.Request().Context()
	state := h.authService.State(ctx)
	resp := sessionResponse{
		Authenticated: state == domain.StateAuthenticated,
		State:         state.String(),
	}

	if identity, err := h.authService.CurrentUser(ctx); err == nil {
		resp.User = identity
	}
	if token, err := h.tokens.Token(ctx); err == nil && token != "" {
		if info, err := service.InspectToken(token, h.now()); err == nil {
			resp.Token = info
		}
	}
	return ok(c, http.StatusOK, resp)
}
