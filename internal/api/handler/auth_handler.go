package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eyeclinic/clinic-system/internal/api/metrics"
	"github.com/eyeclinic/clinic-system/internal/api/middleware"
	"github.com/eyeclinic/clinic-system/internal/core/domain"
	"github.com/eyeclinic/clinic-system/internal/core/ports"
)

// CookieConfig controls the access_token cookie set at login.
type CookieConfig struct {
	Secure bool
}

type AuthHandler struct {
	authService ports.AuthService
	cookie      CookieConfig
}

func NewAuthHandler(authService ports.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// LoginFor returns the login handler of one portal. Valid credentials of
// another role are refused with 403 and no session is opened.
//
// @Summary      Portal login
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      loginRequest  true  "Phone number and password"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /optometrist/api/login [post]
// @Router       /doctor/api/login [post]
// @Router       /patient/api/login [post]
func (h *AuthHandler) LoginFor(portal domain.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req loginRequest
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}

		res, err := h.authService.Login(c.Request().Context(), strings.TrimSpace(req.PhoneNumber), req.Password, portal)
		if err != nil {
			metrics.LoginsTotal.WithLabelValues(string(portal), loginResult(err)).Inc()
			return err
		}
		metrics.LoginsTotal.WithLabelValues(string(portal), "success").Inc()

		h.setAccessCookie(c, res.Tokens.Access, res.Tokens.AccessExpiresAt)
		return c.JSON(http.StatusOK, loginResponse{
			Refresh: res.Tokens.Refresh,
			Access:  res.Tokens.Access,
			User:    toUserResponse(res.Actor),
		})
	}
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrWrongPortal):
		return "wrong_portal"
	}
	return "error"
}

// RegisterPatient creates a patient account.
//
// @Summary      Register a patient account
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      registerPatientRequest  true  "Account details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Router       /patient/api/register [post]
func (h *AuthHandler) RegisterPatient(c echo.Context) error {
	var req registerPatientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	actor, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		PhoneNumber: req.PhoneNumber,
		Name:        req.Name,
		Password:    req.Password,
		Email:       req.Email,
		Role:        domain.RolePatient,
	})
	if err != nil {
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues(string(domain.RolePatient)).Inc()

	return c.JSON(http.StatusCreated, registerResponse{
		Message: "Account created successfully!",
		User:    registeredUser{ID: actor.ID, Name: actor.Name, PhoneNumber: actor.PhoneNumber},
	})
}

// RegisterOptometrist creates an optometrist account with its public profile.
//
// @Summary      Register an optometrist
// @Tags         optometrist
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      registerOptometristRequest  true  "Account and profile"
// @Success      201   {object}  profileResponse
// @Failure      400   {object}  errorResponse
// @Router       /optometrist/api/register [post]
func (h *AuthHandler) RegisterOptometrist(c echo.Context) error {
	var req registerOptometristRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	actor, err := h.authService.Register(c.Request().Context(), toRegisterOptometristInput(req))
	if err != nil {
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues(string(domain.RoleOptometrist)).Inc()

	return c.JSON(http.StatusCreated, toProfileResponse(actor))
}

// Refresh issues a new access token for a live session.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  refreshResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pair, err := h.authService.Refresh(c.Request().Context(), req.Refresh)
	if err != nil {
		return err
	}

	h.setAccessCookie(c, pair.Access, pair.AccessExpiresAt)
	return c.JSON(http.StatusOK, refreshResponse{Access: pair.Access})
}

// Logout deletes the caller's session. Both tokens stop working immediately.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	id := middleware.IdentityFrom(c)
	if id == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	if err := h.authService.Logout(c.Request().Context(), id.SessionID); err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.AccessCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out"})
}

// Me returns the authenticated account.
//
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(actor))
}

func (h *AuthHandler) setAccessCookie(c echo.Context, token string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.AccessCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
