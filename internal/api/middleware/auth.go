package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
	"github.com/eyeclinic/clinic-system/internal/core/ports"
)

const (
	// AccessCookie is the cookie the login handlers set alongside the JSON body.
	AccessCookie = "access_token"

	identityKey = "identity"
	roleKey     = "role"
)

// Auth verifies the access token and injects the caller into the context.
// The token is read from the Authorization header, falling back to the
// access_token cookie.
func Auth(authn ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return err
			}

			id, err := authn.VerifyAccess(c.Request().Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrSessionNotFound):
					return echo.NewHTTPError(http.StatusUnauthorized, "session expired or revoked")
				case errors.Is(err, domain.ErrInvalidToken):
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				return err
			}

			c.Set(identityKey, id)
			c.Set(roleKey, id.Actor.Role)

			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		if ck, err := c.Cookie(AccessCookie); err == nil && ck.Value != "" {
			return ck.Value, nil
		}
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}

// IdentityFrom returns the caller injected by Auth, or nil outside an
// authenticated route.
func IdentityFrom(c echo.Context) *ports.Identity {
	id, _ := c.Get(identityKey).(*ports.Identity)
	return id
}
