package ports

import (
	"context"
	"time"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
)

// RegisterInput carries a new account. Email and profile are optional.
type RegisterInput struct {
	PhoneNumber string
	Name        string
	Password    string
	Role        domain.Role
	Email       string
	IsStaff     bool
	Profile     domain.Profile
}

// TokenPair is issued at login; both tokens share the session id.
type TokenPair struct {
	Access           string
	Refresh          string
	SessionID        string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

type LoginResult struct {
	Tokens TokenPair
	Actor  *domain.Actor
}

// Identity is the verified caller of a request.
type Identity struct {
	Actor     *domain.Actor
	SessionID string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Actor, error)
	Authenticate(ctx context.Context, phone, password string) (*domain.Actor, error)
	Login(ctx context.Context, phone, password string, portal domain.Role) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, sessionID string) error
}

// Authenticator verifies access tokens for the HTTP middleware.
type Authenticator interface {
	VerifyAccess(ctx context.Context, token string) (*Identity, error)
}
