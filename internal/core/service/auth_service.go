package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
	"github.com/eyeclinic/clinic-system/internal/core/ports"
)

// AuthService implements registration, authentication and the token/session
// lifecycle. The JWT pair is the only credential; the session store only
// records which session ids are still live.
type AuthService struct {
	actors   ports.ActorRepository
	sessions ports.SessionStore
	tokens   TokenConfig
	logger   zerolog.Logger
	now      func() time.Time
	compare  func(hash, password []byte) error
}

// dummyHash is compared against when no usable account matches, so a miss
// costs the same bcrypt round as a wrong password.
var dummyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("clinic-dummy-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("auth: dummy hash: %v", err))
	}
	return h
})

func NewAuthService(actors ports.ActorRepository, sessions ports.SessionStore, tokens TokenConfig, logger zerolog.Logger) *AuthService {
	return &AuthService{
		actors:   actors,
		sessions: sessions,
		tokens:   tokens.withDefaults(),
		logger:   logger,
		now:      time.Now,
		compare:  bcrypt.CompareHashAndPassword,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Actor, error) {
	phone := strings.TrimSpace(in.PhoneNumber)
	name := strings.TrimSpace(in.Name)
	if phone == "" || name == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: name, phone number and password are required", domain.ErrValidation)
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, in.Role)
	}
	if in.Profile.ExperienceYears < 0 {
		return nil, fmt.Errorf("%w: experience_years must not be negative", domain.ErrValidation)
	}

	exists, err := s.actors.PhoneExists(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicatePhone
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password is too long", domain.ErrValidation)
		}
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now().UTC()
	actor := &domain.Actor{
		Name:         name,
		PhoneNumber:  phone,
		Role:         in.Role,
		PasswordHash: string(hash),
		IsActive:     true,
		IsStaff:      in.IsStaff,
		Profile:      in.Profile,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		actor.Email = &email
	}

	created, err := s.actors.Create(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.logger.Info().Int64("actor_id", int64(created.ID)).Str("role", string(created.Role)).Msg("account registered")
	return created, nil
}

// Authenticate returns ErrInvalidCredentials for every failure a caller could
// use to enumerate accounts: empty input, unknown phone, inactive account and
// a wrong password are indistinguishable, and each of them pays for one bcrypt
// comparison.
func (s *AuthService) Authenticate(ctx context.Context, phone, password string) (*domain.Actor, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	actor, err := s.actors.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrActorNotFound) {
			_ = s.compare(dummyHash(), []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !actor.IsActive {
		_ = s.compare(dummyHash(), []byte(password))
		return nil, domain.ErrInvalidCredentials
	}
	if s.compare([]byte(actor.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return actor, nil
}

// Login authenticates against a role portal and opens a session.
func (s *AuthService) Login(ctx context.Context, phone, password string, portal domain.Role) (*ports.LoginResult, error) {
	actor, err := s.Authenticate(ctx, phone, password)
	if err != nil {
		return nil, err
	}
	if !domain.AuthorizeRole(actor, portal) {
		return nil, &domain.PortalError{Portal: portal}
	}

	pair, err := s.openSession(ctx, actor)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("actor_id", int64(actor.ID)).Str("portal", string(portal)).Msg("login")
	return &ports.LoginResult{Tokens: *pair, Actor: actor}, nil
}

func (s *AuthService) openSession(ctx context.Context, actor *domain.Actor) (*ports.TokenPair, error) {
	sid, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("login: session id: %w", err)
	}
	sessionID := sid.String()

	if err := s.sessions.Create(ctx, sessionID, actor.ID, s.tokens.RefreshTTL); err != nil {
		return nil, fmt.Errorf("login: store session: %w", err)
	}

	now := s.now()
	access, accessExp, err := signToken(s.tokens, actor, sessionID, tokenTypeAccess, now)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := signToken(s.tokens, actor, sessionID, tokenTypeRefresh, now)
	if err != nil {
		return nil, err
	}

	return &ports.TokenPair{
		Access:           access,
		Refresh:          refresh,
		SessionID:        sessionID,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Refresh issues a new access token for a live session and extends the
// session by the refresh TTL. The refresh token itself is returned unchanged.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	claims, err := parseToken(s.tokens, refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	actor, err := s.sessionActor(ctx, claims)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Extend(ctx, claims.SessionID, s.tokens.RefreshTTL); err != nil {
		return nil, fmt.Errorf("refresh: extend session: %w", err)
	}

	access, accessExp, err := signToken(s.tokens, actor, claims.SessionID, tokenTypeAccess, s.now())
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{
		Access:           access,
		Refresh:          refreshToken,
		SessionID:        claims.SessionID,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.logger.Debug().Str("session_id", sessionID).Msg("session closed")
	return nil
}

// VerifyAccess validates an access token, its session and the account behind
// it.
func (s *AuthService) VerifyAccess(ctx context.Context, token string) (*ports.Identity, error) {
	claims, err := parseToken(s.tokens, token, tokenTypeAccess)
	if err != nil {
		return nil, err
	}
	actor, err := s.sessionActor(ctx, claims)
	if err != nil {
		return nil, err
	}
	return &ports.Identity{Actor: actor, SessionID: claims.SessionID}, nil
}

// sessionActor checks that the session named by claims is live and belongs
// to the token subject, then loads the still-active account.
func (s *AuthService) sessionActor(ctx context.Context, claims *tokenClaims) (*domain.Actor, error) {
	subject, err := claims.actorID()
	if err != nil {
		return nil, err
	}

	owner, err := s.sessions.Lookup(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("session lookup: %w", err)
	}
	if owner != subject {
		return nil, domain.ErrSessionNotFound
	}

	actor, err := s.actors.FindByID(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrActorNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("load actor: %w", err)
	}
	if !actor.IsActive {
		return nil, domain.ErrInvalidToken
	}
	return actor, nil
}
