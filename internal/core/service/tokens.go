package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 24 * time.Hour
)

// TokenConfig configures the JWT pair issued at login.
type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (c TokenConfig) withDefaults() TokenConfig {
	if c.AccessTTL <= 0 {
		c.AccessTTL = defaultAccessTTL
	}
	if c.RefreshTTL <= 0 {
		c.RefreshTTL = defaultRefreshTTL
	}
	return c
}

// tokenClaims is shared by access and refresh tokens; Type tells them apart
// and SessionID binds both to the server-side session.
type tokenClaims struct {
	Role      domain.Role `json:"role"`
	SessionID string      `json:"sid"`
	Type      string      `json:"typ"`
	jwt.RegisteredClaims
}

func (c *tokenClaims) actorID() (domain.ActorID, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidToken
	}
	return domain.ActorID(id), nil
}

func signToken(cfg TokenConfig, actor *domain.Actor, sessionID, typ string, now time.Time) (string, time.Time, error) {
	ttl := cfg.AccessTTL
	if typ == tokenTypeRefresh {
		ttl = cfg.RefreshTTL
	}
	exp := now.Add(ttl)
	claims := tokenClaims{
		Role:      actor.Role,
		SessionID: sessionID,
		Type:      typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(int64(actor.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, exp, nil
}

// parseToken verifies signature, expiry and type. Every failure is reported
// as domain.ErrInvalidToken.
func parseToken(cfg TokenConfig, raw, wantType string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.Type != wantType || claims.SessionID == "" {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
