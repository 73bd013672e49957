// Package auth implements the demo admin gate: a shared key exchanged for a
// short-lived bearer token.
package auth

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"lifedrop/internal/util"
	"lifedrop/pkg/rbac"
)

var (
	ErrAdminKeyInvalid = errors.New("admin key is invalid")
	ErrTokenInvalid    = errors.New("admin token is invalid")
)

type AdminGate struct {
	keyHash string
	secret  string
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// NewAdminGate hashes key once; the plaintext is not retained.
func NewAdminGate(key, secret string, ttl time.Duration, logger *zap.Logger) (*AdminGate, error) {
	if key == "" {
		return nil, errors.New("admin key must not be empty")
	}
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	hash, err := util.HashPassword(key)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin key: %w", err)
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AdminGate{
		keyHash: hash,
		secret:  secret,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
	}, nil
}

// Unlock exchanges the admin key for a token.
func (g *AdminGate) Unlock(key string) (string, time.Time, error) {
	if !util.CheckPassword(key, g.keyHash) {
		g.logger.Warn("Admin unlock rejected")
		return "", time.Time{}, ErrAdminKeyInvalid
	}

	now := g.now()
	token, err := util.GenerateJWT(rbac.RoleAdmin, g.secret, g.ttl, now)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign admin token: %w", err)
	}
	g.logger.Info("Admin unlocked", zap.Duration("ttl", g.ttl))
	return token, now.Add(g.ttl), nil
}

func (g *AdminGate) Verify(token string) error {
	if token == "" {
		return ErrTokenInvalid
	}
	subject, err := util.ParseJWT(token, g.secret, g.now())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if subject != rbac.RoleAdmin {
		return ErrTokenInvalid
	}
	return nil
}

// Role maps a bearer token to an rbac role. Anything that does not verify is
// a visitor.
func (g *AdminGate) Role(token string) string {
	if g.Verify(token) != nil {
		return rbac.RoleVisitor
	}
	return rbac.RoleAdmin
}
