package domain

import (
	"context"
	"time"
)

type Token = string

type TokenClaims struct {
	JTI       string // unique token id
	UserID    string
	Login     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenManager issues and validates the bearer tokens the transport uses to
// resolve the requester identity. The storage layer never sees tokens.
type TokenManager interface {
	Issue(ctx context.Context, userID, login string) (Token, TokenClaims, error)
	Parse(ctx context.Context, t Token) (TokenClaims, error)
}

// TokenBlacklist tracks revoked token ids (backed by redis).
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, exp time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
