package blacklist

import (
	"context"
	"time"

	"github.com/wso2-attic/identity-media/internal/domain"
)

// KV is the minimal cache surface the blacklist needs.
type KV interface {
	SetNX(ctx context.Context, key string, val []byte, ttlSeconds int) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
}

type Store struct {
	kv KV
}

var _ domain.TokenBlacklist = (*Store)(nil)

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Revoke marks jti revoked until exp (TTL = exp-now).
func (s *Store) Revoke(ctx context.Context, jti string, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		ttl = time.Minute // guard against an exp already in the past
	}
	_, err := s.kv.SetNX(ctx, domain.CacheKeyTokenJTI(jti), []byte("1"), int(ttl.Seconds()))
	return err
}

func (s *Store) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.kv.Exists(ctx, domain.CacheKeyTokenJTI(jti))
}
