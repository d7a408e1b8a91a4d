package domain

import "context"

// Cache keys live in one place so they don't drift across the code.
func CacheKeyTokenJTI(jti string) string { return "jti:" + jti }

// Minimal k/v contract; the implementation is redis.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttlSeconds int) error
	SetNX(ctx context.Context, key string, val []byte, ttlSeconds int) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, keys ...string) error
	Ping(context.Context) error
	Close()
}
