package blacklist

import (
	"context"
	"testing"
	"time"
)

type fakeKV struct {
	keys map[string]int
}

func (f *fakeKV) SetNX(_ context.Context, key string, _ []byte, ttlSeconds int) (bool, error) {
	if _, ok := f.keys[key]; ok {
		return false, nil
	}
	f.keys[key] = ttlSeconds
	return true, nil
}

func (f *fakeKV) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.keys[key]
	return ok, nil
}

func TestRevokeAndCheck(t *testing.T) {
	kv := &fakeKV{keys: make(map[string]int)}
	s := NewStore(kv)
	ctx := context.Background()

	revoked, err := s.IsRevoked(ctx, "jti-1")
	if err != nil || revoked {
		t.Fatalf("fresh jti = (%v, %v)", revoked, err)
	}

	if err := s.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	revoked, err = s.IsRevoked(ctx, "jti-1")
	if err != nil || !revoked {
		t.Fatalf("revoked jti = (%v, %v)", revoked, err)
	}

	// ttl follows the token expiry
	if ttl := kv.keys["jti:jti-1"]; ttl <= 0 || ttl > 3600 {
		t.Fatalf("ttl = %d", ttl)
	}
}

func TestRevokeExpiredTokenStillBlocks(t *testing.T) {
	kv := &fakeKV{keys: make(map[string]int)}
	s := NewStore(kv)

	if err := s.Revoke(context.Background(), "jti-2", time.Now().Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}
	if ttl := kv.keys["jti:jti-2"]; ttl < 60 {
		t.Fatalf("ttl guard = %d, want at least a minute", ttl)
	}
}
