package token

import (
	"context"
	"testing"
	"time"
)

func TestIssueParseRoundTrip(t *testing.T) {
	m := New("secret", "identity-media", time.Hour)

	tok, claims, err := m.Issue(context.Background(), "alice", "alice@test")
	if err != nil {
		t.Fatal(err)
	}
	if claims.JTI == "" {
		t.Fatal("issued claims have no jti")
	}

	parsed, err := m.Parse(context.Background(), tok)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.UserID != "alice" || parsed.Login != "alice@test" || parsed.JTI != claims.JTI {
		t.Fatalf("parsed claims mismatch: %+v", parsed)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, _, err := New("secret-a", "identity-media", time.Hour).Issue(context.Background(), "alice", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New("secret-b", "identity-media", time.Hour).Parse(context.Background(), tok); err == nil {
		t.Fatal("token signed with another secret must not parse")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	m := New("secret", "identity-media", -time.Minute)
	tok, _, err := m.Issue(context.Background(), "alice", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Parse(context.Background(), tok); err == nil {
		t.Fatal("expired token must not parse")
	}
}
