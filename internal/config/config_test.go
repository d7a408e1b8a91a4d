package config

import (
	"strings"
	"testing"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AppPort != ":8080" {
		t.Errorf("AppPort = %q", cfg.AppPort)
	}
	if cfg.MediaStoreType != "file" {
		t.Errorf("MediaStoreType = %q", cfg.MediaStoreType)
	}
	if cfg.MediaMaxSizeBytes != 10<<20 {
		t.Errorf("MediaMaxSizeBytes = %d", cfg.MediaMaxSizeBytes)
	}
	subs, ok := cfg.ContentTypes["image"]
	if !ok || len(subs) != 4 {
		t.Errorf("ContentTypes[image] = %v", subs)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("MEDIA_STORE_TYPE", "s3")
	t.Setenv("MEDIA_CONTENT_TYPES", "image,document")
	t.Setenv("MEDIA_DOCUMENT_CONTENT_SUB_TYPES", "pdf")
	t.Setenv("MEDIA_TENANT_DOMAINS", "carbon.super:1,acme.com:7")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MediaStoreType != "s3" {
		t.Errorf("MediaStoreType = %q", cfg.MediaStoreType)
	}
	if got := cfg.ContentTypes["document"]; len(got) != 1 || got[0] != "pdf" {
		t.Errorf("ContentTypes[document] = %v", got)
	}
	if cfg.TenantDomains != "carbon.super:1,acme.com:7" {
		t.Errorf("TenantDomains = %q", cfg.TenantDomains)
	}
}

func TestSecretsAreMasked(t *testing.T) {
	cfg := &Config{AuthJWTSecret: "topsecret", S3SecretKey: "k"}
	s := cfg.String()
	if strings.Contains(s, "topsecret") {
		t.Error("jwt secret leaked into String()")
	}
	if !strings.Contains(s, "********") {
		t.Error("masked placeholder missing")
	}
}
