package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppPort string `mapstructure:"APP_PORT"`

	// --- media store ---
	MediaStoreType     string `mapstructure:"MEDIA_STORE_TYPE"`
	MediaMountLocation string `mapstructure:"MEDIA_MOUNT_LOCATION"`
	MediaMaxSizeBytes  int64  `mapstructure:"MEDIA_MAX_SIZE_BYTES"`
	TenantDomains      string `mapstructure:"MEDIA_TENANT_DOMAINS"`
	DefaultTenant      string `mapstructure:"MEDIA_DEFAULT_TENANT"`

	// Parsed from MEDIA_CONTENT_TYPES + MEDIA_<TYPE>_CONTENT_SUB_TYPES.
	ContentTypes map[string][]string `mapstructure:"-"`

	// --- auth ---
	AuthJWTSecret string        `mapstructure:"AUTH_JWT_SECRET"`
	AuthIssuer    string        `mapstructure:"AUTH_ISSUER"`
	AuthTokenTTL  time.Duration `mapstructure:"AUTH_TOKEN_TTL"`

	// --- redis ---
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// --- S3 backend (optional) ---
	S3Endpoint  string `mapstructure:"S3_ENDPOINT"`
	S3Region    string `mapstructure:"S3_REGION"`
	S3Bucket    string `mapstructure:"S3_BUCKET"`
	S3AccessKey string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey string `mapstructure:"S3_SECRET_KEY"`
	S3UseSSL    bool   `mapstructure:"S3_USE_SSL"`
	S3PathStyle bool   `mapstructure:"S3_PATH_STYLE"`
}

// String implements Stringer; secrets are masked.
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  AppPort: %s\n", c.AppPort))
	sb.WriteString(fmt.Sprintf("  MediaStoreType: %s\n", c.MediaStoreType))
	sb.WriteString(fmt.Sprintf("  MediaMountLocation: %s\n", c.MediaMountLocation))
	sb.WriteString(fmt.Sprintf("  MediaMaxSizeBytes: %d\n", c.MediaMaxSizeBytes))
	sb.WriteString(fmt.Sprintf("  TenantDomains: %s\n", c.TenantDomains))
	sb.WriteString(fmt.Sprintf("  DefaultTenant: %s\n", c.DefaultTenant))
	for mediaType, subTypes := range c.ContentTypes {
		sb.WriteString(fmt.Sprintf("  ContentTypes[%s]: %s\n", mediaType, strings.Join(subTypes, ",")))
	}
	sb.WriteString(fmt.Sprintf("  AuthIssuer: %s\n", c.AuthIssuer))
	sb.WriteString(fmt.Sprintf("  AuthTokenTTL: %s\n", c.AuthTokenTTL))
	if c.AuthJWTSecret != "" {
		sb.WriteString("  AuthJWTSecret: ********\n")
	} else {
		sb.WriteString("  AuthJWTSecret: (empty)\n")
	}
	sb.WriteString(fmt.Sprintf("  RedisAddr: %s\n", c.RedisAddr))
	sb.WriteString(fmt.Sprintf("  RedisDB: %d\n", c.RedisDB))
	sb.WriteString(fmt.Sprintf("  S3Endpoint: %s\n", c.S3Endpoint))
	sb.WriteString(fmt.Sprintf("  S3Bucket: %s\n", c.S3Bucket))
	if c.S3AccessKey != "" {
		sb.WriteString("  S3AccessKey: ********\n")
	}
	if c.S3SecretKey != "" {
		sb.WriteString("  S3SecretKey: ********\n")
	}
	return sb.String()
}

// LoadFromEnv loads the configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	// .env is for local development only.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, errors.New("failed to load .env")
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	keys := []string{
		"APP_PORT",
		"MEDIA_STORE_TYPE", "MEDIA_MOUNT_LOCATION", "MEDIA_MAX_SIZE_BYTES",
		"MEDIA_CONTENT_TYPES", "MEDIA_TENANT_DOMAINS", "MEDIA_DEFAULT_TENANT",
		"AUTH_JWT_SECRET", "AUTH_ISSUER", "AUTH_TOKEN_TTL",
		"REDIS_ADDR", "REDIS_DB", "REDIS_PASSWORD",
		"S3_ENDPOINT", "S3_REGION", "S3_BUCKET", "S3_ACCESS_KEY", "S3_SECRET_KEY",
		"S3_USE_SSL", "S3_PATH_STYLE",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("MEDIA_STORE_TYPE", "file")
	v.SetDefault("MEDIA_MAX_SIZE_BYTES", int64(10<<20))
	v.SetDefault("MEDIA_CONTENT_TYPES", "image")
	v.SetDefault("MEDIA_IMAGE_CONTENT_SUB_TYPES", "png,jpg,jpeg,gif")
	v.SetDefault("MEDIA_TENANT_DOMAINS", "localhost:1")
	v.SetDefault("MEDIA_DEFAULT_TENANT", "localhost")
	v.SetDefault("AUTH_ISSUER", "identity-media")
	v.SetDefault("AUTH_TOKEN_TTL", "15m")
	v.SetDefault("REDIS_ADDR", "localhost:6379")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.ContentTypes = loadContentTypes(v)
	return &cfg, nil
}

// loadContentTypes reads the media type allow-list: MEDIA_CONTENT_TYPES
// names the primary types, and each type has its own
// MEDIA_<TYPE>_CONTENT_SUB_TYPES list.
func loadContentTypes(v *viper.Viper) map[string][]string {
	out := make(map[string][]string)
	for _, mediaType := range splitList(v.GetString("MEDIA_CONTENT_TYPES")) {
		key := fmt.Sprintf("MEDIA_%s_CONTENT_SUB_TYPES", strings.ToUpper(mediaType))
		_ = v.BindEnv(key)
		out[mediaType] = splitList(v.GetString(key))
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// MountLocation resolves the media mount base directory: the explicit
// override wins, otherwise the application's working directory is used.
// The file backend still requires a pre-created media folder underneath.
func (c *Config) MountLocation() (string, error) {
	if c.MediaMountLocation != "" {
		return c.MediaMountLocation, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving media mount location: %w", err)
	}
	return wd, nil
}
