// Package app wires configuration, storage backends, auth primitives and the
// HTTP server into a runnable application.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/wso2-attic/identity-media/internal/auth/blacklist"
	"github.com/wso2-attic/identity-media/internal/auth/token"
	"github.com/wso2-attic/identity-media/internal/config"
	"github.com/wso2-attic/identity-media/internal/domain"
	redisx "github.com/wso2-attic/identity-media/internal/infra/cache/redis"
	dbstorage "github.com/wso2-attic/identity-media/internal/infra/storage/database"
	filestorage "github.com/wso2-attic/identity-media/internal/infra/storage/file"
	s3storage "github.com/wso2-attic/identity-media/internal/infra/storage/s3"
	"github.com/wso2-attic/identity-media/internal/media"
	"github.com/wso2-attic/identity-media/internal/tenant"
	"github.com/wso2-attic/identity-media/internal/transport/web"
)

type App struct {
	config *config.Config
	server *web.Server
	log    *log.Logger
	cache  *redisx.Cache
}

func Build(ctx context.Context) (*App, error) {
	base := log.New(os.Stdout, "[app] ", log.LstdFlags)

	serverLog := log.New(base.Writer(), base.Prefix()+"[server] ", base.Flags())
	fileLog := log.New(base.Writer(), base.Prefix()+"[file] ", base.Flags())
	s3Log := log.New(base.Writer(), base.Prefix()+"[s3] ", base.Flags())
	redisLog := log.New(base.Writer(), base.Prefix()+"[redis] ", base.Flags())
	managerLog := log.New(base.Writer(), base.Prefix()+"[media] ", base.Flags())

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed load config: %w", err)
	}
	base.Printf("\n  configuration: %s-------------------", cfg)

	tenants, err := tenant.NewStaticResolver(cfg.TenantDomains)
	if err != nil {
		return nil, fmt.Errorf("failed init tenant resolver: %w", err)
	}

	// Storage backend registry. Only the configured backend has to come up
	// clean; the others stay available for explicit reconfiguration.
	stores := map[string]domain.StorageSystem{
		"database": dbstorage.New(),
	}

	base.Println("init file storage")
	mount, err := cfg.MountLocation()
	if err != nil {
		return nil, err
	}
	fs, err := filestorage.New(mount, tenants, fileLog)
	switch {
	case err == nil:
		stores["file"] = fs
	case cfg.MediaStoreType == "file":
		return nil, fmt.Errorf("failed init file storage: %w", err)
	default:
		base.Printf("file storage unavailable: %v", err)
	}

	if cfg.S3Endpoint != "" {
		base.Println("init S3 storage")
		s3cfg := s3storage.Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			UseSSL:    cfg.S3UseSSL,
			PathStyle: cfg.S3PathStyle,
		}
		s3, err := s3storage.New(s3cfg, tenants, s3Log)
		if err != nil {
			if cfg.MediaStoreType == "s3" {
				return nil, fmt.Errorf("failed init s3: %w", err)
			}
			base.Printf("s3 storage unavailable: %v", err)
		} else {
			stores["s3"] = s3
		}
	}

	base.Println("init Redis")
	rc := redisx.New(redisx.Config{
		Addr:     cfg.RedisAddr,
		DB:       cfg.RedisDB,
		Password: cfg.RedisPassword,
	}, redisLog)
	if err := rc.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed init redis: %w", err)
	}
	base.Println("Redis is initialized")

	tm := token.New(cfg.AuthJWTSecret, cfg.AuthIssuer, cfg.AuthTokenTTL)
	bl := blacklist.NewStore(rc)

	manager := media.NewManager(media.Config{
		StoreType:    cfg.MediaStoreType,
		MaxSizeBytes: cfg.MediaMaxSizeBytes,
		ContentTypes: cfg.ContentTypes,
	}, stores, managerLog)

	base.Println("init Server")
	server := web.New(serverLog, cfg, web.Deps{
		Store:     manager,
		Cache:     rc,
		Tokens:    tm,
		Blacklist: bl,
	})
	base.Println("Server is initialized")

	base.Println("build ended")
	return &App{
		config: cfg,
		server: server,
		log:    base,
		cache:  rc,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Println("start application...")
	go a.server.Run()
	<-ctx.Done()
	a.log.Println("stop application...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.server.Close(stopCtx)
	a.cache.Close()

	return nil
}
