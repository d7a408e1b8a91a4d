package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/wso2-attic/identity-media/internal/config"
	"github.com/wso2-attic/identity-media/internal/transport/web/mw"
	"github.com/wso2-attic/identity-media/internal/transport/web/v1/health"
	"github.com/wso2-attic/identity-media/internal/transport/web/v1/media"
	"github.com/wso2-attic/identity-media/internal/transport/web/v1/token"
)

type Server struct {
	log    *log.Logger
	server *http.Server
	cfg    *config.Config
}

func New(logger *log.Logger, cfg *config.Config, deps Deps) *Server {
	healthLog := log.New(logger.Writer(), logger.Prefix()+"[health] ", logger.Flags())
	mediaLog := log.New(logger.Writer(), logger.Prefix()+"[media] ", logger.Flags())
	tokenLog := log.New(logger.Writer(), logger.Prefix()+"[token] ", logger.Flags())

	healthHandler := &health.Handler{Log: healthLog, Cache: deps.Cache}
	mediaHandler := &media.Handler{Log: mediaLog, Store: deps.Store, DefaultTenant: cfg.DefaultTenant}
	tokenHandler := &token.Handler{Log: tokenLog, Tokens: deps.Tokens, Blacklist: deps.Blacklist}

	auth := mw.AuthDeps{Tokens: deps.Tokens, Blacklist: deps.Blacklist}

	srv := &http.Server{
		Addr:              cfg.AppPort,
		Handler:           newRouter(healthHandler, mediaHandler, tokenHandler, auth, cfg.MediaMaxSizeBytes, logger),
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{server: srv, cfg: cfg, log: logger}
}

func (ws *Server) Run() {
	ws.log.Printf("started on %s", ws.server.Addr)
	if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		ws.log.Fatalf("error: %v", err)
	}
}

func (ws *Server) Close(ctx context.Context) {
	if err := ws.server.Shutdown(ctx); err != nil {
		ws.log.Printf("forced to shutdown: %v", err)
	}
	ws.log.Println("exited gracefully")
}
