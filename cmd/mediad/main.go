// @title       identity-media API
// @version     1.0
// @description Tenant-partitioned media storage service.
// @BasePath    /
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/wso2-attic/identity-media/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx)
	if err != nil {
		log.Fatalf("build failed: %v", err)
	}
	if err := a.Run(ctx); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}
