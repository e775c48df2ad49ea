package main

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"policyai-be/internal/bootstrap"
	"policyai-be/internal/config"
	"policyai-be/internal/server"
	"policyai-be/internal/tracer"
	"policyai-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Supervise background workers and the HTTP server together; a
	// fatal error in any of them brings the process down.
	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		log.Println("Background: Starting Source Ingest Consumer...")
		return container.ConsumerService.Consume(ctx)
	})
	g.Go(func() error {
		log.Println("Background: Starting Audit Log Writer...")
		return container.AuditService.Start()
	})

	srv := server.New(cfg, container)
	g.Go(srv.Run)

	log.Fatal(g.Wait())
}
