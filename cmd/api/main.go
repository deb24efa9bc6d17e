package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"memberdocs/internal/config"
	"memberdocs/internal/database"
	"memberdocs/internal/database/migration"
	handlers "memberdocs/internal/http/handler"
	"memberdocs/internal/http/middleware"
	"memberdocs/internal/otel"
	"memberdocs/internal/repository/sqlstore"
	"memberdocs/internal/service"
	"memberdocs/internal/vault"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	db, dbInfo, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, dbInfo.Driver, time.UTC); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Select the file vault backend: local directory or S3-compatible bucket.
	var store vault.Vault
	switch cfg.Vault.Backend {
	case config.VaultBackendS3:
		store, err = vault.NewMinIO(cfg.Vault.MinIO)
	default:
		store, err = vault.NewFS(cfg.Vault.Dir)
	}
	if err != nil {
		log.Fatalf("failed to initialize file vault: %v", err)
	}

	memberRepo := sqlstore.NewMemberStore(db)
	docRepo := sqlstore.NewDocumentStore(db)
	adminRepo := sqlstore.NewAdminStore(db)

	docSvc := service.NewDocumentService(docRepo, memberRepo, store)
	memberSvc := service.NewMemberService(memberRepo, docSvc)
	backupSvc := service.NewBackupService(memberRepo, docRepo, adminRepo, store, dbInfo)
	reportSvc := service.NewReportService(memberRepo, docRepo)
	authSvc := service.NewAuthService(adminRepo, cfg.Auth)

	// Seed the default admin before the server starts accepting traffic.
	if err := authSvc.EnsureDefaultAdmin(ctx); err != nil {
		log.Fatalf("failed to seed default admin: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    vault.MaxFileSize + 1024*1024,
		ErrorHandler: handlers.ErrorHandler(),
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, handlers.Services{
		DB:      db,
		Members: memberSvc,
		Docs:    docSvc,
		Backup:  backupSvc,
		Report:  reportSvc,
		Auth:    authSvc,
		Metrics: registry,
	})

	addr := cfg.AppHost + ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
