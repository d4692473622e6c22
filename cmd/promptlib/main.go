// Package main is the entry point for the prompt library server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"promptlib/internal/cache"
	"promptlib/internal/config"
	"promptlib/internal/database"
	"promptlib/internal/handlers"
	"promptlib/internal/listing"
	"promptlib/internal/router"
	"promptlib/internal/seedimport"
	"promptlib/internal/session"
	"promptlib/internal/storage"
	"promptlib/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed the default admin user (no-op if one exists).
	if err := database.Seed(db); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey (Redis-compatible cache + session store).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	sessionStore := session.NewStore(valkeyClient)
	countsCache := cache.NewCountsCache(valkeyClient, cache.DefaultCountsTTL)

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	promptStore := store.NewPromptStore(db)
	submissionStore := store.NewSubmissionStore(db)
	documentStore := store.NewDocumentStore(db)
	auditStore := store.NewAuditLogStore(db)

	// Import the seed catalog when configured. The import is idempotent,
	// so running it on every boot is safe.
	if cfg.SeedFile != "" {
		importer := seedimport.New(categoryStore, promptStore)
		if _, err := importer.ImportFile(cfg.SeedFile); err != nil {
			slog.Error("seed import failed", "file", cfg.SeedFile, "error", err)
			os.Exit(1)
		}
	}

	// Connect to S3-compatible object storage. Optional: document file
	// attachments are disabled without it.
	var storageClient *storage.Client
	if cfg.StorageConfigured() {
		storageClient, err = storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		if storageClient != nil {
			slog.Info("s3 storage connected",
				"endpoint", cfg.S3Endpoint,
				"bucket", cfg.S3Bucket,
			)
		}
	} else {
		slog.Warn("s3 storage not configured, file attachments disabled")
	}

	// Assemble handler groups.
	engine := listing.NewEngine(promptStore, categoryStore, documentStore)
	publicHandlers := handlers.NewPublic(engine, categoryStore, promptStore, submissionStore, documentStore, countsCache)
	adminHandlers := handlers.NewAdmin(categoryStore, promptStore, submissionStore, documentStore, auditStore, countsCache)
	documentHandlers := handlers.NewDocuments(documentStore, promptStore, auditStore, storageClient)
	authHandlers := handlers.NewAuth(userStore, sessionStore)

	r := router.New(sessionStore, cfg.AdminKey, publicHandlers, adminHandlers, documentHandlers, authHandlers)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start the server in a goroutine so we can listen for signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
