// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the cardforge template editor server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cardforge/internal/assets"
	"cardforge/internal/cache"
	"cardforge/internal/config"
	"cardforge/internal/database"
	"cardforge/internal/editor"
	"cardforge/internal/export"
	"cardforge/internal/fonts"
	"cardforge/internal/greeting"
	"cardforge/internal/handlers"
	"cardforge/internal/metrics"
	"cardforge/internal/middleware"
	"cardforge/internal/router"
	"cardforge/internal/session"
	"cardforge/internal/storage"
	"cardforge/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"session_ttl", cfg.EditorSessionTTL,
	)

	ctx := context.Background()
	m := metrics.New()

	// PostgreSQL holds asset metadata.
	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Valkey holds editor sessions and the font catalog. Development falls
	// back to in-process sessions when it is unreachable.
	var sessionStore editor.Store
	var fontBacking fonts.Backing
	valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	switch {
	case err == nil:
		defer valkeyClient.Close()
		sessionStore = session.NewStore(valkeyClient, cfg.EditorSessionTTL)
		fontBacking = cache.NewCatalogCache(valkeyClient, cache.DefaultCatalogTTL)
	case cfg.IsDev():
		slog.Warn("valkey unavailable, editor sessions kept in memory", "error", err)
		sessionStore = editor.NewMemoryStore()
	default:
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}

	assetService := newAssetService(cfg, db, m)

	var exporter *export.Exporter
	if assetService != nil {
		exporter = export.NewExporter(assetService, m)
	}

	catalog := fonts.NewCatalog(cfg.GoogleFontsAPIKey, "", fontBacking, cache.FontsKey("popularity"))

	registry := greeting.NewRegistry(cfg.GreetingProvider, m)
	registry.Register(greeting.NewBackend(cfg.GreetingAPIURL))
	if cfg.GeminiAPIKey != "" {
		gemini, err := greeting.NewGemini(greeting.GeminiConfig{
			APIKey:     cfg.GeminiAPIKey,
			ModelImage: cfg.GeminiModelImage,
			BaseURL:    cfg.GeminiBaseURL,
		})
		if err != nil {
			slog.Error("failed to initialize gemini generator", "error", err)
			os.Exit(1)
		}
		registry.Register(gemini)
	}
	slog.Info("greeting generators initialized",
		"active", registry.ActiveName(),
		"available", registry.Available(),
	)

	secureCookies := !cfg.IsDev()
	limiter := middleware.NewRateLimiter(30, time.Minute)
	defer limiter.Stop()

	r := router.New(router.Handlers{
		Editor:    handlers.NewEditor(editor.NewManager(sessionStore, m), exporter, fonts.NewCache(), cfg.EditorSessionTTL, secureCookies),
		Assets:    handlers.NewAssets(assetService),
		Fonts:     handlers.NewFonts(catalog),
		Greetings: handlers.NewGreetings(registry),
	}, router.Options{
		Metrics:       m,
		SecureCookies: secureCookies,
		Limiter:       limiter,
	})

	// WriteTimeout must accommodate greeting generation, which waits on the
	// image backend for up to a minute per card.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// newAssetService connects object storage. It returns nil when S3 is not
// configured; uploads and exports are then disabled.
func newAssetService(cfg *config.Config, db *sql.DB, m *metrics.Metrics) *assets.Service {
	client, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if client == nil {
		slog.Warn("s3 storage not configured, asset uploads and export disabled")
		return nil
	}
	slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", client.Bucket())
	return assets.NewService(client, store.NewAssetStore(db), m)
}
