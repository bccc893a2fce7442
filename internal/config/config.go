// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection (asset metadata)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (editor session snapshots)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// EditorSessionTTL is how long an idle editor session survives.
	EditorSessionTTL time.Duration

	// S3-compatible object storage for background assets
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string // optional CDN base URL

	// Font catalog
	GoogleFontsAPIKey string

	// Greeting generation
	GreetingProvider string // "backend" or "gemini"
	GreetingAPIURL   string
	GeminiAPIKey     string
	GeminiModelImage string
	GeminiBaseURL    string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing or malformed.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "cardforge"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "cardforge"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "fsn1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "cardforge-assets"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		GoogleFontsAPIKey: os.Getenv("GOOGLE_FONTS_API_KEY"),

		GreetingProvider: envOrDefault("GREETING_PROVIDER", "backend"),
		GreetingAPIURL:   envOrDefault("GREETING_API_URL", "http://localhost:8000"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModelImage: envOrDefault("GEMINI_MODEL_IMAGE", "gemini-2.5-flash-image"),
		GeminiBaseURL:    envOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
	}

	ttl, err := time.ParseDuration(envOrDefault("EDITOR_SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("EDITOR_SESSION_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("EDITOR_SESSION_TTL must be positive, got %s", ttl)
	}
	cfg.EditorSessionTTL = ttl

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
