// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/jackc/pgx/v5/stdlib"

	"cardforge/internal/database"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// integrationDB connects to the Postgres named by POSTGRES_* and applies
// migrations. The test is skipped when the server is unreachable.
func integrationDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "postgres://" + envOr("POSTGRES_USER", "cardforge") + ":" + envOr("POSTGRES_PASSWORD", "changeme") +
		"@" + envOr("POSTGRES_HOST", "localhost") + ":" + envOr("POSTGRES_PORT", "5432") +
		"/" + envOr("POSTGRES_DB", "cardforge") + "?sslmode=disable&connect_timeout=2"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanAssetsByKey removes test assets by object key. Call in t.Cleanup().
func cleanAssetsByKey(db *sql.DB, keys ...string) {
	for _, key := range keys {
		db.Exec("DELETE FROM assets WHERE s3_key = $1", key)
	}
}

// mockDB returns an AssetStore over sqlmock.
func mockDB(t *testing.T) (*AssetStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewAssetStore(db), mock
}
