// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store holds the PostgreSQL data access for uploaded assets.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"cardforge/internal/models"
)

// AssetStore handles all asset-related database operations.
type AssetStore struct {
	db *sql.DB
}

// NewAssetStore creates a new AssetStore with the given database connection.
func NewAssetStore(db *sql.DB) *AssetStore {
	return &AssetStore{db: db}
}

// assetColumns lists the columns selected in asset queries.
const assetColumns = `id, filename, original_name, content_type, size_bytes,
	width, height, s3_key, created_at`

// scanAsset scans an asset row from the result set.
func scanAsset(scanner interface{ Scan(...any) error }) (*models.Asset, error) {
	var a models.Asset
	err := scanner.Scan(
		&a.ID, &a.Filename, &a.OriginalName, &a.ContentType, &a.SizeBytes,
		&a.Width, &a.Height, &a.S3Key, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new asset record and returns it with the generated ID.
func (s *AssetStore) Create(ctx context.Context, a *models.Asset) (*models.Asset, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO assets (filename, original_name, content_type, size_bytes,
			width, height, s3_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+assetColumns,
		a.Filename, a.OriginalName, a.ContentType, a.SizeBytes,
		a.Width, a.Height, a.S3Key,
	)
	created, err := scanAsset(row)
	if err != nil {
		return nil, fmt.Errorf("create asset: %w", err)
	}
	return created, nil
}

// FindByID retrieves a single asset by its UUID. Returns (nil, nil) if no
// row matches.
func (s *AssetStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = $1`, id)
	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find asset by id: %w", err)
	}
	return a, nil
}

// List returns assets ordered by creation date, newest first.
func (s *AssetStore) List(ctx context.Context, limit, offset int) ([]models.Asset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+assetColumns+`
		FROM assets
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var items []models.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// Delete removes an asset record and returns it so the caller can clean up
// the stored object. Returns (nil, nil) if no row matches.
func (s *AssetStore) Delete(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	row := s.db.QueryRowContext(ctx, `
		DELETE FROM assets WHERE id = $1
		RETURNING `+assetColumns, id)
	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete asset: %w", err)
	}
	return a, nil
}

// Count returns the total number of assets.
func (s *AssetStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assets`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count assets: %w", err)
	}
	return count, nil
}
