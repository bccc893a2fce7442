// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package assets stores template background images. An upload lands in
// object storage under a dated key and gets a metadata row; the row id and
// public URL become the asset reference of an exported template.
package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"

	"cardforge/internal/export"
	"cardforge/internal/imaging"
	"cardforge/internal/layout"
	"cardforge/internal/metrics"
	"cardforge/internal/models"
)

// keyPrefix is the object key prefix for template backgrounds.
const keyPrefix = "templates/assets"

// ErrNotFound is returned when no asset row matches an id.
var ErrNotFound = errors.New("asset not found")

// ObjectStore is the subset of the S3 client the service needs.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	FileURL(key string) string
}

// Repository persists asset metadata.
type Repository interface {
	Create(ctx context.Context, a *models.Asset) (*models.Asset, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Asset, error)
	List(ctx context.Context, limit, offset int) ([]models.Asset, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Asset, error)
	Count(ctx context.Context) (int, error)
}

// View is the JSON shape of a stored asset.
type View struct {
	ID          string    `json:"assetId"`
	URL         string    `json:"imageUrl"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	Size        string    `json:"size"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Service uploads and manages background assets. It implements
// export.Uploader.
type Service struct {
	objects ObjectStore
	repo    Repository
	metrics *metrics.Metrics
	now     func() time.Time
}

var _ export.Uploader = (*Service)(nil)

// NewService creates an asset service. m may be nil.
func NewService(objects ObjectStore, repo Repository, m *metrics.Metrics) *Service {
	return &Service{objects: objects, repo: repo, metrics: m, now: time.Now}
}

// UploadAsset sniffs and stores file, records its metadata and returns the
// asset reference. If the metadata insert fails the stored object is removed.
func (s *Service) UploadAsset(ctx context.Context, file *layout.File) (ref export.AssetRef, err error) {
	defer func() { s.metrics.RecordUpload(err) }()

	if file == nil || len(file.Data) == 0 {
		return export.AssetRef{}, errors.New("asset upload: empty file")
	}

	checked, err := imaging.Inspect(file.Data, file.Name)
	if err != nil {
		return export.AssetRef{}, fmt.Errorf("asset upload: %w", err)
	}
	width, height, err := imaging.Dimensions(file.Data)
	if err != nil {
		return export.AssetRef{}, fmt.Errorf("asset upload: %w", err)
	}

	key := s.objectKey(checked.ContentType)
	size := int64(len(file.Data))
	if err := s.objects.Upload(ctx, key, checked.ContentType, bytes.NewReader(file.Data), size); err != nil {
		return export.AssetRef{}, fmt.Errorf("asset upload: %w", err)
	}

	created, err := s.repo.Create(ctx, &models.Asset{
		Filename:     path.Base(key),
		OriginalName: file.Name,
		ContentType:  checked.ContentType,
		SizeBytes:    size,
		Width:        width,
		Height:       height,
		S3Key:        key,
	})
	if err != nil {
		if delErr := s.objects.Delete(ctx, key); delErr != nil {
			slog.Warn("orphaned asset object", "key", key, "error", delErr)
		}
		return export.AssetRef{}, fmt.Errorf("asset record: %w", err)
	}

	slog.Info("asset uploaded", "id", created.ID, "key", key, "size", created.HumanSize())
	return export.AssetRef{AssetID: created.ID.String(), URL: s.objects.FileURL(key)}, nil
}

// Get returns one asset.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("asset get: %w", err)
	}
	if a == nil {
		return nil, ErrNotFound
	}
	v := s.view(a)
	return &v, nil
}

// List returns one page of assets, newest first, and the total count.
func (s *Service) List(ctx context.Context, limit, offset int) ([]View, int, error) {
	items, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("asset list: %w", err)
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("asset count: %w", err)
	}

	views := make([]View, 0, len(items))
	for i := range items {
		views = append(views, s.view(&items[i]))
	}
	return views, total, nil
}

// Delete removes the metadata row and then the stored object. A failed
// object delete is logged and not returned.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("asset delete: %w", err)
	}
	if deleted == nil {
		return ErrNotFound
	}
	if err := s.objects.Delete(ctx, deleted.S3Key); err != nil {
		slog.Warn("asset object delete failed", "key", deleted.S3Key, "error", err)
	}
	return nil
}

func (s *Service) objectKey(contentType string) string {
	now := s.now()
	return fmt.Sprintf("%s/%d/%02d/%s%s", keyPrefix, now.Year(), now.Month(), uuid.NewString(), imaging.ExtensionFromType(contentType))
}

func (s *Service) view(a *models.Asset) View {
	return View{
		ID:          a.ID.String(),
		URL:         s.objects.FileURL(a.S3Key),
		Filename:    a.OriginalName,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		Size:        a.HumanSize(),
		Width:       a.Width,
		Height:      a.Height,
		CreatedAt:   a.CreatedAt,
	}
}
