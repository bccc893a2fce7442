// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package assets

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"cardforge/internal/imaging"
	"cardforge/internal/layout"
	"cardforge/internal/models"
)

type fakeObjects struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
	deleteErr error
	deleted   []string
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: make(map[string][]byte)}
}

func (f *fakeObjects) Upload(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeObjects) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	delete(f.objects, key)
	return f.deleteErr
}

func (f *fakeObjects) FileURL(key string) string {
	return "https://cdn.example.com/" + key
}

type fakeRepo struct {
	mu        sync.Mutex
	rows      []models.Asset
	createErr error
}

func (r *fakeRepo) Create(_ context.Context, a *models.Asset) (*models.Asset, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	row := *a
	row.ID = uuid.New()
	row.CreatedAt = time.Now()
	r.rows = append(r.rows, row)
	return &row, nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			row := r.rows[i]
			return &row, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) List(_ context.Context, limit, offset int) ([]models.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if offset >= len(r.rows) {
		return nil, nil
	}
	end := min(offset+limit, len(r.rows))
	return append([]models.Asset(nil), r.rows[offset:end]...), nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) (*models.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			row := r.rows[i]
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return &row, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) Count(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows), nil
}

func pngFile(t *testing.T, w, h int) *layout.File {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return &layout.File{Name: "background.png", ContentType: "image/png", Data: buf.Bytes()}
}

func newTestService() (*Service, *fakeObjects, *fakeRepo) {
	objects := newFakeObjects()
	repo := &fakeRepo{}
	s := NewService(objects, repo, nil)
	s.now = func() time.Time { return time.Date(2026, time.March, 4, 10, 0, 0, 0, time.UTC) }
	return s, objects, repo
}

func TestUploadAsset(t *testing.T) {
	s, objects, repo := newTestService()

	ref, err := s.UploadAsset(context.Background(), pngFile(t, 40, 30))
	if err != nil {
		t.Fatalf("UploadAsset: %v", err)
	}

	if len(repo.rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(repo.rows))
	}
	row := repo.rows[0]
	if ref.AssetID != row.ID.String() {
		t.Errorf("AssetID = %q, want %q", ref.AssetID, row.ID)
	}
	if !strings.HasPrefix(row.S3Key, "templates/assets/2026/03/") || !strings.HasSuffix(row.S3Key, ".png") {
		t.Errorf("key = %q", row.S3Key)
	}
	if ref.URL != "https://cdn.example.com/"+row.S3Key {
		t.Errorf("URL = %q", ref.URL)
	}
	if row.Width != 40 || row.Height != 30 || row.OriginalName != "background.png" || row.ContentType != "image/png" {
		t.Errorf("row = %+v", row)
	}
	if _, ok := objects.objects[row.S3Key]; !ok {
		t.Error("object was not stored")
	}
}

func TestUploadAsset_Rejects(t *testing.T) {
	s, objects, _ := newTestService()
	ctx := context.Background()

	if _, err := s.UploadAsset(ctx, nil); err == nil {
		t.Error("nil file should fail")
	}
	_, err := s.UploadAsset(ctx, &layout.File{Name: "notes.txt", Data: []byte("hello world")})
	if !errors.Is(err, imaging.ErrUnsupportedType) {
		t.Errorf("err = %v, want ErrUnsupportedType", err)
	}
	if len(objects.objects) != 0 {
		t.Error("rejected file must not reach storage")
	}
}

func TestUploadAsset_StorageFailure(t *testing.T) {
	s, objects, repo := newTestService()
	objects.uploadErr = errors.New("bucket unavailable")

	if _, err := s.UploadAsset(context.Background(), pngFile(t, 4, 4)); err == nil {
		t.Fatal("expected error")
	}
	if len(repo.rows) != 0 {
		t.Error("no row should be written when storage fails")
	}
}

func TestUploadAsset_RecordFailureRemovesObject(t *testing.T) {
	s, objects, repo := newTestService()
	repo.createErr = errors.New("db down")

	_, err := s.UploadAsset(context.Background(), pngFile(t, 4, 4))
	if err == nil || !strings.Contains(err.Error(), "asset record") {
		t.Fatalf("err = %v", err)
	}
	if len(objects.deleted) != 1 || len(objects.objects) != 0 {
		t.Errorf("object should be cleaned up: deleted=%v remaining=%d", objects.deleted, len(objects.objects))
	}
}

func TestGetListDelete(t *testing.T) {
	s, objects, _ := newTestService()
	ctx := context.Background()

	var refs []string
	for range 3 {
		ref, err := s.UploadAsset(ctx, pngFile(t, 8, 8))
		if err != nil {
			t.Fatalf("UploadAsset: %v", err)
		}
		refs = append(refs, ref.AssetID)
	}

	id := uuid.MustParse(refs[0])
	v, err := s.Get(ctx, id)
	if err != nil || v.ID != refs[0] || v.Width != 8 {
		t.Fatalf("Get = (%+v, %v)", v, err)
	}

	views, total, err := s.List(ctx, 2, 0)
	if err != nil || len(views) != 2 || total != 3 {
		t.Errorf("List = (%d views, total %d, %v)", len(views), total, err)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(objects.objects) != 2 {
		t.Errorf("objects left = %d, want 2", len(objects.objects))
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete err = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}
}
