// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"cardforge/internal/assets"
	"cardforge/internal/models"
)

// memObjects is an in-memory bucket.
type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut bool
}

func (m *memObjects) Upload(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	if m.failPut {
		return errors.New("bucket unreachable")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memObjects) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memObjects) FileURL(key string) string { return "https://cdn.example.com/" + key }

// memRepo is an in-memory asset table.
type memRepo struct {
	mu   sync.Mutex
	rows []models.Asset
}

func (r *memRepo) Create(_ context.Context, a *models.Asset) (*models.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := *a
	row.ID = uuid.New()
	row.CreatedAt = time.Now()
	r.rows = append([]models.Asset{row}, r.rows...)
	return &row, nil
}

func (r *memRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Asset, error) {
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

func (r *memRepo) List(_ context.Context, limit, offset int) ([]models.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if offset >= len(r.rows) {
		return nil, nil
	}
	end := min(offset+limit, len(r.rows))
	return append([]models.Asset(nil), r.rows[offset:end]...), nil
}

func (r *memRepo) Delete(_ context.Context, id uuid.UUID) (*models.Asset, error) {
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

func (r *memRepo) Count(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows), nil
}

func assetRouter(h *Assets) http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.Upload)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)
	return r
}

func TestAssets_UploadListGetDelete(t *testing.T) {
	objects := &memObjects{objects: map[string][]byte{}}
	h := assetRouter(NewAssets(assets.NewService(objects, &memRepo{}, nil)))

	body, ct := multipartBody(t, "file", "card.png", pngBytes(t, 40, 30), nil)
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("upload = %d: %s", rr.Code, rr.Body.String())
	}
	var created map[string]string
	decodeBody(t, rr, &created)
	if _, err := uuid.Parse(created["assetId"]); err != nil {
		t.Errorf("assetId = %q", created["assetId"])
	}
	if !strings.HasPrefix(created["imageUrl"], "https://cdn.example.com/templates/assets/") ||
		!strings.HasSuffix(created["imageUrl"], ".png") {
		t.Errorf("imageUrl = %q", created["imageUrl"])
	}
	if len(objects.objects) != 1 {
		t.Errorf("objects stored = %d", len(objects.objects))
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/?limit=10", nil))
	var page struct {
		Items []assets.View `json:"items"`
		Total int           `json:"total"`
		Limit int           `json:"limit"`
	}
	decodeBody(t, rr, &page)
	if page.Total != 1 || len(page.Items) != 1 || page.Limit != 10 {
		t.Fatalf("page = %+v", page)
	}
	if page.Items[0].Width != 40 || page.Items[0].Height != 30 || page.Items[0].Filename != "card.png" {
		t.Errorf("item = %+v", page.Items[0])
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/"+created["assetId"], nil))
	if rr.Code != http.StatusOK {
		t.Errorf("get = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/"+created["assetId"], nil))
	if rr.Code != http.StatusNoContent {
		t.Errorf("delete = %d", rr.Code)
	}
	if len(objects.objects) != 0 {
		t.Error("object should be removed with the row")
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/"+created["assetId"], nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rr.Code)
	}
}

func TestAssets_Errors(t *testing.T) {
	objects := &memObjects{objects: map[string][]byte{}, failPut: true}
	h := assetRouter(NewAssets(assets.NewService(objects, &memRepo{}, nil)))

	tests := []struct {
		name     string
		filename string
		data     []byte
		want     int
	}{
		{"unsupported type", "notes.txt", []byte("hello there, not an image"), http.StatusUnsupportedMediaType},
		{"storage failure", "bg.png", pngBytes(t, 8, 8), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := multipartBody(t, "file", tt.filename, tt.data, nil)
			req := httptest.NewRequest(http.MethodPost, "/", body)
			req.Header.Set("Content-Type", ct)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/not-a-uuid", nil))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad id = %d, want 400", rr.Code)
	}
}

func TestAssets_NoStorage(t *testing.T) {
	h := assetRouter(NewAssets(nil))
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(method, "/", nil))
		if rr.Code != http.StatusServiceUnavailable {
			t.Errorf("%s = %d, want 503", method, rr.Code)
		}
	}
}
