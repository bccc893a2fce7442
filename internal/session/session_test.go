// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"cardforge/internal/editor"
	"cardforge/internal/layout"
)

// testValkeyClient returns a Redis client connected to the test Valkey.
// Skips the test if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests to isolate from dev data.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, keyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestStoreSaveAndLoad(t *testing.T) {
	store := NewStore(testValkeyClient(t), time.Minute)
	ctx := context.Background()

	c := editor.NewController()
	c.ProvideBackground(editor.Upload{
		File:        &layout.File{Name: "bg.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}},
		Filename:    "bg.png",
		PreviewData: "data:image/png;base64,iVBO",
	})
	c.ChooseOrientation(layout.OrientationPortrait)
	c.AddTextArea(layout.FieldRecipientName)
	snap := c.Snapshot()

	if err := store.Save(ctx, "abc123", &snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx, "abc123")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Flow.Stage != editor.StageReady {
		t.Errorf("stage = %q, want %q", got.Flow.Stage, editor.StageReady)
	}
	bg := got.Document.BackgroundImage
	if bg == nil || bg.File == nil || string(bg.File.Data) != string(snap.Document.BackgroundImage.File.Data) {
		t.Fatalf("background did not survive the round trip: %+v", bg)
	}
	if len(got.Document.TextAreas) != 1 || got.Document.TextAreas[0].ID != layout.FieldRecipientName {
		t.Errorf("text areas = %+v", got.Document.TextAreas)
	}

	ttl, err := store.client.TTL(ctx, keyPrefix+"abc123").Result()
	if err != nil || ttl <= 0 || ttl > time.Minute {
		t.Errorf("TTL = %v (err %v), want (0, 1m]", ttl, err)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	store := NewStore(testValkeyClient(t), 0)
	_, err := store.Load(context.Background(), "does-not-exist")
	if !errors.Is(err, editor.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStoreDelete(t *testing.T) {
	store := NewStore(testValkeyClient(t), 0)
	ctx := context.Background()

	snap := editor.NewController().Snapshot()
	if err := store.Save(ctx, "gone", &snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(ctx, "gone"); !errors.Is(err, editor.ErrNotFound) {
		t.Errorf("Load after Delete err = %v, want ErrNotFound", err)
	}
}

func TestStoreWithManager(t *testing.T) {
	m := editor.NewManager(NewStore(testValkeyClient(t), time.Minute), nil)
	ctx := context.Background()

	id, _, err := m.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	snap, err := m.Update(ctx, id, func(c *editor.Controller) error {
		c.SetOrientation(layout.OrientationLandscape)
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if snap.Document.Canvas != layout.CanvasFor(layout.OrientationLandscape) {
		t.Errorf("canvas = %+v", snap.Document.Canvas)
	}
}

func TestStoreKeepsUploadBesideSnapshot(t *testing.T) {
	client := testValkeyClient(t)
	m := editor.NewManager(NewStore(client, time.Minute), nil)
	ctx := context.Background()

	id, _, err := m.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	raw := bytes.Repeat([]byte{0x89, 'P', 'N', 'G'}, 64)
	if _, err := m.Update(ctx, id, func(c *editor.Controller) error {
		c.ChooseOrientation(layout.OrientationSquare)
		c.ProvideBackground(editor.Upload{
			File:        &layout.File{Name: "bg.png", ContentType: "image/png", Data: raw},
			Filename:    "bg.png",
			PreviewData: "data:image/jpeg;base64,preview",
		})
		return nil
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := m.Update(ctx, id, func(c *editor.Controller) error {
		c.AddTextArea(layout.FieldMessage)
		return nil
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	payload, err := client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if bytes.Contains(payload, []byte(base64.StdEncoding.EncodeToString(raw))) {
		t.Errorf("snapshot embeds the upload bytes (%d bytes payload)", len(payload))
	}

	stored, err := client.Get(ctx, keyPrefix+id+fileSuffix).Bytes()
	if err != nil || !bytes.Equal(stored, raw) {
		t.Fatalf("file key = %d bytes, err %v", len(stored), err)
	}
	ttl, err := client.TTL(ctx, keyPrefix+id+fileSuffix).Result()
	if err != nil || ttl <= 0 || ttl > time.Minute {
		t.Errorf("file TTL = %v (err %v), want (0, 1m]", ttl, err)
	}

	d, err := m.Document(ctx, id)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if bg := d.BackgroundImage; bg == nil || bg.File == nil || !bytes.Equal(bg.File.Data, raw) {
		t.Errorf("export document lost the upload: %+v", bg)
	}

	if err := m.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n, _ := client.Exists(ctx, keyPrefix+id+fileSuffix).Result(); n != 0 {
		t.Error("file key survived session delete")
	}
}

func TestNewStoreDefaultTTL(t *testing.T) {
	if got := NewStore(nil, 0).TTL(); got != DefaultTTL {
		t.Errorf("TTL = %v, want %v", got, DefaultTTL)
	}
}

func TestCookieHelpers(t *testing.T) {
	w := httptest.NewRecorder()
	SetCookie(w, "sess-1", time.Hour, true)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != CookieName || c.Value != "sess-1" || !c.HttpOnly || !c.Secure || c.MaxAge != 3600 {
		t.Errorf("cookie = %+v", c)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := ID(r); ok {
		t.Error("ID should report no session without a cookie")
	}
	r.AddCookie(c)
	if id, ok := ID(r); !ok || id != "sess-1" {
		t.Errorf("ID = (%q, %v), want (sess-1, true)", id, ok)
	}

	w = httptest.NewRecorder()
	ClearCookie(w)
	if got := w.Result().Cookies()[0]; got.MaxAge >= 0 {
		t.Errorf("cleared cookie MaxAge = %d, want negative", got.MaxAge)
	}
}
