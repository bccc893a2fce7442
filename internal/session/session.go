// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session provides Valkey-backed editor sessions. Each browser holds
// a cookie naming its session; the editor snapshot behind it is stored as
// JSON in Valkey with automatic TTL expiry. Upload bytes live under a
// sibling key so per-command saves stay small.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"cardforge/internal/editor"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "cf_editor"

	// DefaultTTL is how long an idle session lives in Valkey.
	DefaultTTL = 24 * time.Hour

	// keyPrefix namespaces session keys in Valkey to avoid collisions.
	keyPrefix = "editor:"

	// fileSuffix names the sibling key holding the raw upload.
	fileSuffix = ":file"
)

// Store keeps editor snapshots in Valkey. It implements editor.Store.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

var _ editor.Store = (*Store)(nil)

// NewStore creates a session store backed by the given Valkey client. A zero
// ttl selects DefaultTTL.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl}
}

// Load fetches the snapshot of a session. Returns editor.ErrNotFound if the
// session expired or never existed.
func (s *Store) Load(ctx context.Context, id string) (*editor.Snapshot, error) {
	payload, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, editor.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var snap editor.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}
	return &snap, nil
}

// Save stores the snapshot and resets the TTL.
func (s *Store) Save(ctx context.Context, id string, snap *editor.Snapshot) error {
	if snap == nil {
		return errors.New("session save: snapshot is required")
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}

	// The upload expires together with the snapshot.
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, keyPrefix+id, payload, s.ttl)
	pipe.Expire(ctx, keyPrefix+id+fileSuffix, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	return nil
}

// SaveFile stores the raw upload of a session with the session TTL.
func (s *Store) SaveFile(ctx context.Context, id string, data []byte) error {
	if err := s.client.Set(ctx, keyPrefix+id+fileSuffix, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session store file: %w", err)
	}
	return nil
}

// LoadFile returns the raw upload of a session, or editor.ErrNotFound.
func (s *Store) LoadFile(ctx context.Context, id string) ([]byte, error) {
	data, err := s.client.Get(ctx, keyPrefix+id+fileSuffix).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, editor.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session get file: %w", err)
	}
	return data, nil
}

// Delete removes the session and its upload from Valkey.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id, keyPrefix+id+fileSuffix).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

// TTL returns the configured session lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// SetCookie points the browser at session id.
func SetCookie(w http.ResponseWriter, id string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

// ClearCookie expires the session cookie immediately.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// ID returns the session id carried by the request cookie, if any.
func ID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
