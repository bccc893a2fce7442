// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"cardforge/internal/layout"
	"cardforge/internal/metrics"
)

// idLength is the byte length of a random session id (16 bytes = 32 hex chars).
const idLength = 16

// Manager loads, edits and saves editor sessions. Updates to the same
// session id are serialised inside this process; across processes the last
// save wins.
type Manager struct {
	store   Store
	metrics *metrics.Metrics

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewManager creates a manager over store. m may be nil.
func NewManager(store Store, m *metrics.Metrics) *Manager {
	return &Manager{
		store:   store,
		metrics: m,
		locks:   make(map[string]*sessionLock),
	}
}

// Create starts a new session holding a fresh document.
func (m *Manager) Create(ctx context.Context) (string, Snapshot, error) {
	id, err := NewSessionID()
	if err != nil {
		return "", Snapshot{}, fmt.Errorf("editor create: %w", err)
	}

	snap := NewController().Snapshot()
	if err := m.store.Save(ctx, id, &snap); err != nil {
		return "", Snapshot{}, fmt.Errorf("editor create: %w", err)
	}

	m.metrics.SessionOpened()
	slog.Debug("editor session created", "session", shortID(id))
	return id, snap, nil
}

// Get returns the current snapshot of a session.
func (m *Manager) Get(ctx context.Context, id string) (Snapshot, error) {
	snap, err := m.store.Load(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	return *snap, nil
}

// Update loads the session, runs fn against a controller holding it and
// saves the result. If fn returns an error nothing is saved. Upload bytes
// never travel with the snapshot: a new upload is written once to the
// store's file slot and the returned snapshot carries only the reference.
func (m *Manager) Update(ctx context.Context, id string, fn func(*Controller) error) (Snapshot, error) {
	unlock := m.lock(id)
	defer unlock()

	snap, err := m.store.Load(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}

	c := Restore(*snap)
	c.onCommand = m.metrics.RecordCommand
	if err := fn(c); err != nil {
		return Snapshot{}, err
	}

	next := c.Snapshot()
	if data := detachFile(&next); data != nil {
		if err := m.store.SaveFile(ctx, id, data); err != nil {
			return Snapshot{}, fmt.Errorf("editor save file: %w", err)
		}
	}
	if err := m.store.Save(ctx, id, &next); err != nil {
		return Snapshot{}, fmt.Errorf("editor save: %w", err)
	}
	return next, nil
}

// Document returns the session document with the background bytes attached,
// ready for export. If the bytes have expired the background file reference
// is dropped so validation reports the missing background.
func (m *Manager) Document(ctx context.Context, id string) (layout.Document, error) {
	snap, err := m.store.Load(ctx, id)
	if err != nil {
		return layout.Document{}, err
	}

	d := snap.Document
	bg := d.BackgroundImage
	if bg == nil || bg.File == nil || len(bg.File.Data) > 0 {
		return d, nil
	}

	data, err := m.store.LoadFile(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		slog.Warn("editor upload expired", "session", shortID(id))
		bg.File = nil
	case err != nil:
		return layout.Document{}, fmt.Errorf("editor load file: %w", err)
	default:
		bg.File.Data = data
	}
	return d, nil
}

// detachFile strips upload bytes from snap and returns them, or nil when
// the snapshot carries none. A parked upload is newer than an applied
// background, so its bytes win.
func detachFile(snap *Snapshot) []byte {
	var data []byte
	if bg := snap.Document.BackgroundImage; bg != nil && bg.File != nil && len(bg.File.Data) > 0 {
		data = bg.File.Data
		bg.File.Data = nil
	}
	if p := snap.Flow.Pending; p != nil && p.File != nil && len(p.File.Data) > 0 {
		data = p.File.Data
		p.File.Data = nil
	}
	return data
}

// Delete ends a session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	unlock := m.lock(id)
	defer unlock()

	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("editor delete: %w", err)
	}
	m.metrics.SessionClosed()
	return nil
}

// lock acquires the per-session mutex and returns its release func.
func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

// NewSessionID returns a cryptographically random session identifier.
func NewSessionID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
