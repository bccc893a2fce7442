// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// ErrNotFound is returned when no snapshot exists for a session id.
var ErrNotFound = errors.New("editor session not found")

// Store persists session snapshots between requests.
type Store interface {
	// Load returns the snapshot saved under id, or ErrNotFound.
	Load(ctx context.Context, id string) (*Snapshot, error)

	// Save stores the snapshot under id, replacing any previous one.
	Save(ctx context.Context, id string, s *Snapshot) error

	// Delete removes the snapshot and its upload bytes. Deleting a missing
	// id is not an error.
	Delete(ctx context.Context, id string) error

	// SaveFile stores the raw bytes of the session's current upload. They
	// are kept beside the snapshot and expire with it.
	SaveFile(ctx context.Context, id string, data []byte) error

	// LoadFile returns the bytes written by SaveFile, or ErrNotFound.
	LoadFile(ctx context.Context, id string) ([]byte, error)
}

// MemoryStore keeps snapshots in process memory. It is used in tests and
// when no Valkey is configured.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
	files     map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[string]Snapshot),
		files:     make(map[string][]byte),
	}
}

func (s *MemoryStore) Load(_ context.Context, id string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := Snapshot{Document: snap.Document.Clone(), Flow: snap.Flow.clone()}
	return &out, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, snap *Snapshot) error {
	if snap == nil {
		return errors.New("snapshot is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[id] = Snapshot{Document: snap.Document.Clone(), Flow: snap.Flow.clone()}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, id)
	delete(s.files, id)
	return nil
}

func (s *MemoryStore) SaveFile(_ context.Context, id string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[id] = slices.Clone(data)
	return nil
}

func (s *MemoryStore) LoadFile(_ context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.files[id]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(data), nil
}

// Len reports how many sessions are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}
