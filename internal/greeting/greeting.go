// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package greeting generates personalised greeting-card images. Each
// Generator renders one recipient onto a template; the Registry selects the
// active generator by name, and GenerateBatch walks a recipient list.
package greeting

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"cardforge/internal/metrics"
)

// Response statuses.
const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"
)

// Request describes one card to generate.
type Request struct {
	TemplateID    string `json:"templateId"`
	RecipientName string `json:"recipientName"`
	Occasion      string `json:"occasion"`
	Message       string `json:"message"`
	SenderName    string `json:"senderName"`
	Tone          string `json:"tone,omitempty"`

	// BaseImageURL points at the template background to draw on. Either an
	// http(s) URL or a data: URL. Only image-editing generators need it.
	BaseImageURL string `json:"baseImageUrl,omitempty"`
}

// Image is a generated card.
type Image struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	URL    string `json:"url"`
}

// Result is one generated card and the row it belongs to.
type Result struct {
	Row        int    `json:"row"`
	TemplateID string `json:"templateId"`
	Image      Image  `json:"image"`
}

// RowError records a row that failed to generate.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// Response is the outcome of a single or bulk generation.
type Response struct {
	Status    string     `json:"status"`
	Total     int        `json:"total"`
	Generated int        `json:"generated"`
	Results   []Result   `json:"results"`
	Errors    []RowError `json:"errors,omitempty"`
}

// Generator renders greeting cards.
type Generator interface {
	// Generate renders one card.
	Generate(ctx context.Context, req Request) (Result, error)

	// Name returns the generator identifier (e.g. "backend", "gemini").
	Name() string
}

// ErrNoGenerator is returned when the active name has no generator.
var ErrNoGenerator = errors.New("greeting: no generator configured")

// Registry holds the available generators and selects the active one. All
// methods are safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	generators map[string]Generator
	active     string
	metrics    *metrics.Metrics
}

// NewRegistry creates an empty registry. m may be nil.
func NewRegistry(active string, m *metrics.Metrics) *Registry {
	return &Registry{
		generators: make(map[string]Generator),
		active:     active,
		metrics:    m,
	}
}

// Register adds or replaces a generator under its name.
func (r *Registry) Register(g Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[g.Name()] = g
}

// Active returns the currently active generator.
func (r *Registry) Active() (Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.generators[r.active]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoGenerator, r.active)
	}
	return g, nil
}

// SetActive switches the active generator at runtime.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.generators[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNoGenerator, name)
	}
	r.active = name
	return nil
}

// ActiveName returns the name of the active generator.
func (r *Registry) ActiveName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Available returns the registered generator names, sorted.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Generate renders one card with the active generator.
func (r *Registry) Generate(ctx context.Context, req Request) (Result, error) {
	g, err := r.Active()
	if err != nil {
		return Result{}, err
	}

	started := time.Now()
	res, err := g.Generate(ctx, req)
	r.metrics.RecordGreeting(g.Name(), started, err)
	return res, err
}

// Name reports the active generator name so a Registry can itself be used
// as a Generator.
func (r *Registry) Name() string {
	return r.ActiveName()
}
