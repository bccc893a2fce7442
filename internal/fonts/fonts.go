// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package fonts serves the Google Fonts catalog offered in the editor's font
// picker and tracks which families have had their stylesheet requested.
package fonts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultAPIURL is the Google Fonts developer API endpoint.
	DefaultAPIURL = "https://www.googleapis.com/webfonts/v1/webfonts"

	// stylesheetBase is the css2 endpoint used to load a family.
	stylesheetBase = "https://fonts.googleapis.com/css2"

	sortOrder = "popularity"
)

// Font is one entry of the webfont list.
type Font struct {
	Family   string   `json:"family"`
	Variants []string `json:"variants"`
	Subsets  []string `json:"subsets"`
	Category string   `json:"category"`
}

// Group is the fonts of one category.
type Group struct {
	Category    string `json:"category"`
	DisplayName string `json:"displayName"`
	Fonts       []Font `json:"fonts"`
}

// Backing is an optional shared cache for the raw API payload.
type Backing interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte)
}

// Catalog fetches the webfont list once and memoises it. A failed fetch is
// not memoised, so the next call retries.
type Catalog struct {
	apiKey  string
	apiURL  string
	client  *http.Client
	backing Backing
	key     string

	mu    sync.Mutex
	fonts []Font
}

// NewCatalog creates a catalog for apiKey. backing may be nil; key names
// the payload in it.
func NewCatalog(apiKey, apiURL string, backing Backing, key string) *Catalog {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Catalog{
		apiKey:  apiKey,
		apiURL:  apiURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		backing: backing,
		key:     key,
	}
}

// Fonts returns the webfont list sorted by popularity.
func (c *Catalog) Fonts(ctx context.Context) ([]Font, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fonts != nil {
		return c.fonts, nil
	}

	if c.backing != nil {
		if payload, ok := c.backing.Get(ctx, c.key); ok {
			if fonts, err := decodeFonts(payload); err == nil {
				c.fonts = fonts
				return fonts, nil
			}
			slog.Warn("discarding unreadable cached font catalog")
		}
	}

	payload, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	fonts, err := decodeFonts(payload)
	if err != nil {
		return nil, err
	}
	if c.backing != nil {
		c.backing.Set(ctx, c.key, payload)
	}

	slog.Info("font catalog loaded", "fonts", len(fonts))
	c.fonts = fonts
	return fonts, nil
}

// Refresh drops the memoised list and the shared copy so the next Fonts
// call refetches from the API.
func (c *Catalog) Refresh(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fonts = nil
	c.invalidate(ctx)
}

// invalidate removes the shared payload when the backing supports it.
func (c *Catalog) invalidate(ctx context.Context) {
	if inv, ok := c.backing.(interface {
		Invalidate(ctx context.Context, key string)
	}); ok {
		inv.Invalidate(ctx, c.key)
	}
}

func (c *Catalog) fetch(ctx context.Context) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("fonts: GOOGLE_FONTS_API_KEY is not set")
	}

	q := url.Values{"key": {c.apiKey}, "sort": {sortOrder}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("fonts request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fonts http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fonts read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch fonts: %s", resp.Status)
	}
	return body, nil
}

func decodeFonts(payload []byte) ([]Font, error) {
	var list struct {
		Items []Font `json:"items"`
	}
	if err := json.Unmarshal(payload, &list); err != nil {
		return nil, fmt.Errorf("fonts unmarshal: %w", err)
	}
	if list.Items == nil {
		list.Items = []Font{}
	}
	return list.Items, nil
}

// categoryNames maps Google Fonts categories to picker labels.
var categoryNames = map[string]string{
	"serif":       "Serif",
	"sans-serif":  "Sans Serif",
	"display":     "Display",
	"handwriting": "Handwriting",
	"monospace":   "Monospace",
}

// categoryOrder is the picker order; unknown categories follow
// alphabetically.
var categoryOrder = []string{"sans-serif", "serif", "display", "handwriting", "monospace"}

// CategoryDisplayName returns the label for a category, or the category
// itself when unknown.
func CategoryDisplayName(category string) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return category
}

// GroupByCategory groups fonts by category, keeping their relative order.
// Fonts without a category land in "other".
func GroupByCategory(fonts []Font) []Group {
	byCat := make(map[string][]Font)
	for _, f := range fonts {
		cat := f.Category
		if cat == "" {
			cat = "other"
		}
		byCat[cat] = append(byCat[cat], f)
	}

	cats := make([]string, 0, len(byCat))
	for cat := range byCat {
		cats = append(cats, cat)
	}
	slices.SortFunc(cats, func(a, b string) int {
		ia, ib := rank(a), rank(b)
		if ia != ib {
			return ia - ib
		}
		return strings.Compare(a, b)
	})

	groups := make([]Group, 0, len(cats))
	for _, cat := range cats {
		groups = append(groups, Group{Category: cat, DisplayName: CategoryDisplayName(cat), Fonts: byCat[cat]})
	}
	return groups
}

func rank(cat string) int {
	if i := slices.Index(categoryOrder, cat); i >= 0 {
		return i
	}
	return len(categoryOrder)
}

// StylesheetURL returns the css2 URL that loads every weight of family.
func StylesheetURL(family string) string {
	return stylesheetBase + "?family=" + url.PathEscape(family) + ":wght@100;200;300;400;500;600;700;800;900&display=swap"
}

// Cache is the set of families whose stylesheet has been handed out.
type Cache struct {
	mu     sync.Mutex
	loaded map[string]struct{}
}

// NewCache returns an empty font cache.
func NewCache() *Cache {
	return &Cache{loaded: make(map[string]struct{})}
}

// Load marks family as loaded. It returns the stylesheet URL and whether the
// family was newly added.
func (c *Cache) Load(family string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, seen := c.loaded[family]
	c.loaded[family] = struct{}{}
	return StylesheetURL(family), !seen
}

// Loaded returns the loaded families, sorted.
func (c *Cache) Loaded() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, len(c.loaded))
	for f := range c.loaded {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}
