// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"cardforge/internal/fonts"
)

// FontCatalog lists fonts for the editor's font picker.
type FontCatalog interface {
	Fonts(ctx context.Context) ([]fonts.Font, error)
}

// Fonts serves the grouped font catalog.
type Fonts struct {
	catalog FontCatalog
}

// NewFonts creates the fonts handler group.
func NewFonts(catalog FontCatalog) *Fonts {
	return &Fonts{catalog: catalog}
}

// List returns fonts grouped by category in picker order.
func (h *Fonts) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.Fonts(r.Context())
	if err != nil {
		slog.Error("font catalog unavailable", "error", err)
		writeError(w, "Font catalog is unavailable.", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": fonts.GroupByCategory(list)})
}

// Refresh discards the cached catalog so the next List refetches it.
func (h *Fonts) Refresh(w http.ResponseWriter, r *http.Request) {
	rf, ok := h.catalog.(interface{ Refresh(context.Context) })
	if !ok {
		writeError(w, "Font catalog cannot be refreshed.", http.StatusNotImplemented)
		return
	}
	rf.Refresh(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Stylesheet returns the css2 URL for ?family=.
func (h *Fonts) Stylesheet(w http.ResponseWriter, r *http.Request) {
	family := strings.TrimSpace(r.URL.Query().Get("family"))
	if family == "" {
		writeError(w, "family is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"family": family, "url": fonts.StylesheetURL(family)})
}
