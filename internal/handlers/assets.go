// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"cardforge/internal/assets"
	"cardforge/internal/imaging"
)

// defaultPageSize is the asset list page size when ?limit is absent.
const defaultPageSize = 50

// Assets manages uploaded template backgrounds.
type Assets struct {
	svc *assets.Service
}

// NewAssets creates the asset handler group. svc may be nil when object
// storage is not configured; every endpoint then answers 503.
func NewAssets(svc *assets.Service) *Assets {
	return &Assets{svc: svc}
}

func (h *Assets) available(w http.ResponseWriter) bool {
	if h.svc == nil {
		writeError(w, "Object storage is not configured.", http.StatusServiceUnavailable)
		return false
	}
	return true
}

// Upload stores a multipart "file" and returns {assetId, imageUrl}.
func (h *Assets) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	data, header, err := parseUpload(w, r, "file")
	if err != nil {
		writeUploadError(w, err)
		return
	}
	file, err := imaging.Inspect(data, header.Filename)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedType) {
			writeError(w, "Only PNG, JPEG and WebP images are accepted.", http.StatusUnsupportedMediaType)
			return
		}
		writeError(w, "Could not read image: "+err.Error(), http.StatusBadRequest)
		return
	}

	ref, err := h.svc.UploadAsset(r.Context(), file)
	if err != nil {
		slog.Error("asset upload failed", "filename", header.Filename, "error", err)
		writeError(w, "Failed to store file.", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"assetId": ref.AssetID, "imageUrl": ref.URL})
}

// List returns a page of assets, newest first (?limit=&offset=).
func (h *Assets) List(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	limit := queryInt(r, "limit", defaultPageSize)
	if limit < 1 || limit > 200 {
		limit = defaultPageSize
	}
	offset := max(queryInt(r, "offset", 0), 0)

	items, total, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		slog.Error("asset list failed", "error", err)
		writeError(w, "Failed to list assets.", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": total, "limit": limit, "offset": offset})
}

// Get returns one asset.
func (h *Assets) Get(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	id, ok := assetID(w, r)
	if !ok {
		return
	}

	v, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Delete removes the asset row and its stored object.
func (h *Assets) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	id, ok := assetID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeLookupError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Assets) writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, assets.ErrNotFound) {
		writeError(w, "Asset not found.", http.StatusNotFound)
		return
	}
	slog.Error("asset lookup failed", "error", err)
	writeError(w, "Internal Server Error", http.StatusInternalServerError)
}

func assetID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "Invalid asset ID.", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return v
}
