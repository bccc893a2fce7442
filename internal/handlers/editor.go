// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"cardforge/internal/editor"
	"cardforge/internal/export"
	"cardforge/internal/fonts"
	"cardforge/internal/imaging"
	"cardforge/internal/layout"
	"cardforge/internal/session"
)

// Editor serves the template editor for the session named by the cf_editor
// cookie.
type Editor struct {
	manager  *editor.Manager
	exporter *export.Exporter
	fonts    *fonts.Cache
	ttl      time.Duration
	secure   bool
}

// NewEditor creates the editor handler group. exporter may be nil when
// object storage is not configured; export then answers 503.
func NewEditor(manager *editor.Manager, exporter *export.Exporter, fontCache *fonts.Cache, ttl time.Duration, secure bool) *Editor {
	if fontCache == nil {
		fontCache = fonts.NewCache()
	}
	return &Editor{
		manager:  manager,
		exporter: exporter,
		fonts:    fontCache,
		ttl:      ttl,
		secure:   secure,
	}
}

// stateResponse is what every editor endpoint returns.
type stateResponse struct {
	Document             layout.Document          `json:"document"`
	Flow                 flowView                 `json:"flow"`
	Errors               []layout.ValidationError `json:"errors"`
	AvailableFields      []layout.Field           `json:"availableFields"`
	FontStylesheets      []string                 `json:"fontStylesheets"`
	SuggestedOrientation layout.Orientation       `json:"suggestedOrientation,omitempty"`
}

type flowView struct {
	Stage   editor.Stage `json:"stage"`
	Pending *pendingView `json:"pending,omitempty"`
}

type pendingView struct {
	Filename    string `json:"filename"`
	PreviewData string `json:"previewData"`
}

// state builds the response for snap. Raw file bytes never leave the server.
func (h *Editor) state(snap editor.Snapshot) stateResponse {
	doc := snap.Document
	if doc.BackgroundImage != nil {
		bg := *doc.BackgroundImage
		bg.File = nil
		doc.BackgroundImage = &bg
	}

	resp := stateResponse{
		Document:        doc,
		Flow:            flowView{Stage: snap.Flow.Stage},
		Errors:          layout.Validate(snap.Document),
		AvailableFields: layout.AvailableFields(snap.Document),
		FontStylesheets: []string{},
	}
	if resp.Errors == nil {
		resp.Errors = []layout.ValidationError{}
	}
	if p := snap.Flow.Pending; p != nil {
		resp.Flow.Pending = &pendingView{Filename: p.Filename, PreviewData: p.PreviewData}
	}
	for _, family := range doc.FontFamilies() {
		url, _ := h.fonts.Load(family)
		resp.FontStylesheets = append(resp.FontStylesheets, url)
	}
	return resp
}

// sessionID returns the caller's editor session, answering 404 when there is
// none.
func (h *Editor) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := session.ID(r)
	if !ok {
		writeError(w, "No editor session. Start one with POST /api/editor/session.", http.StatusNotFound)
		return "", false
	}
	return id, true
}

// writeSessionError maps manager errors to responses.
func (h *Editor) writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, editor.ErrNotFound) {
		session.ClearCookie(w)
		writeError(w, "Editor session expired. Start a new one.", http.StatusNotFound)
		return
	}
	slog.Error("editor session", "error", err)
	writeError(w, "Internal Server Error", http.StatusInternalServerError)
}

// update runs fn against the caller's session and writes the new state.
func (h *Editor) update(w http.ResponseWriter, r *http.Request, fn func(*editor.Controller) error) (editor.Snapshot, bool) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return editor.Snapshot{}, false
	}
	snap, err := h.manager.Update(r.Context(), id, fn)
	if err != nil {
		h.writeSessionError(w, err)
		return editor.Snapshot{}, false
	}
	return snap, true
}

// CreateSession starts a fresh document, replacing any session the caller
// already had.
func (h *Editor) CreateSession(w http.ResponseWriter, r *http.Request) {
	if old, ok := session.ID(r); ok {
		if err := h.manager.Delete(r.Context(), old); err != nil {
			slog.Warn("drop previous editor session", "error", err)
		}
	}

	id, snap, err := h.manager.Create(r.Context())
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	session.SetCookie(w, id, h.ttl, h.secure)
	writeJSON(w, http.StatusCreated, h.state(snap))
}

// DeleteSession ends the caller's session.
func (h *Editor) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	if err := h.manager.Delete(r.Context(), id); err != nil {
		h.writeSessionError(w, err)
		return
	}
	session.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// State returns the current document, flow and validation results.
func (h *Editor) State(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	snap, err := h.manager.Get(r.Context(), id)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.state(snap))
}

type commandRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Command applies one reducer command, e.g.
// {"type":"MOVE_TEXT_AREA","payload":{"id":"message","x":40,"y":60}}.
func (h *Editor) Command(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	cmd, err := layout.DecodeCommand(req.Type, req.Payload)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap, ok := h.update(w, r, func(c *editor.Controller) error {
		c.Dispatch(cmd)
		return nil
	})
	if ok {
		writeJSON(w, http.StatusOK, h.state(snap))
	}
}

type orientationRequest struct {
	Orientation string `json:"orientation"`
}

// Orientation picks the canvas orientation. A background parked while the
// session awaited an orientation is applied with it.
func (h *Editor) Orientation(w http.ResponseWriter, r *http.Request) {
	var req orientationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	o, err := layout.ParseOrientation(req.Orientation)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap, ok := h.update(w, r, func(c *editor.Controller) error {
		c.ChooseOrientation(o)
		return nil
	})
	if ok {
		writeJSON(w, http.StatusOK, h.state(snap))
	}
}

// Background accepts a multipart "file" upload. The file is fully read and
// previewed before the controller sees it. Without an orientation the
// upload is parked and the response suggests one from the image shape.
func (h *Editor) Background(w http.ResponseWriter, r *http.Request) {
	data, header, err := parseUpload(w, r, "file")
	if err != nil {
		writeUploadError(w, err)
		return
	}

	file, err := imaging.Inspect(data, header.Filename)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedType) {
			writeError(w, "Background must be a PNG, JPEG or WebP image.", http.StatusUnsupportedMediaType)
			return
		}
		writeError(w, "Could not read image: "+err.Error(), http.StatusBadRequest)
		return
	}
	preview, err := imaging.Preview(data, imaging.DefaultPreviewWidth)
	if err != nil {
		writeError(w, "Could not read image: "+err.Error(), http.StatusBadRequest)
		return
	}

	snap, ok := h.update(w, r, func(c *editor.Controller) error {
		c.ProvideBackground(editor.Upload{File: file, Filename: header.Filename, PreviewData: preview})
		return nil
	})
	if !ok {
		return
	}

	resp := h.state(snap)
	if snap.Flow.Pending != nil {
		if width, height, err := imaging.Dimensions(data); err == nil {
			resp.SuggestedOrientation = imaging.SuggestOrientation(width, height)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// CancelBackground drops a parked upload.
func (h *Editor) CancelBackground(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.update(w, r, func(c *editor.Controller) error {
		c.CancelPending()
		return nil
	})
	if ok {
		writeJSON(w, http.StatusOK, h.state(snap))
	}
}

// Validate reports every check the document currently fails.
func (h *Editor) Validate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	snap, err := h.manager.Get(r.Context(), id)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	errs := layout.Validate(snap.Document)
	if errs == nil {
		errs = []layout.ValidationError{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": len(errs) == 0, "errors": errs})
}

// Export validates the document, uploads its background and returns the
// template record as JSON or YAML (?format=yaml). The session is unchanged.
func (h *Editor) Export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if h.exporter == nil {
		writeError(w, "Object storage is not configured.", http.StatusServiceUnavailable)
		return
	}

	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	doc, err := h.manager.Document(r.Context(), id)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}

	record, err := h.exporter.Export(r.Context(), doc)
	if err != nil {
		var invalid *export.InvalidError
		switch {
		case errors.As(err, &invalid):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": invalid.Errors})
		case errors.Is(err, export.ErrUpload):
			writeError(w, "Failed to upload background image.", http.StatusBadGateway)
		default:
			slog.Error("export failed", "error", err)
			writeError(w, "Export failed.", http.StatusInternalServerError)
		}
		return
	}

	body, err := export.Encode(record, format)
	if err != nil {
		slog.Error("encode export", "error", err)
		writeError(w, "Export failed.", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
