// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"cardforge/internal/greeting"
	"cardforge/internal/recipients"
)

// Greetings generates finished cards from templates and recipient data.
type Greetings struct {
	registry *greeting.Registry
}

// NewGreetings creates the greeting handler group.
func NewGreetings(registry *greeting.Registry) *Greetings {
	return &Greetings{registry: registry}
}

// Single generates one card from a JSON greeting.Request.
func (h *Greetings) Single(w http.ResponseWriter, r *http.Request) {
	var req greeting.Request
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.TemplateID = strings.TrimSpace(req.TemplateID)
	if req.TemplateID == "" {
		writeError(w, "templateId is required", http.StatusBadRequest)
		return
	}

	resp, err := greeting.Single(r.Context(), h.registry, req)
	if err != nil {
		h.writeGenerateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Bulk generates one card per row of a multipart recipients CSV ("File").
// Repeated "templateId" fields are rotated across rows that name no
// template; "baseImageUrl" is passed to generators that edit an image.
func (h *Greetings) Bulk(w http.ResponseWriter, r *http.Request) {
	data, _, err := parseUpload(w, r, "File")
	if err != nil {
		writeUploadError(w, err)
		return
	}

	rows, err := recipients.Parse(bytes.NewReader(data))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var templateIDs []string
	for _, id := range r.MultipartForm.Value["templateId"] {
		if id = strings.TrimSpace(id); id != "" {
			templateIDs = append(templateIDs, id)
		}
	}
	if len(templateIDs) == 0 {
		for _, row := range rows {
			if row.TemplateID == "" {
				writeError(w, "templateId is required for rows without a template", http.StatusBadRequest)
				return
			}
		}
	}
	baseImageURL := strings.TrimSpace(r.FormValue("baseImageUrl"))

	resp := greeting.GenerateBatch(r.Context(), h.registry, rows, templateIDs, baseImageURL)
	slog.Info("bulk greetings generated",
		"provider", h.registry.ActiveName(),
		"total", resp.Total,
		"generated", resp.Generated,
		"failed", len(resp.Errors),
	)

	status := http.StatusOK
	if resp.Status == greeting.StatusError {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, resp)
}

// Providers reports the active and available generators.
func (h *Greetings) Providers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"active":    h.registry.ActiveName(),
		"available": h.registry.Available(),
	})
}

type providerRequest struct {
	Name string `json:"name"`
}

// SetProvider switches the active generator.
func (h *Greetings) SetProvider(w http.ResponseWriter, r *http.Request) {
	var req providerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.registry.SetActive(req.Name); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	slog.Info("greeting provider switched", "provider", req.Name)
	h.Providers(w, r)
}

func (h *Greetings) writeGenerateError(w http.ResponseWriter, err error) {
	if errors.Is(err, greeting.ErrNoGenerator) {
		writeError(w, "No greeting generator is configured.", http.StatusServiceUnavailable)
		return
	}
	slog.Error("greeting generation failed", "provider", h.registry.ActiveName(), "error", err)
	writeError(w, "Greeting generation failed: "+err.Error(), http.StatusBadGateway)
}
