// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the cardforge JSON API: the template editor,
// background assets, the font catalog and greeting generation.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
)

const (
	// maxUploadSize is the maximum accepted background or CSV upload (25 MB).
	maxUploadSize = 25 << 20

	// maxJSONBody caps JSON request bodies.
	maxJSONBody = 1 << 20
)

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError writes {"error": msg}.
func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a size-limited JSON body into v. Unknown fields are
// rejected so typos in command payloads surface as 400s.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// errTooLarge marks an upload over maxUploadSize.
var errTooLarge = errors.New("file too large")

// parseUpload parses a multipart form and returns the named file.
func parseUpload(w http.ResponseWriter, r *http.Request, field string) ([]byte, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, nil, errTooLarge
		}
		return nil, nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, fmt.Errorf("no %s provided", field)
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		return nil, nil, errTooLarge
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, fmt.Errorf("read upload: %w", err)
	}
	return data, header, nil
}

// writeUploadError maps parseUpload failures to responses.
func writeUploadError(w http.ResponseWriter, err error) {
	if errors.Is(err, errTooLarge) {
		writeError(w, "File too large. Maximum size is 25 MB.", http.StatusRequestEntityTooLarge)
		return
	}
	writeError(w, err.Error(), http.StatusBadRequest)
}
