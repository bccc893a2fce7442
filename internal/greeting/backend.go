// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package greeting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxResponseBytes caps how much of a generator response is read.
const maxResponseBytes = 32 << 20

// backendGenerator calls an external greeting service
// (POST {base}/api/greetings/single).
type backendGenerator struct {
	baseURL string
	client  *http.Client
}

// NewBackend returns a generator backed by the greeting service at baseURL.
func NewBackend(baseURL string) Generator {
	return &backendGenerator{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (b *backendGenerator) Name() string { return "backend" }

func (b *backendGenerator) Generate(ctx context.Context, req Request) (Result, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return Result{}, fmt.Errorf("backend marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/api/greetings/single", bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("backend request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("backend http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{}, fmt.Errorf("backend read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return Result{}, fmt.Errorf("backend API error (status %d): %s", resp.StatusCode, msg)
	}

	res, err := parseBackendResult(body)
	if err != nil {
		return Result{}, err
	}
	if res.TemplateID == "" {
		res.TemplateID = req.TemplateID
	}
	return res, nil
}

// parseBackendResult accepts the response shapes seen from greeting
// services: a GenerationResponse envelope with results[], a bare result
// object, camelCase or snake_case keys, and an image given either as a URL
// string or as an {url,width,height} object.
func parseBackendResult(body []byte) (Result, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return Result{}, fmt.Errorf("backend unmarshal: %w", err)
	}

	if status, _ := raw["status"].(string); strings.EqualFold(status, StatusError) {
		return Result{}, errors.New("backend reported an error status")
	}

	if list, ok := raw["results"].([]any); ok {
		if len(list) == 0 {
			return Result{}, errors.New("backend returned no results")
		}
		first, ok := list[0].(map[string]any)
		if !ok {
			return Result{}, errors.New("backend result has an unexpected shape")
		}
		raw = first
	}

	res := Result{
		Row:        intField(raw, "row"),
		TemplateID: stringField(raw, "templateId", "template_id"),
	}

	switch img := firstOf(raw, "image", "imageUrl", "image_url", "url").(type) {
	case string:
		res.Image.URL = img
	case map[string]any:
		res.Image.URL = stringField(img, "url", "src", "imageUrl", "image_url")
		res.Image.Width = intField(img, "width")
		res.Image.Height = intField(img, "height")
	}
	if res.Image.Width == 0 {
		res.Image.Width = intField(raw, "width")
	}
	if res.Image.Height == 0 {
		res.Image.Height = intField(raw, "height")
	}

	if res.Image.URL == "" {
		return Result{}, errors.New("backend response has no image url")
	}
	return res, nil
}

func firstOf(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case string:
		var n int
		fmt.Sscanf(v, "%d", &n)
		return n
	}
	return 0
}
