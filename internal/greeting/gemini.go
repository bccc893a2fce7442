// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package greeting

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cardforge/internal/imaging"
)

// GeminiConfig holds the credentials for the Gemini image generator.
type GeminiConfig struct {
	APIKey     string
	ModelImage string
	BaseURL    string
}

// geminiGenerator edits a template background with the Gemini REST API
// (POST /v1beta/models/{model}:generateContent) and returns the result as a
// data URL.
type geminiGenerator struct {
	config GeminiConfig
	client *http.Client
}

// NewGemini returns the Gemini image-editing generator. It returns an error
// when no API key or model is configured.
func NewGemini(cfg GeminiConfig) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: GEMINI_API_KEY is not set")
	}
	if cfg.ModelImage == "" {
		return nil, errors.New("gemini: image generation requires GEMINI_MODEL_IMAGE to be set")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &geminiGenerator{
		config: cfg,
		client: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

func (g *geminiGenerator) Name() string { return "gemini" }

func (g *geminiGenerator) Generate(ctx context.Context, req Request) (Result, error) {
	if req.BaseImageURL == "" {
		return Result{}, errors.New("gemini: a base image is required")
	}
	base, mimeType, err := g.fetchImage(ctx, req.BaseImageURL)
	if err != nil {
		return Result{}, err
	}

	body := geminiEditRequest{
		Contents: []geminiEditContent{{
			Parts: []geminiEditPart{
				{Text: Prompt(req)},
				{InlineData: &geminiInlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(base)}},
			},
		}},
		GenerationConfig: geminiImageConfig{ResponseModalities: []string{"IMAGE", "TEXT"}},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return Result{}, fmt.Errorf("gemini marshal: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.config.BaseURL, g.config.ModelImage)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("gemini request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.config.APIKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("gemini http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{}, fmt.Errorf("gemini read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, geminiErrorMessage(respBody))
	}

	var result geminiEditResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return Result{}, fmt.Errorf("gemini unmarshal: %w", err)
	}
	if len(result.Candidates) == 0 {
		return Result{}, errors.New("gemini: no candidates returned")
	}

	for _, part := range result.Candidates[0].Content.Parts {
		inline := part.InlineData
		if inline == nil {
			inline = part.InlineDataSnake
		}
		if inline == nil || inline.Data == "" {
			continue
		}
		img, err := base64.StdEncoding.DecodeString(inline.Data)
		if err != nil {
			return Result{}, fmt.Errorf("gemini decode base64: %w", err)
		}
		ct := inline.MimeType
		if ct == "" {
			ct = inline.MimeTypeSnake
		}
		if ct == "" {
			ct = "image/png"
		}
		w, h, _ := imaging.Dimensions(img)
		return Result{
			TemplateID: req.TemplateID,
			Image:      Image{Width: w, Height: h, URL: imaging.DataURL(ct, img)},
		}, nil
	}
	return Result{}, errors.New("gemini: no image data in response")
}

// fetchImage resolves a data: URL or downloads an http(s) URL.
func (g *geminiGenerator) fetchImage(ctx context.Context, src string) ([]byte, string, error) {
	if rest, ok := strings.CutPrefix(src, "data:"); ok {
		meta, data, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(meta, ";base64") {
			return nil, "", errors.New("gemini: base image data URL must be base64 encoded")
		}
		raw, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, "", fmt.Errorf("gemini: base image: %w", err)
		}
		return raw, orDefault(strings.TrimSuffix(meta, ";base64"), "image/jpeg"), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, "", fmt.Errorf("gemini: base image request: %w", err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("gemini: base image fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("gemini: base image fetch: status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, "", fmt.Errorf("gemini: base image read: %w", err)
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		ct = imaging.DetectType(raw, src)
	}
	return raw, ct, nil
}

// geminiErrorMessage extracts error.message from an API error body.
func geminiErrorMessage(body []byte) string {
	var e struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return strings.TrimSpace(string(body))
}

// --- Gemini API types ---

type geminiInlineData struct {
	MimeType      string `json:"mimeType,omitempty"`
	MimeTypeSnake string `json:"mime_type,omitempty"`
	Data          string `json:"data"`
}

type geminiEditPart struct {
	Text            string            `json:"text,omitempty"`
	InlineData      *geminiInlineData `json:"inlineData,omitempty"`
	InlineDataSnake *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiEditContent struct {
	Parts []geminiEditPart `json:"parts"`
}

type geminiImageConfig struct {
	ResponseModalities []string `json:"responseModalities"`
}

type geminiEditRequest struct {
	Contents         []geminiEditContent `json:"contents"`
	GenerationConfig geminiImageConfig   `json:"generationConfig"`
}

type geminiEditCandidate struct {
	Content geminiEditContent `json:"content"`
}

type geminiEditResponse struct {
	Candidates []geminiEditCandidate `json:"candidates"`
}
