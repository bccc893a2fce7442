// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging reads uploaded background images. It sniffs their type,
// guards against decompression bombs and builds the data-URL previews the
// editor canvas draws.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"math"
	"net/http"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"cardforge/internal/layout"
)

const (
	// DefaultPreviewWidth is the widest preview embedded in editor state.
	DefaultPreviewWidth = 1200

	// previewQuality is the JPEG quality for downscaled previews.
	previewQuality = 82

	// maxImagePixels caps the number of pixels to prevent memory bombs.
	// 10000x10000 = 100 million pixels, ~400 MB decoded in RGBA.
	maxImagePixels = 100_000_000
)

// ErrUnsupportedType is returned for files that are not an allowed background.
var ErrUnsupportedType = errors.New("unsupported image type")

// AllowedBackground lists the MIME types accepted as card backgrounds.
var AllowedBackground = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

// DetectType sniffs the MIME type of data. Browsers sometimes send WebP as
// application/octet-stream, so the filename extension breaks ties.
func DetectType(data []byte, filename string) string {
	n := min(len(data), 512)
	ct := http.DetectContentType(data[:n])
	if ct == "application/octet-stream" && strings.EqualFold(filepath.Ext(filename), ".webp") {
		return "image/webp"
	}
	return ct
}

// ExtensionFromType returns a file extension for known MIME types.
func ExtensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}

// Inspect checks that data is an allowed background and returns it as a
// layout.File with the sniffed content type.
func Inspect(data []byte, filename string) (*layout.File, error) {
	ct := DetectType(data, filename)
	if !AllowedBackground[ct] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, ct)
	}
	if _, _, err := Dimensions(data); err != nil {
		return nil, err
	}
	return &layout.File{Name: filename, ContentType: ct, Data: data}, nil
}

// Dimensions decodes only the image header.
func Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("decode config: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return 0, 0, fmt.Errorf("image too large: %dx%d exceeds %d pixels", cfg.Width, cfg.Height, maxImagePixels)
	}
	return cfg.Width, cfg.Height, nil
}

// Preview returns a data URL for data. Images wider than maxWidth are
// scaled down and re-encoded as JPEG; others are embedded unchanged.
func Preview(data []byte, maxWidth int) (string, error) {
	if maxWidth <= 0 {
		maxWidth = DefaultPreviewWidth
	}

	width, _, err := Dimensions(data)
	if err != nil {
		return "", err
	}
	if width <= maxWidth {
		return DataURL(DetectType(data, ""), data), nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	ratio := float64(maxWidth) / float64(bounds.Dx())
	newHeight := max(1, int(float64(bounds.Dy())*ratio))

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: previewQuality}); err != nil {
		return "", fmt.Errorf("encode preview: %w", err)
	}
	return DataURL("image/jpeg", buf.Bytes()), nil
}

// DataURL encodes data as a base64 data URL.
func DataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// SuggestOrientation picks the orientation whose canvas aspect ratio is
// closest to width x height. The editor preselects it in the picker.
func SuggestOrientation(width, height int) layout.Orientation {
	if width <= 0 || height <= 0 {
		return layout.OrientationSquare
	}
	ratio := math.Log(float64(width) / float64(height))

	best := layout.OrientationSquare
	bestDist := math.Inf(1)
	for _, o := range layout.Orientations {
		c := layout.CanvasFor(o)
		if d := math.Abs(ratio - math.Log(c.Width/c.Height)); d < bestDist {
			best, bestDist = o, d
		}
	}
	return best
}
