// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"cardforge/internal/layout"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestPreview_SmallImageEmbedded(t *testing.T) {
	data := encodePNG(t, 64, 32)
	url, err := Preview(data, 100)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	want := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
	if url != want {
		t.Errorf("small image should be embedded unchanged")
	}
}

func TestPreview_LargeImageDownscaled(t *testing.T) {
	data := encodePNG(t, 400, 200)
	url, err := Preview(data, 100)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}

	const prefix = "data:image/jpeg;base64,"
	if !strings.HasPrefix(url, prefix) {
		t.Fatalf("url = %.40s..., want jpeg data URL", url)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, prefix))
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("preview size = %dx%d, want 100x50", b.Dx(), b.Dy())
	}
}

func TestPreview_RejectsGarbage(t *testing.T) {
	if _, err := Preview([]byte("not an image"), 100); err == nil {
		t.Error("expected an error, got none")
	}
}

func TestInspect(t *testing.T) {
	f, err := Inspect(encodePNG(t, 10, 10), "bg.png")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if f.ContentType != "image/png" || f.Name != "bg.png" {
		t.Errorf("file = %+v", f)
	}

	_, err = Inspect([]byte("%PDF-1.7\n"), "doc.pdf")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("err = %v, want ErrUnsupportedType", err)
	}
}

func TestSuggestOrientation(t *testing.T) {
	tests := []struct {
		w, h int
		want layout.Orientation
	}{
		{1000, 1000, layout.OrientationSquare},
		{800, 1000, layout.OrientationPortrait},
		{1920, 1080, layout.OrientationLandscape},
		{1100, 1000, layout.OrientationSquare},
		{0, 10, layout.OrientationSquare},
	}
	for _, tt := range tests {
		if got := SuggestOrientation(tt.w, tt.h); got != tt.want {
			t.Errorf("SuggestOrientation(%d, %d) = %s, want %s", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestExtensionFromType(t *testing.T) {
	for ct, want := range map[string]string{"image/png": ".png", "image/jpeg": ".jpg", "image/webp": ".webp", "text/plain": ""} {
		if got := ExtensionFromType(ct); got != want {
			t.Errorf("ExtensionFromType(%q) = %q, want %q", ct, got, want)
		}
	}
}
