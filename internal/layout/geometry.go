// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package layout

import "math"

// Rect is a text-area rectangle in canvas pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ClampToBounds constrains a rectangle so it lies fully inside the canvas.
// Width and height are capped to the canvas size (and floored at zero),
// then x and y are clamped into [0, canvas - size]. All four outputs are
// whole pixels. The size is rounded before the position is clamped, so the
// rounded rectangle still fits and a second pass is a no-op.
func ClampToBounds(x, y, width, height float64, canvas Canvas) Rect {
	w := math.Round(clamp(width, 0, canvas.Width))
	h := math.Round(clamp(height, 0, canvas.Height))
	return Rect{
		X:      math.Round(clamp(x, 0, canvas.Width-w)),
		Y:      math.Round(clamp(y, 0, canvas.Height-h)),
		Width:  w,
		Height: h,
	}
}

// InBounds reports whether the rectangle lies fully inside the canvas.
func (r Rect) InBounds(canvas Canvas) bool {
	return r.X >= 0 && r.Y >= 0 && r.X+r.Width <= canvas.Width && r.Y+r.Height <= canvas.Height
}

// Rect returns the geometry of a text area.
func (a TextArea) Rect() Rect {
	return Rect{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		v = 0
	}
	if hi < lo {
		hi = lo
	}
	return math.Max(lo, math.Min(v, hi))
}
