// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package export turns a validated template document into the canonical
// template record handed to downstream renderers.
package export

import (
	"fmt"
	"path"
	"strings"

	"cardforge/internal/layout"
)

// AssetRef identifies an uploaded background image.
type AssetRef struct {
	AssetID string `json:"assetId" yaml:"assetId" jsonschema:"minLength=1"`
	URL     string `json:"url" yaml:"url" jsonschema:"minLength=1"`
}

// Canvas is the record's pixel size.
type Canvas struct {
	Width  float64 `json:"width" yaml:"width" jsonschema:"minimum=1"`
	Height float64 `json:"height" yaml:"height" jsonschema:"minimum=1"`
}

// TextArea is one exported text region. Field order is part of the record
// contract.
type TextArea struct {
	ID          string  `json:"id" yaml:"id" jsonschema:"minLength=1"`
	X           float64 `json:"x" yaml:"x"`
	Y           float64 `json:"y" yaml:"y"`
	Width       float64 `json:"width" yaml:"width" jsonschema:"minimum=0"`
	Height      float64 `json:"height" yaml:"height" jsonschema:"minimum=0"`
	FontFamily  string  `json:"fontFamily" yaml:"fontFamily"`
	FontWeight  int     `json:"fontWeight" yaml:"fontWeight" jsonschema:"minimum=1,maximum=1000"`
	FontColor   string  `json:"fontColor" yaml:"fontColor"`
	MinFontSize float64 `json:"minFontSize" yaml:"minFontSize"`
	MaxFontSize float64 `json:"maxFontSize" yaml:"maxFontSize"`
	TextAlign   string  `json:"textAlign" yaml:"textAlign" jsonschema:"enum=left,enum=center,enum=right"`
	LineHeight  float64 `json:"lineHeight" yaml:"lineHeight"`
}

// Record is the exported template.
type Record struct {
	TemplateID      string     `json:"templateId" yaml:"templateId" jsonschema:"minLength=1"`
	Orientation     string     `json:"orientation" yaml:"orientation" jsonschema:"enum=square,enum=portrait,enum=landscape"`
	Canvas          Canvas     `json:"canvas" yaml:"canvas"`
	BackgroundImage AssetRef   `json:"backgroundImage" yaml:"backgroundImage"`
	TextAreas       []TextArea `json:"textAreas" yaml:"textAreas"`
}

// Assemble builds the record for d with the given background asset. It does
// not validate; callers run layout.Validate first.
func Assemble(d layout.Document, asset AssetRef) Record {
	r := Record{
		TemplateID:      d.TemplateID,
		Canvas:          Canvas{Width: d.Canvas.Width, Height: d.Canvas.Height},
		BackgroundImage: asset,
		TextAreas:       make([]TextArea, 0, len(d.TextAreas)),
	}
	if d.Orientation != nil {
		r.Orientation = string(*d.Orientation)
	}

	for _, a := range d.TextAreas {
		weight := a.FontWeight
		if weight == 0 {
			weight = layout.DefaultFontWeight
		}
		r.TextAreas = append(r.TextAreas, TextArea{
			ID:          a.ID,
			X:           a.X,
			Y:           a.Y,
			Width:       a.Width,
			Height:      a.Height,
			FontFamily:  a.FontFamily,
			FontWeight:  weight,
			FontColor:   strings.ToLower(a.FontColor),
			MinFontSize: a.MinFontSize,
			MaxFontSize: a.MaxFontSize,
			TextAlign:   string(a.TextAlign),
			LineHeight:  a.LineHeight,
		})
	}
	return r
}

// ToDocument rebuilds a document from a record so it can be re-validated.
// The background becomes a placeholder file named after the asset id.
func ToDocument(r Record) layout.Document {
	d := layout.New()
	d.TemplateID = r.TemplateID
	d.Canvas = layout.Canvas{Width: r.Canvas.Width, Height: r.Canvas.Height}
	if o, err := layout.ParseOrientation(r.Orientation); err == nil {
		d.Orientation = &o
	}
	if r.BackgroundImage.AssetID != "" && r.BackgroundImage.URL != "" {
		d.BackgroundImage = &layout.BackgroundImage{
			Filename:    path.Base(r.BackgroundImage.URL),
			PreviewData: r.BackgroundImage.URL,
			File:        &layout.File{Name: r.BackgroundImage.AssetID},
		}
	}
	for _, a := range r.TextAreas {
		d.TextAreas = append(d.TextAreas, layout.TextArea{
			ID:          a.ID,
			X:           a.X,
			Y:           a.Y,
			Width:       a.Width,
			Height:      a.Height,
			FontFamily:  a.FontFamily,
			FontWeight:  a.FontWeight,
			FontColor:   a.FontColor,
			MinFontSize: a.MinFontSize,
			MaxFontSize: a.MaxFontSize,
			TextAlign:   layout.TextAlign(a.TextAlign),
			LineHeight:  a.LineHeight,
		})
	}
	return d
}

// Verify re-runs the document checks against a record, and also reports a
// canvas that does not match its orientation.
func Verify(r Record) []layout.ValidationError {
	errs := layout.Validate(ToDocument(r))
	if o, err := layout.ParseOrientation(r.Orientation); err == nil {
		want := layout.CanvasFor(o)
		if want.Width != r.Canvas.Width || want.Height != r.Canvas.Height {
			errs = append(errs, layout.ValidationError{
				Field: "canvas",
				Message: fmt.Sprintf("canvas %vx%v does not match %s (%vx%v)",
					r.Canvas.Width, r.Canvas.Height, o, want.Width, want.Height),
			})
		}
	}
	return errs
}
