// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package layout holds the greeting-card template document: orientation,
// canvas geometry, background reference and the positioned text areas a
// renderer fills with recipient data. Documents are values; every edit goes
// through Reduce and produces a new Document.
package layout

import (
	"fmt"
	"slices"
)

// Orientation is one of the three fixed aspect-ratio classes of a card.
type Orientation string

const (
	OrientationSquare    Orientation = "square"
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// Orientations lists every orientation in the order the picker shows them.
var Orientations = []Orientation{OrientationSquare, OrientationPortrait, OrientationLandscape}

// ParseOrientation converts a wire value into an Orientation.
func ParseOrientation(s string) (Orientation, error) {
	o := Orientation(s)
	if !slices.Contains(Orientations, o) {
		return "", fmt.Errorf("unknown orientation %q", s)
	}
	return o, nil
}

// Canvas is the pixel size of the card.
type Canvas struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// canvasSizes is the orientation lookup table. Canvas is never set any other way.
var canvasSizes = map[Orientation]Canvas{
	OrientationSquare:    {Width: 1080, Height: 1080},
	OrientationPortrait:  {Width: 1080, Height: 1350},
	OrientationLandscape: {Width: 1200, Height: 675},
}

// DefaultCanvas is the canvas of a fresh document, before any orientation is picked.
var DefaultCanvas = canvasSizes[OrientationSquare]

// CanvasFor returns the canvas size for an orientation. Unknown values get
// the default canvas.
func CanvasFor(o Orientation) Canvas {
	if c, ok := canvasSizes[o]; ok {
		return c
	}
	return DefaultCanvas
}

// TextAlign is the horizontal alignment of text inside its area.
type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

// File is the raw uploaded background, kept until export hands it to the
// asset uploader. Name and ContentType are the reference; Data may be
// absent when the bytes are stored separately.
type File struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data,omitempty"`
}

// BackgroundImage references the uploaded background. PreviewData is a
// renderable handle (a data URL) for the editor canvas.
type BackgroundImage struct {
	Filename    string `json:"filename"`
	PreviewData string `json:"previewData"`
	File        *File  `json:"file,omitempty"`
}

// TextArea is a named, positioned and styled region of the card. Geometry is
// in canvas pixels, not display pixels.
type TextArea struct {
	ID          string    `json:"id"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	FontFamily  string    `json:"fontFamily"`
	FontWeight  int       `json:"fontWeight"`
	FontColor   string    `json:"fontColor"`
	MinFontSize float64   `json:"minFontSize"`
	MaxFontSize float64   `json:"maxFontSize"`
	TextAlign   TextAlign `json:"textAlign"`
	LineHeight  float64   `json:"lineHeight"`
}

// Document is the full editable state of one card template.
type Document struct {
	TemplateID         string           `json:"templateId"`
	Orientation        *Orientation     `json:"orientation"`
	Canvas             Canvas           `json:"canvas"`
	BackgroundImage    *BackgroundImage `json:"backgroundImage"`
	TextAreas          []TextArea       `json:"textAreas"`
	SelectedTextAreaID *string          `json:"selectedTextAreaId"`
}

// DefaultTemplateID is the identifier a fresh document starts with.
const DefaultTemplateID = "template_01"

// New returns the fixed initial document.
func New() Document {
	return Document{
		TemplateID: DefaultTemplateID,
		Canvas:     DefaultCanvas,
		TextAreas:  []TextArea{},
	}
}

// Clone returns a deep copy so callers can hold a snapshot that later
// edits cannot reach.
func (d Document) Clone() Document {
	out := d
	if d.Orientation != nil {
		o := *d.Orientation
		out.Orientation = &o
	}
	if d.BackgroundImage != nil {
		bg := *d.BackgroundImage
		if bg.File != nil {
			f := *bg.File
			f.Data = slices.Clone(f.Data)
			bg.File = &f
		}
		out.BackgroundImage = &bg
	}
	out.TextAreas = slices.Clone(d.TextAreas)
	if out.TextAreas == nil {
		out.TextAreas = []TextArea{}
	}
	if d.SelectedTextAreaID != nil {
		id := *d.SelectedTextAreaID
		out.SelectedTextAreaID = &id
	}
	return out
}

// TextArea returns the area with the given id.
func (d Document) TextArea(id string) (TextArea, bool) {
	i := d.indexOf(id)
	if i < 0 {
		return TextArea{}, false
	}
	return d.TextAreas[i], true
}

func (d Document) indexOf(id string) int {
	return slices.IndexFunc(d.TextAreas, func(a TextArea) bool { return a.ID == id })
}

// FontFamilies returns the distinct font families used by the document, in
// text-area order.
func (d Document) FontFamilies() []string {
	var families []string
	for _, a := range d.TextAreas {
		if a.FontFamily != "" && !slices.Contains(families, a.FontFamily) {
			families = append(families, a.FontFamily)
		}
	}
	return families
}
