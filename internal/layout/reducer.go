// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package layout

import "math"

// Command is one edit applied to a Document by Reduce.
type Command interface {
	// Type returns the wire name of the command (e.g. "MOVE_TEXT_AREA").
	Type() string
}

// Wire names of the commands.
const (
	TypeSetTemplateID        = "SET_TEMPLATE_ID"
	TypeSetOrientation       = "SET_ORIENTATION"
	TypeSetBackgroundImage   = "SET_BACKGROUND_IMAGE"
	TypeClearBackgroundImage = "CLEAR_BACKGROUND_IMAGE"
	TypeAddTextArea          = "ADD_TEXT_AREA"
	TypeSelectTextArea       = "SELECT_TEXT_AREA"
	TypeUpdateTextArea       = "UPDATE_TEXT_AREA"
	TypeDeleteTextArea       = "DELETE_TEXT_AREA"
	TypeMoveTextArea         = "MOVE_TEXT_AREA"
	TypeResizeTextArea       = "RESIZE_TEXT_AREA"
	TypeReset                = "RESET_TEMPLATE"
)

// SetTemplateID replaces the template identifier verbatim.
type SetTemplateID struct{ ID string }

// SetOrientation picks the canvas class and clears text areas and the
// selection.
type SetOrientation struct{ Orientation Orientation }

// SetBackgroundImage replaces the background wholesale.
type SetBackgroundImage struct {
	File        *File
	Filename    string
	PreviewData string
}

// ClearBackgroundImage removes the background.
type ClearBackgroundImage struct{}

// AddTextArea appends a default area centred on the canvas and selects it.
// An existing ID makes it a no-op.
type AddTextArea struct{ ID string }

// SelectTextArea selects an area; a nil ID clears the selection.
type SelectTextArea struct{ ID *string }

// UpdateTextArea merges the non-nil patch fields into the named area.
type UpdateTextArea struct {
	ID    string
	Patch TextAreaPatch
}

// DeleteTextArea removes an area, clearing the selection if it pointed there.
type DeleteTextArea struct{ ID string }

// MoveTextArea repositions an area inside the canvas without resizing it.
type MoveTextArea struct {
	ID   string
	X, Y float64
}

// ResizeTextArea sets position and size, clamped to the canvas.
type ResizeTextArea struct {
	ID                  string
	X, Y, Width, Height float64
}

// Reset returns the initial document.
type Reset struct{}

func (SetTemplateID) Type() string        { return TypeSetTemplateID }
func (SetOrientation) Type() string       { return TypeSetOrientation }
func (SetBackgroundImage) Type() string   { return TypeSetBackgroundImage }
func (ClearBackgroundImage) Type() string { return TypeClearBackgroundImage }
func (AddTextArea) Type() string          { return TypeAddTextArea }
func (SelectTextArea) Type() string       { return TypeSelectTextArea }
func (UpdateTextArea) Type() string       { return TypeUpdateTextArea }
func (DeleteTextArea) Type() string       { return TypeDeleteTextArea }
func (MoveTextArea) Type() string         { return TypeMoveTextArea }
func (ResizeTextArea) Type() string       { return TypeResizeTextArea }
func (Reset) Type() string                { return TypeReset }

// TextAreaPatch carries the fields an UpdateTextArea command overwrites.
// Nil fields are left untouched. The id is not patchable.
type TextAreaPatch struct {
	X           *float64   `json:"x,omitempty"`
	Y           *float64   `json:"y,omitempty"`
	Width       *float64   `json:"width,omitempty"`
	Height      *float64   `json:"height,omitempty"`
	FontFamily  *string    `json:"fontFamily,omitempty"`
	FontWeight  *int       `json:"fontWeight,omitempty"`
	FontColor   *string    `json:"fontColor,omitempty"`
	MinFontSize *float64   `json:"minFontSize,omitempty"`
	MaxFontSize *float64   `json:"maxFontSize,omitempty"`
	TextAlign   *TextAlign `json:"textAlign,omitempty"`
	LineHeight  *float64   `json:"lineHeight,omitempty"`
}

// Apply merges the patch into a copy of the area.
func (p TextAreaPatch) Apply(a TextArea) TextArea {
	setIf(&a.X, p.X)
	setIf(&a.Y, p.Y)
	setIf(&a.Width, p.Width)
	setIf(&a.Height, p.Height)
	setIf(&a.FontFamily, p.FontFamily)
	setIf(&a.FontWeight, p.FontWeight)
	setIf(&a.FontColor, p.FontColor)
	setIf(&a.MinFontSize, p.MinFontSize)
	setIf(&a.MaxFontSize, p.MaxFontSize)
	setIf(&a.TextAlign, p.TextAlign)
	setIf(&a.LineHeight, p.LineHeight)
	return a
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Default text-area geometry and style.
const (
	DefaultAreaWidth   = 400
	DefaultAreaHeight  = 100
	DefaultFontFamily  = "Playfair Display"
	DefaultFontWeight  = 400
	DefaultFontColor   = "#FFFFFF"
	DefaultMinFontSize = 16
	DefaultMaxFontSize = 48
	DefaultLineHeight  = 1.2
)

// NewTextArea returns an area with default style, centred on the canvas.
func NewTextArea(id string, canvas Canvas) TextArea {
	return TextArea{
		ID:          id,
		X:           math.Round(canvas.Width/2 - DefaultAreaWidth/2),
		Y:           math.Round(canvas.Height/2 - DefaultAreaHeight/2),
		Width:       DefaultAreaWidth,
		Height:      DefaultAreaHeight,
		FontFamily:  DefaultFontFamily,
		FontWeight:  DefaultFontWeight,
		FontColor:   DefaultFontColor,
		MinFontSize: DefaultMinFontSize,
		MaxFontSize: DefaultMaxFontSize,
		TextAlign:   AlignCenter,
		LineHeight:  DefaultLineHeight,
	}
}

// Reduce computes the document that results from applying cmd to d. The
// input is never modified. Commands naming a missing text area, and adds of
// an id already present, return d unchanged.
func Reduce(d Document, cmd Command) Document {
	switch c := cmd.(type) {
	case SetTemplateID:
		next := d.Clone()
		next.TemplateID = c.ID
		return next

	case SetOrientation:
		next := d.Clone()
		o := c.Orientation
		next.Orientation = &o
		next.Canvas = CanvasFor(o)
		// Old geometry may not fit the new canvas.
		next.TextAreas = []TextArea{}
		next.SelectedTextAreaID = nil
		return next

	case SetBackgroundImage:
		next := d.Clone()
		next.BackgroundImage = &BackgroundImage{
			Filename:    c.Filename,
			PreviewData: c.PreviewData,
			File:        c.File,
		}
		return next

	case ClearBackgroundImage:
		next := d.Clone()
		next.BackgroundImage = nil
		return next

	case AddTextArea:
		if d.indexOf(c.ID) >= 0 {
			return d
		}
		next := d.Clone()
		next.TextAreas = append(next.TextAreas, NewTextArea(c.ID, d.Canvas))
		id := c.ID
		next.SelectedTextAreaID = &id
		return next

	case SelectTextArea:
		next := d.Clone()
		next.SelectedTextAreaID = nil
		if c.ID != nil {
			id := *c.ID
			next.SelectedTextAreaID = &id
		}
		return next

	case UpdateTextArea:
		i := d.indexOf(c.ID)
		if i < 0 {
			return d
		}
		next := d.Clone()
		next.TextAreas[i] = c.Patch.Apply(next.TextAreas[i])
		return next

	case DeleteTextArea:
		i := d.indexOf(c.ID)
		if i < 0 {
			return d
		}
		next := d.Clone()
		next.TextAreas = append(next.TextAreas[:i], next.TextAreas[i+1:]...)
		if next.SelectedTextAreaID != nil && *next.SelectedTextAreaID == c.ID {
			next.SelectedTextAreaID = nil
		}
		return next

	case MoveTextArea:
		i := d.indexOf(c.ID)
		if i < 0 {
			return d
		}
		// Size is unchanged; bound by its ceiling so the far edge stays inside.
		area := d.TextAreas[i]
		r := ClampToBounds(c.X, c.Y, math.Ceil(area.Width), math.Ceil(area.Height), d.Canvas)
		next := d.Clone()
		next.TextAreas[i].X = r.X
		next.TextAreas[i].Y = r.Y
		return next

	case ResizeTextArea:
		i := d.indexOf(c.ID)
		if i < 0 {
			return d
		}
		r := ClampToBounds(c.X, c.Y, c.Width, c.Height, d.Canvas)
		next := d.Clone()
		next.TextAreas[i].X = r.X
		next.TextAreas[i].Y = r.Y
		next.TextAreas[i].Width = r.Width
		next.TextAreas[i].Height = r.Height
		return next

	case Reset:
		return New()
	}
	return d
}
