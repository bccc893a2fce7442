// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package editor owns live template documents. A Controller wraps one
// document and turns action calls into reducer commands, one at a time. A
// Manager keeps controllers for many sessions in a Store.
package editor

import (
	"sync"

	"cardforge/internal/layout"
)

// Controller holds the current document of one editing session together with
// its upload flow. All methods are safe for concurrent use; commands are
// applied one at a time.
type Controller struct {
	mu   sync.Mutex
	doc  layout.Document
	flow Flow

	// onCommand, when set, is called after each applied command.
	onCommand func(typ string)
}

// NewController returns a controller holding a fresh document.
func NewController() *Controller {
	return &Controller{
		doc:  layout.New(),
		flow: Flow{Stage: StageAwaitingOrientation},
	}
}

// Restore returns a controller that resumes from a saved snapshot.
func Restore(s Snapshot) *Controller {
	c := &Controller{doc: s.Document.Clone(), flow: s.Flow.clone()}
	if c.flow.Stage == "" {
		c.flow.Stage = stageOf(c.doc)
	}
	return c
}

// Dispatch applies one command and returns the resulting document.
func (c *Controller) Dispatch(cmd layout.Command) layout.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apply(cmd)
	return c.doc.Clone()
}

// apply runs cmd through the reducer and keeps the flow in step. Must be
// called with mu held.
func (c *Controller) apply(cmd layout.Command) {
	c.doc = layout.Reduce(c.doc, cmd)
	if c.onCommand != nil {
		c.onCommand(cmd.Type())
	}

	switch cmd.(type) {
	case layout.SetOrientation:
		if p := c.flow.Pending; p != nil {
			c.flow.Pending = nil
			c.doc = layout.Reduce(c.doc, p.command())
			if c.onCommand != nil {
				c.onCommand(layout.TypeSetBackgroundImage)
			}
		}
	case layout.Reset:
		c.flow.Pending = nil
	}
	if c.flow.Pending == nil {
		c.flow.Stage = stageOf(c.doc)
	}
}

func (c *Controller) SetTemplateID(id string) layout.Document {
	return c.Dispatch(layout.SetTemplateID{ID: id})
}

// SetOrientation applies the orientation. A background parked while the
// session was awaiting an orientation is applied right after it.
func (c *Controller) SetOrientation(o layout.Orientation) layout.Document {
	return c.Dispatch(layout.SetOrientation{Orientation: o})
}

func (c *Controller) SetBackgroundImage(file *layout.File, filename, previewData string) layout.Document {
	return c.Dispatch(layout.SetBackgroundImage{File: file, Filename: filename, PreviewData: previewData})
}

func (c *Controller) ClearBackgroundImage() layout.Document {
	return c.Dispatch(layout.ClearBackgroundImage{})
}

func (c *Controller) AddTextArea(id string) layout.Document {
	return c.Dispatch(layout.AddTextArea{ID: id})
}

// SelectTextArea selects id, or clears the selection when id is nil.
func (c *Controller) SelectTextArea(id *string) layout.Document {
	return c.Dispatch(layout.SelectTextArea{ID: id})
}

func (c *Controller) UpdateTextArea(id string, patch layout.TextAreaPatch) layout.Document {
	return c.Dispatch(layout.UpdateTextArea{ID: id, Patch: patch})
}

func (c *Controller) DeleteTextArea(id string) layout.Document {
	return c.Dispatch(layout.DeleteTextArea{ID: id})
}

func (c *Controller) MoveTextArea(id string, x, y float64) layout.Document {
	return c.Dispatch(layout.MoveTextArea{ID: id, X: x, Y: y})
}

func (c *Controller) ResizeTextArea(id string, x, y, width, height float64) layout.Document {
	return c.Dispatch(layout.ResizeTextArea{ID: id, X: x, Y: y, Width: width, Height: height})
}

func (c *Controller) Reset() layout.Document {
	return c.Dispatch(layout.Reset{})
}

// ProvideBackground hands the controller a background that has finished
// reading. Without an orientation the upload is parked and the flow waits
// for ChooseOrientation; otherwise it is applied immediately.
func (c *Controller) ProvideBackground(u Upload) Flow {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.doc.Orientation == nil {
		c.flow = Flow{Stage: StageAwaitingOrientation, Pending: &u}
		return c.flow.clone()
	}
	c.apply(u.command())
	return c.flow.clone()
}

// ChooseOrientation is SetOrientation reporting the resulting flow.
func (c *Controller) ChooseOrientation(o layout.Orientation) Flow {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apply(layout.SetOrientation{Orientation: o})
	return c.flow.clone()
}

// CancelPending drops a parked upload without choosing an orientation.
func (c *Controller) CancelPending() Flow {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flow = Flow{Stage: stageOf(c.doc)}
	return c.flow
}

// Document returns a copy of the current document.
func (c *Controller) Document() layout.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.Clone()
}

func (c *Controller) Flow() Flow {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flow.clone()
}

// Validate runs the export checks against the current document.
func (c *Controller) Validate() []layout.ValidationError {
	return layout.Validate(c.Document())
}

// Snapshot returns the persisted form of the session.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Document: c.doc.Clone(), Flow: c.flow.clone()}
}

// Snapshot is the stored form of an editing session.
type Snapshot struct {
	Document layout.Document `json:"document"`
	Flow     Flow            `json:"flow"`
}
