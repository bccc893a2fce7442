// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import "cardforge/internal/layout"

// Stage is the position of an editing session in the orientation/upload
// sequence.
type Stage string

const (
	// StageAwaitingOrientation: no orientation yet. An uploaded background
	// is parked in Flow.Pending until one is chosen.
	StageAwaitingOrientation Stage = "awaiting_orientation"

	// StageAwaitingFile: orientation chosen, no background yet.
	StageAwaitingFile Stage = "awaiting_file"

	// StageReady: orientation and background are both set.
	StageReady Stage = "ready"
)

// Upload is a background file that has been read into a preview.
type Upload struct {
	File        *layout.File `json:"file"`
	Filename    string       `json:"filename"`
	PreviewData string       `json:"previewData"`
}

func (u Upload) command() layout.SetBackgroundImage {
	return layout.SetBackgroundImage{File: u.File, Filename: u.Filename, PreviewData: u.PreviewData}
}

// Flow is the upload sequencing state. Pending is only ever set while the
// stage is StageAwaitingOrientation.
type Flow struct {
	Stage   Stage   `json:"stage"`
	Pending *Upload `json:"pending,omitempty"`
}

// stageOf derives the stage a document is in when nothing is parked.
func stageOf(d layout.Document) Stage {
	switch {
	case d.Orientation == nil:
		return StageAwaitingOrientation
	case d.BackgroundImage == nil:
		return StageAwaitingFile
	default:
		return StageReady
	}
}

func (f Flow) clone() Flow {
	if f.Pending == nil {
		return f
	}
	p := *f.Pending
	if p.File != nil {
		file := *p.File
		file.Data = append([]byte(nil), p.File.Data...)
		p.File = &file
	}
	f.Pending = &p
	return f
}
