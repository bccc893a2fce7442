// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cardforge/internal/layout"
	"cardforge/internal/metrics"
)

// ErrUpload marks an export that failed because the background could not be
// uploaded.
var ErrUpload = errors.New("background upload failed")

// Uploader stores a background file and returns its asset reference.
type Uploader interface {
	UploadAsset(ctx context.Context, file *layout.File) (AssetRef, error)
}

// UploaderFunc adapts a function to the Uploader interface.
type UploaderFunc func(ctx context.Context, file *layout.File) (AssetRef, error)

func (f UploaderFunc) UploadAsset(ctx context.Context, file *layout.File) (AssetRef, error) {
	return f(ctx, file)
}

// InvalidError carries the checks a document failed. Nothing was uploaded.
type InvalidError struct {
	Errors []layout.ValidationError
}

func (e *InvalidError) Error() string {
	if len(e.Errors) == 1 {
		return "template is not valid: " + e.Errors[0].Error()
	}
	return fmt.Sprintf("template is not valid: %d errors", len(e.Errors))
}

// Exporter validates documents, uploads their background and assembles the
// record.
type Exporter struct {
	uploader Uploader
	metrics  *metrics.Metrics
}

// NewExporter creates an exporter. m may be nil.
func NewExporter(u Uploader, m *metrics.Metrics) *Exporter {
	return &Exporter{uploader: u, metrics: m}
}

// Export produces the record for d. Validation failures return an
// *InvalidError; upload failures wrap ErrUpload. The upload is attempted
// once. d is not modified.
func (e *Exporter) Export(ctx context.Context, d layout.Document) (Record, error) {
	if errs := layout.Validate(d); len(errs) > 0 {
		e.metrics.RecordExport("invalid")
		return Record{}, &InvalidError{Errors: errs}
	}

	// Wire commands are range-checked on decode; documents built in code
	// can still carry values the schema rejects, so check before uploading.
	draft := Assemble(d, AssetRef{AssetID: "pending", URL: "pending"})
	if err := ValidateRecord(draft); err != nil {
		e.metrics.RecordExport("invalid")
		return Record{}, &InvalidError{Errors: []layout.ValidationError{{Field: "record", Message: err.Error()}}}
	}

	asset, err := e.uploader.UploadAsset(ctx, d.BackgroundImage.File)
	if err != nil {
		e.metrics.RecordExport("upload_error")
		slog.Error("export upload failed", "template_id", d.TemplateID, "error", err)
		return Record{}, fmt.Errorf("%w: %w", ErrUpload, err)
	}

	r := Assemble(d, asset)
	if err := ValidateRecord(r); err != nil {
		e.metrics.RecordExport("error")
		return Record{}, err
	}

	e.metrics.RecordExport("ok")
	slog.Info("template exported",
		"template_id", r.TemplateID,
		"orientation", r.Orientation,
		"text_areas", len(r.TextAreas),
		"asset_id", asset.AssetID,
	)
	return r, nil
}
