// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError is one reason a document is not ready for export.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate runs every export check against d and collects all failures.
// An empty result means the document is export-ready.
func Validate(d Document) []ValidationError {
	var errs []ValidationError

	if d.Orientation == nil {
		errs = append(errs, ValidationError{Field: "orientation", Message: "Orientation must be selected"})
	}

	bg := d.BackgroundImage
	if bg == nil || bg.Filename == "" || bg.File == nil {
		errs = append(errs, ValidationError{Field: "backgroundImage", Message: "Background image is required"})
	}

	if len(d.TextAreas) == 0 {
		errs = append(errs, ValidationError{Field: "textAreas", Message: "At least one text area is required"})
	}

	seen := make(map[string]bool, len(d.TextAreas))
	for i, a := range d.TextAreas {
		prefix := "textArea_" + strconv.Itoa(i) + "_"

		switch {
		case strings.TrimSpace(a.ID) == "":
			errs = append(errs, ValidationError{
				Field:   prefix + "id",
				Message: fmt.Sprintf("Text area %d must have an ID", i+1),
			})
		case seen[a.ID]:
			errs = append(errs, ValidationError{
				Field:   prefix + "id",
				Message: fmt.Sprintf("Duplicate ID: %q", a.ID),
			})
		default:
			seen[a.ID] = true
		}

		if a.MinFontSize > a.MaxFontSize {
			errs = append(errs, ValidationError{
				Field: prefix + "fontSize",
				Message: fmt.Sprintf("%q: minFontSize (%s) cannot exceed maxFontSize (%s)",
					a.ID, num(a.MinFontSize), num(a.MaxFontSize)),
			})
		}

		if !a.Rect().InBounds(d.Canvas) {
			errs = append(errs, ValidationError{
				Field: prefix + "bounds",
				Message: fmt.Sprintf("%q is outside canvas bounds (x=%s y=%s width=%s height=%s, canvas %sx%s)",
					a.ID, num(a.X), num(a.Y), num(a.Width), num(a.Height),
					num(d.Canvas.Width), num(d.Canvas.Height)),
			})
		}
	}

	return errs
}

// num formats a pixel or size value without trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
