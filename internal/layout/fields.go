// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package layout

import "slices"

// Predefined text-area identifiers. Each maps to a recipient data field.
const (
	FieldRecipientName = "recipientName"
	FieldOccasion      = "occasion"
	FieldMessage       = "message"
	FieldSenderName    = "senderName"
)

// Field describes one entry of the closed text-area vocabulary.
type Field struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
}

// PredefinedFields is the vocabulary offered by the "Add Text Area" menu.
var PredefinedFields = []Field{
	{ID: FieldRecipientName, Label: "Recipient Name", Placeholder: "Recipient Name"},
	{ID: FieldOccasion, Label: "Occasion", Placeholder: "Happy Birthday!"},
	{ID: FieldMessage, Label: "Message", Placeholder: "Your message here..."},
	{ID: FieldSenderName, Label: "Sender Name", Placeholder: "From: Sender"},
}

// IsPredefinedField reports whether id belongs to the vocabulary.
func IsPredefinedField(id string) bool {
	return slices.ContainsFunc(PredefinedFields, func(f Field) bool { return f.ID == id })
}

// Placeholder returns the sample text the canvas shows for a text area.
func Placeholder(id string) string {
	for _, f := range PredefinedFields {
		if f.ID == id {
			return f.Placeholder
		}
	}
	return "[" + id + "]"
}

// AvailableFields returns the predefined fields not yet placed on the document.
func AvailableFields(d Document) []Field {
	out := []Field{}
	for _, f := range PredefinedFields {
		if d.indexOf(f.ID) < 0 {
			out = append(out, f)
		}
	}
	return out
}
