// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package recipients parses the CSV lists used for bulk greeting generation.
package recipients

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrEmpty is returned for a file with no content.
	ErrEmpty = errors.New("CSV file is empty")

	// ErrNoRows is returned when only a header row is present.
	ErrNoRows = errors.New("CSV must have a header row and at least one data row")
)

// Recipient is one row of a recipients CSV.
type Recipient struct {
	ID         string `json:"id"`
	TemplateID string `json:"templateId"`
	Name       string `json:"name"`
	Sender     string `json:"sender"`
	Occasion   string `json:"occasion"`
	Message    string `json:"message"`
	Tone       string `json:"tone,omitempty"`
}

// Header aliases per field, matched after normalisation. The first
// non-empty column wins.
var (
	templateKeys = []string{"templateid", "template_id", "template"}
	nameKeys     = []string{"recipientname", "name", "names", "recipient", "receiver", "to"}
	senderKeys   = []string{"sendername", "sender", "from", "from_name", "sent_by"}
	occasionKeys = []string{"occasion", "event", "holiday"}
	messageKeys  = []string{"message", "custom_message", "note", "text"}
	toneKeys     = []string{"tone", "style", "mood"}
)

// DefaultOccasion is used for rows without an occasion.
const DefaultOccasion = "Greeting"

// Parse reads a CSV with a header row. Headers are trimmed, lower-cased and
// have inner whitespace replaced by underscores before alias matching.
// Missing names become "Recipient N" (1-based).
func Parse(r io.Reader) ([]Recipient, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	records = dropBlank(records)
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	if len(records) < 2 {
		return nil, ErrNoRows
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = normalizeHeader(h)
	}

	out := make([]Recipient, 0, len(records)-1)
	for i, cells := range records[1:] {
		row := make(map[string]string, len(headers))
		for j, h := range headers {
			if j < len(cells) {
				row[h] = cells[j]
			}
		}
		out = append(out, fromRow(row, i))
	}
	return out, nil
}

func fromRow(row map[string]string, index int) Recipient {
	get := func(keys []string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(row[k]); v != "" {
				return v
			}
		}
		return ""
	}

	r := Recipient{
		ID:         fmt.Sprintf("recipient-%d", index),
		TemplateID: get(templateKeys),
		Name:       get(nameKeys),
		Sender:     get(senderKeys),
		Occasion:   get(occasionKeys),
		Message:    get(messageKeys),
		Tone:       get(toneKeys),
	}
	if r.Name == "" {
		r.Name = fmt.Sprintf("Recipient %d", index+1)
	}
	if r.Occasion == "" {
		r.Occasion = DefaultOccasion
	}
	return r
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.Join(strings.Fields(strings.ToLower(h)), "_")
}

// dropBlank removes rows whose cells are all empty.
func dropBlank(records [][]string) [][]string {
	out := records[:0]
	for _, rec := range records {
		for _, c := range rec {
			if strings.TrimSpace(c) != "" {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}
