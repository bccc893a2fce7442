// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is an output encoding for records.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml"; empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported format %q (use json or yaml)", s)
}

// ContentType returns the HTTP media type for the format.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Encode renders a record. JSON uses two-space indentation.
func Encode(r Record, f Format) ([]byte, error) {
	switch f {
	case FormatJSON, "":
		out, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return out, nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unsupported format %q", f)
}

// Decode parses a record. JSON input is checked against the template schema
// before decoding; YAML input is checked after.
func Decode(data []byte, f Format) (Record, error) {
	var r Record
	switch f {
	case FormatJSON, "":
		if err := ValidateJSON(data); err != nil {
			return r, err
		}
		if err := json.Unmarshal(data, &r); err != nil {
			return r, fmt.Errorf("decode json: %w", err)
		}
		return r, nil
	case FormatYAML:
		if err := yaml.Unmarshal(data, &r); err != nil {
			return r, fmt.Errorf("decode yaml: %w", err)
		}
		if err := ValidateRecord(r); err != nil {
			return r, err
		}
		return r, nil
	}
	return r, fmt.Errorf("unsupported format %q", f)
}
