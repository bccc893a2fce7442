// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package export

import (
	"encoding/json"
	"fmt"
	"sync"

	reflector "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	schemaOnce     sync.Once
	schemaJSON     []byte
	schemaCompiled *jsonschema.Schema
	schemaErr      error
)

func initSchema() error {
	schemaOnce.Do(func() {
		r := &reflector.Reflector{}
		s := r.Reflect(&Record{})
		s.Title = "Greeting card template"

		schemaJSON, schemaErr = json.MarshalIndent(s, "", "  ")
		if schemaErr != nil {
			return
		}
		schemaCompiled, schemaErr = jsonschema.CompileString("template.schema.json", string(schemaJSON))
	})
	return schemaErr
}

// Schema returns the JSON Schema of the template record.
func Schema() ([]byte, error) {
	if err := initSchema(); err != nil {
		return nil, fmt.Errorf("template schema: %w", err)
	}
	return schemaJSON, nil
}

// ValidateRecord checks a record against the template schema.
func ValidateRecord(r Record) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return ValidateJSON(payload)
}

// ValidateJSON checks raw JSON against the template schema.
func ValidateJSON(raw []byte) error {
	if err := initSchema(); err != nil {
		return fmt.Errorf("template schema: %w", err)
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if err := schemaCompiled.Validate(decoded); err != nil {
		return fmt.Errorf("record does not match schema: %w", err)
	}
	return nil
}
