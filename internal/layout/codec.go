// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCommand is returned by DecodeCommand for an unrecognised type.
var ErrUnknownCommand = errors.New("unknown command")

type movePayload struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type resizePayload struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type updatePayload struct {
	ID      string        `json:"id"`
	Updates TextAreaPatch `json:"updates"`
}

// DecodeCommand builds a Command from its wire form. Payloads follow the
// editor client: bare strings for id-only commands, objects for geometry and
// updates, nothing for RESET_TEMPLATE and CLEAR_BACKGROUND_IMAGE.
// SET_BACKGROUND_IMAGE is not accepted here because it carries binary data.
func DecodeCommand(typ string, payload json.RawMessage) (Command, error) {
	switch typ {
	case TypeSetTemplateID:
		var id string
		if err := decodePayload(payload, &id); err != nil {
			return nil, err
		}
		if strings.TrimSpace(id) == "" {
			return nil, errors.New("template id is required")
		}
		return SetTemplateID{ID: id}, nil

	case TypeSetOrientation:
		var s string
		if err := decodePayload(payload, &s); err != nil {
			return nil, err
		}
		o, err := ParseOrientation(s)
		if err != nil {
			return nil, err
		}
		return SetOrientation{Orientation: o}, nil

	case TypeClearBackgroundImage:
		return ClearBackgroundImage{}, nil

	case TypeAddTextArea:
		var id string
		if err := decodePayload(payload, &id); err != nil {
			return nil, err
		}
		if id == "" {
			return nil, errors.New("text area id is required")
		}
		return AddTextArea{ID: id}, nil

	case TypeSelectTextArea:
		var id *string
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &id); err != nil {
				return nil, fmt.Errorf("decode payload: %w", err)
			}
		}
		return SelectTextArea{ID: id}, nil

	case TypeUpdateTextArea:
		var p updatePayload
		if err := decodePayload(payload, &p); err != nil {
			return nil, err
		}
		if err := p.Updates.check(); err != nil {
			return nil, err
		}
		return UpdateTextArea{ID: p.ID, Patch: p.Updates}, nil

	case TypeDeleteTextArea:
		var id string
		if err := decodePayload(payload, &id); err != nil {
			return nil, err
		}
		return DeleteTextArea{ID: id}, nil

	case TypeMoveTextArea:
		var p movePayload
		if err := decodePayload(payload, &p); err != nil {
			return nil, err
		}
		return MoveTextArea{ID: p.ID, X: p.X, Y: p.Y}, nil

	case TypeResizeTextArea:
		var p resizePayload
		if err := decodePayload(payload, &p); err != nil {
			return nil, err
		}
		return ResizeTextArea{ID: p.ID, X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}, nil

	case TypeReset:
		return Reset{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, typ)
}

// check rejects patch values the exported record cannot carry.
func (p TextAreaPatch) check() error {
	if p.TextAlign != nil {
		switch *p.TextAlign {
		case AlignLeft, AlignCenter, AlignRight:
		default:
			return fmt.Errorf("unknown textAlign %q", *p.TextAlign)
		}
	}
	if p.FontWeight != nil && (*p.FontWeight < 1 || *p.FontWeight > 1000) {
		return fmt.Errorf("fontWeight %d out of range 1-1000", *p.FontWeight)
	}
	if p.Width != nil && *p.Width < 0 {
		return errors.New("width cannot be negative")
	}
	if p.Height != nil && *p.Height < 0 {
		return errors.New("height cannot be negative")
	}
	return nil
}

func decodePayload(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return errors.New("payload is required")
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
