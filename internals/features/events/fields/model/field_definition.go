// file: internals/features/events/fields/model/field_definition.go
package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"
)

/* =========================================================
   ENUM: FieldType
   ========================================================= */

type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeWhatsapp FieldType = "whatsapp"
	FieldTypeUSN      FieldType = "usn"
	FieldTypeDropdown FieldType = "dropdown"
	FieldTypeNumber   FieldType = "number"
)

func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeEmail, FieldTypeTextarea, FieldTypeWhatsapp,
		FieldTypeUSN, FieldTypeDropdown, FieldTypeNumber:
		return true
	default:
		return false
	}
}

/* =========================================================
   FieldDefinition — one host-authored registration question
   ========================================================= */

type FieldDefinition struct {
	Label        string    `json:"label"`
	Type         FieldType `json:"type"`
	Required     bool      `json:"required"`
	Options      []string  `json:"options,omitempty"`
	IsIndividual bool      `json:"is_individual"`
}

// NewBlankField is what the builder appends: empty label, text type,
// optional, no options, team-scoped.
func NewBlankField() FieldDefinition {
	return FieldDefinition{
		Label:    "",
		Type:     FieldTypeText,
		Required: false,
		Options:  []string{},
	}
}

// IsComplete: label non-empty, type set, and (type != dropdown or options non-empty).
func (f FieldDefinition) IsComplete() bool {
	if strings.TrimSpace(f.Label) == "" {
		return false
	}
	if !f.Type.Valid() {
		return false
	}
	if f.Type == FieldTypeDropdown && len(f.Options) == 0 {
		return false
	}
	return true
}

// ParseOptions splits a comma-separated options string the way the authoring
// form collects dropdown choices. Blank entries are dropped.
func ParseOptions(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

/* =========================================================
   JSONB (de)coding — the ordered list lives on the event row
   ========================================================= */

func DecodeFieldDefinitions(raw datatypes.JSON) ([]FieldDefinition, error) {
	if len(raw) == 0 {
		return []FieldDefinition{}, nil
	}
	var out []FieldDefinition
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode custom fields: %w", err)
	}
	if out == nil {
		out = []FieldDefinition{}
	}
	return out, nil
}

func EncodeFieldDefinitions(fields []FieldDefinition) (datatypes.JSON, error) {
	if fields == nil {
		fields = []FieldDefinition{}
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode custom fields: %w", err)
	}
	return datatypes.JSON(b), nil
}
