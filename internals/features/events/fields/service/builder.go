// file: internals/features/events/fields/service/builder.go
package service

import (
	"fmt"
	"strings"

	model "eventpulse_backend/internals/features/events/fields/model"
)

/* =========================================================
   Errors
   ========================================================= */

// IncompleteFieldError: a field in the list fails the completeness invariant.
// Positions are 1-based in messages because hosts see them that way.
type IncompleteFieldError struct {
	Index int
	Label string
}

func (e *IncompleteFieldError) Error() string {
	if strings.TrimSpace(e.Label) == "" {
		return fmt.Sprintf("field %d is incomplete: give it a label (and options, for dropdowns) first", e.Index+1)
	}
	return fmt.Sprintf("field %q is incomplete: dropdown fields need at least one option", e.Label)
}

/* =========================================================
   FieldListBuilder — ordered list authoring for one sub-event
   ========================================================= */

// FieldListBuilder maintains the ordered FieldDefinition list while a host is
// authoring a sub-event. All updates are replace-at-index over a fresh slice;
// the builder never hands out its internal storage.
type FieldListBuilder struct {
	fields []model.FieldDefinition
}

func NewFieldListBuilder(existing []model.FieldDefinition) *FieldListBuilder {
	fields := make([]model.FieldDefinition, len(existing))
	copy(fields, existing)
	return &FieldListBuilder{fields: fields}
}

// Fields returns a copy of the current list.
func (b *FieldListBuilder) Fields() []model.FieldDefinition {
	out := make([]model.FieldDefinition, len(b.fields))
	copy(out, b.fields)
	return out
}

func (b *FieldListBuilder) Len() int { return len(b.fields) }

// firstIncomplete returns the position of the first incomplete field, or -1.
func (b *FieldListBuilder) firstIncomplete() int {
	for i, f := range b.fields {
		if !f.IsComplete() {
			return i
		}
	}
	return -1
}

// AddField appends a blank FieldDefinition. Refused while any existing field
// is incomplete — the only ordering invariant in the authoring flow.
func (b *FieldListBuilder) AddField() error {
	if i := b.firstIncomplete(); i >= 0 {
		return &IncompleteFieldError{Index: i, Label: b.fields[i].Label}
	}
	b.fields = append(b.fields, model.NewBlankField())
	return nil
}

// UpdateField mutates one attribute of one field by position. No validation on
// write; completeness is only enforced at AddField and Finalize time.
func (b *FieldListBuilder) UpdateField(index int, key string, value any) error {
	if index < 0 || index >= len(b.fields) {
		return fmt.Errorf("field index %d out of range", index)
	}

	next := make([]model.FieldDefinition, len(b.fields))
	copy(next, b.fields)
	f := next[index]

	switch key {
	case "label":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("label expects a string")
		}
		f.Label = s
	case "type":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("type expects a string")
		}
		t := model.FieldType(s)
		if !t.Valid() {
			return fmt.Errorf("unknown field type %q", s)
		}
		f.Type = t
	case "required":
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("required expects a bool")
		}
		f.Required = v
	case "options":
		switch v := value.(type) {
		case string:
			f.Options = model.ParseOptions(v)
		case []string:
			f.Options = append([]string(nil), v...)
		default:
			return fmt.Errorf("options expects a comma-separated string or a string list")
		}
	case "is_individual":
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("is_individual expects a bool")
		}
		f.IsIndividual = v
	default:
		return fmt.Errorf("unknown field attribute %q", key)
	}

	next[index] = f
	b.fields = next
	return nil
}

// RemoveField deletes by position; no side effects on the other fields.
func (b *FieldListBuilder) RemoveField(index int) error {
	if index < 0 || index >= len(b.fields) {
		return fmt.Errorf("field index %d out of range", index)
	}
	next := make([]model.FieldDefinition, 0, len(b.fields)-1)
	next = append(next, b.fields[:index]...)
	next = append(next, b.fields[index+1:]...)
	b.fields = next
	return nil
}

// Finalize re-checks every field and returns the list ready for persistence.
// Used by the event controller at save time.
func (b *FieldListBuilder) Finalize() ([]model.FieldDefinition, error) {
	if i := b.firstIncomplete(); i >= 0 {
		return nil, &IncompleteFieldError{Index: i, Label: b.fields[i].Label}
	}
	return b.Fields(), nil
}

// ValidateFieldList is the save-time check for lists arriving whole from the
// authoring client (event create/patch payloads).
func ValidateFieldList(fields []model.FieldDefinition) error {
	for i, f := range fields {
		if !f.IsComplete() {
			return &IncompleteFieldError{Index: i, Label: f.Label}
		}
	}
	return nil
}
