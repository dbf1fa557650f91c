package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "eventpulse_backend/internals/features/events/fields/model"
)

func TestAddField_FirstAlwaysAllowed(t *testing.T) {
	b := NewFieldListBuilder(nil)
	assert.NoError(t, b.AddField())
	assert.Equal(t, 1, b.Len())
}

func TestAddField_RejectedWhileIncomplete(t *testing.T) {
	b := NewFieldListBuilder(nil)
	require.NoError(t, b.AddField())

	// the freshly appended field is blank → a second add must be refused
	err := b.AddField()
	require.Error(t, err)
	var incomplete *IncompleteFieldError
	assert.ErrorAs(t, err, &incomplete)
	assert.Equal(t, 1, b.Len())

	// complete it, then adding works again
	require.NoError(t, b.UpdateField(0, "label", "College"))
	assert.NoError(t, b.AddField())
	assert.Equal(t, 2, b.Len())
}

func TestAddField_DropdownNeedsOptions(t *testing.T) {
	b := NewFieldListBuilder(nil)
	require.NoError(t, b.AddField())
	require.NoError(t, b.UpdateField(0, "label", "Track"))
	require.NoError(t, b.UpdateField(0, "type", "dropdown"))

	// dropdown with no options is still incomplete
	err := b.AddField()
	require.Error(t, err)
	var incomplete *IncompleteFieldError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, "Track", incomplete.Label)

	require.NoError(t, b.UpdateField(0, "options", "Web, Mobile , AI"))
	assert.NoError(t, b.AddField())

	fields := b.Fields()
	assert.Equal(t, []string{"Web", "Mobile", "AI"}, fields[0].Options)
}

func TestUpdateField_ReplacesAtIndexOnly(t *testing.T) {
	b := NewFieldListBuilder([]model.FieldDefinition{
		{Label: "College", Type: model.FieldTypeText, Required: true},
		{Label: "Name", Type: model.FieldTypeText, IsIndividual: true},
	})
	before := b.Fields()

	require.NoError(t, b.UpdateField(1, "required", true))

	after := b.Fields()
	assert.Equal(t, before[0], after[0])
	assert.True(t, after[1].Required)

	// the copy handed out earlier must not have been mutated
	assert.False(t, before[1].Required)
}

func TestUpdateField_RejectsUnknownTypeAndKey(t *testing.T) {
	b := NewFieldListBuilder([]model.FieldDefinition{{Label: "X", Type: model.FieldTypeText}})
	assert.Error(t, b.UpdateField(0, "type", "checkbox"))
	assert.Error(t, b.UpdateField(0, "placeholder", "hi"))
	assert.Error(t, b.UpdateField(3, "label", "oops"))
}

func TestRemoveField_ByPosition(t *testing.T) {
	b := NewFieldListBuilder([]model.FieldDefinition{
		{Label: "A", Type: model.FieldTypeText},
		{Label: "B", Type: model.FieldTypeText},
		{Label: "C", Type: model.FieldTypeText},
	})
	require.NoError(t, b.RemoveField(1))

	fields := b.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "A", fields[0].Label)
	assert.Equal(t, "C", fields[1].Label)

	assert.Error(t, b.RemoveField(5))
}

func TestFinalize_NamesTheIncompletePosition(t *testing.T) {
	b := NewFieldListBuilder([]model.FieldDefinition{
		{Label: "College", Type: model.FieldTypeText},
		{Label: "", Type: model.FieldTypeText},
	})
	_, err := b.Finalize()
	require.Error(t, err)
	var incomplete *IncompleteFieldError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, 1, incomplete.Index)
	assert.Contains(t, err.Error(), "field 2")
}

func TestValidateFieldList(t *testing.T) {
	ok := []model.FieldDefinition{
		{Label: "College", Type: model.FieldTypeText},
		{Label: "Track", Type: model.FieldTypeDropdown, Options: []string{"Web"}},
	}
	assert.NoError(t, ValidateFieldList(ok))

	bad := append(ok, model.FieldDefinition{Label: "Broken", Type: model.FieldTypeDropdown})
	assert.Error(t, ValidateFieldList(bad))
}
