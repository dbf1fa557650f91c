package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "eventpulse_backend/internals/features/events/fields/model"
)

func intp(v int) *int { return &v }

func fixedTeam(n int) model.TeamConfig { return model.TeamConfig{TeamSize: intp(n)} }
func soloEvent() model.TeamConfig      { return model.TeamConfig{} }
func flexTeam(lo, hi int) model.TeamConfig {
	return model.TeamConfig{FlexibleTeamSize: true, TeamSizeMin: intp(lo), TeamSizeMax: intp(hi)}
}

func TestExpandForm_IndividualFieldFansOut(t *testing.T) {
	fields := []model.FieldDefinition{
		{Label: "College", Type: model.FieldTypeText},
		{Label: "Name", Type: model.FieldTypeText, IsIndividual: true},
	}

	instances, err := ExpandForm(fields, fixedTeam(3), 0)
	require.NoError(t, err)

	// one team slot + three individual slots
	require.Len(t, instances, 4)
	assert.Equal(t, "field_0", instances[0].Key)
	assert.Nil(t, instances[0].Participant)
	for p := 0; p < 3; p++ {
		inst := instances[1+p]
		assert.Equal(t, fmt.Sprintf("field_1_participant_%d", p), inst.Key)
		require.NotNil(t, inst.Participant)
		assert.Equal(t, p, *inst.Participant)
		assert.Equal(t, "Name", inst.Label)
	}
}

func TestExpandForm_TeamFieldAlwaysOneInstance(t *testing.T) {
	fields := []model.FieldDefinition{{Label: "College", Type: model.FieldTypeText}}

	for _, n := range []int{1, 2, 10} {
		instances, err := ExpandForm(fields, fixedTeam(n), 0)
		require.NoError(t, err)
		assert.Len(t, instances, 1, "team size %d", n)
	}
}

func TestExpandForm_SoloTreatsIndividualAsTeam(t *testing.T) {
	fields := []model.FieldDefinition{{Label: "Name", Type: model.FieldTypeText, IsIndividual: true}}

	instances, err := ExpandForm(fields, soloEvent(), 0)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, "field_0", instances[0].Key)
	assert.Nil(t, instances[0].Participant)
}

func TestExpandForm_TeamOfOneStillFansOut(t *testing.T) {
	// only teamSize = nil collapses individual fields; a configured team of
	// one keeps the participant-suffixed key
	fields := []model.FieldDefinition{{Label: "Name", Type: model.FieldTypeText, Required: true, IsIndividual: true}}

	instances, err := ExpandForm(fields, fixedTeam(1), 0)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, "field_0_participant_0", instances[0].Key)
	require.NotNil(t, instances[0].Participant)
	assert.Equal(t, 0, *instances[0].Participant)
}

func TestExpandForm_FlexibleNeedsChosenSize(t *testing.T) {
	fields := []model.FieldDefinition{{Label: "Name", Type: model.FieldTypeText, IsIndividual: true}}
	tc := flexTeam(2, 5)

	_, err := ExpandForm(fields, tc, 0)
	assert.Error(t, err, "rendering must wait until a size is picked")

	_, err = ExpandForm(fields, tc, 7)
	assert.Error(t, err)

	instances, err := ExpandForm(fields, tc, 4)
	require.NoError(t, err)
	assert.Len(t, instances, 4)
}

func TestValidateFilled_RequiredTeamField(t *testing.T) {
	fields := []model.FieldDefinition{{Label: "College", Type: model.FieldTypeText, Required: true}}

	err := ValidateFilled(fields, soloEvent(), 1, map[string]string{"field_0": "   "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "College")

	assert.NoError(t, ValidateFilled(fields, soloEvent(), 1, map[string]string{"field_0": "MIT"}))
}

func TestValidateFilled_TeamOfOneWantsParticipantKey(t *testing.T) {
	fields := []model.FieldDefinition{{Label: "Name", Type: model.FieldTypeText, Required: true, IsIndividual: true}}

	// the bare key belongs to the solo rendering, not the team-of-one one
	err := ValidateFilled(fields, fixedTeam(1), 1, map[string]string{"field_0": "Alice"})
	require.Error(t, err)

	assert.NoError(t, ValidateFilled(fields, fixedTeam(1), 1, map[string]string{"field_0_participant_0": "Alice"}))
}

func TestValidateFilled_NamesParticipantNumber(t *testing.T) {
	fields := []model.FieldDefinition{
		{Label: "College", Type: model.FieldTypeText, Required: true},
		{Label: "Name", Type: model.FieldTypeText, Required: true, IsIndividual: true},
	}
	form := map[string]string{
		"field_0":               "MIT",
		"field_1_participant_0": "Alice",
		// participant 1 left blank
	}

	err := ValidateFilled(fields, fixedTeam(2), 2, form)
	require.Error(t, err)
	var missing *MissingAnswerError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, err.Error(), "Name")
	assert.Contains(t, err.Error(), "Participant 2")
}

func TestValidateFilled_OptionalFieldsMayBeBlank(t *testing.T) {
	fields := []model.FieldDefinition{
		{Label: "College", Type: model.FieldTypeText, Required: true},
		{Label: "Shirt Size", Type: model.FieldTypeDropdown, Options: []string{"S", "M", "L"}},
	}
	assert.NoError(t, ValidateFilled(fields, soloEvent(), 1, map[string]string{"field_0": "MIT"}))
}
