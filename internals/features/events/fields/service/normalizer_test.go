package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "eventpulse_backend/internals/features/events/fields/model"
)

func TestNormalize_TeamOfTwo(t *testing.T) {
	fields := []model.FieldDefinition{
		{Label: "College", Type: model.FieldTypeText, Required: true},
		{Label: "Name", Type: model.FieldTypeText, Required: true, IsIndividual: true},
	}
	form := map[string]string{
		"field_0":               "MIT",
		"field_1_participant_0": "Alice",
		"field_1_participant_1": "Bob",
	}

	sub, err := Normalize(fields, fixedTeam(2), 2, form, FallbackIdentity{})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"College": "MIT"}, sub.Responses)
	require.Len(t, sub.Participants, 2)
	assert.Equal(t, ParticipantRecord{"Name": "Alice"}, sub.Participants[0])
	assert.Equal(t, ParticipantRecord{"Name": "Bob"}, sub.Participants[1])
}

func TestNormalize_NoScopeCrossContamination(t *testing.T) {
	fields := []model.FieldDefinition{
		{Label: "College", Type: model.FieldTypeText},
		{Label: "Name", Type: model.FieldTypeText, IsIndividual: true},
		{Label: "WhatsApp Number", Type: model.FieldTypeWhatsapp, IsIndividual: true},
	}
	form := map[string]string{
		"field_0":               "MIT",
		"field_1_participant_0": "Alice",
		"field_1_participant_1": "Bob",
		"field_2_participant_0": "111",
		"field_2_participant_1": "222",
	}

	sub, err := Normalize(fields, fixedTeam(2), 2, form, FallbackIdentity{})
	require.NoError(t, err)

	// responses carries exactly the team-scoped labels
	assert.Equal(t, []string{"College"}, keysOf(sub.Responses))

	// every participant record carries exactly the individual-scoped labels
	for p, rec := range sub.Participants {
		assert.NotContains(t, rec, "College", "participant %d", p)
		assert.Contains(t, rec, "Name")
		assert.Contains(t, rec, "WhatsApp Number")
	}
}

func TestNormalize_SoloIndividualFieldStoredAsTeam(t *testing.T) {
	fields := []model.FieldDefinition{
		{Label: "Name", Type: model.FieldTypeText, Required: true, IsIndividual: true},
	}
	sub, err := Normalize(fields, soloEvent(), 1, map[string]string{"field_0": "Alice"}, FallbackIdentity{})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Name": "Alice"}, sub.Responses)
}

func TestNormalize_TeamOfOneRegroupsIndividual(t *testing.T) {
	fields := []model.FieldDefinition{
		{Label: "Name", Type: model.FieldTypeText, Required: true, IsIndividual: true},
	}
	form := map[string]string{"field_0_participant_0": "Alice"}

	sub, err := Normalize(fields, fixedTeam(1), 1, form, FallbackIdentity{})
	require.NoError(t, err)

	assert.Empty(t, sub.Responses)
	require.Len(t, sub.Participants, 1)
	assert.Equal(t, ParticipantRecord{"Name": "Alice"}, sub.Participants[0])
}

func TestNormalize_NoFieldsSoloFallsBackToUser(t *testing.T) {
	sub, err := Normalize(nil, soloEvent(), 1, nil, FallbackIdentity{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	assert.Empty(t, sub.Responses)
	assert.NotNil(t, sub.Responses)
	require.Len(t, sub.Participants, 1)
	assert.Equal(t, "Alice", sub.Participants[0]["name"])
	assert.Equal(t, "alice@example.com", sub.Participants[0]["email"])
}

func TestNormalize_NoFieldsTeamUsesManualPairs(t *testing.T) {
	fb := FallbackIdentity{Manual: []ManualParticipant{
		{Name: "Alice", Email: "alice@example.com"},
		{Name: "Bob", Email: "bob@example.com"},
	}}
	sub, err := Normalize(nil, fixedTeam(2), 2, nil, fb)
	require.NoError(t, err)

	require.Len(t, sub.Participants, 2)
	assert.Equal(t, "Bob", sub.Participants[1]["name"])
}

func TestNormalize_EmptySubmissionRejected(t *testing.T) {
	fields := []model.FieldDefinition{{Label: "College", Type: model.FieldTypeText}}

	_, err := Normalize(fields, soloEvent(), 1, map[string]string{"field_0": "  "}, FallbackIdentity{})
	assert.ErrorIs(t, err, ErrNoMeaningfulData)

	_, err = Normalize(nil, soloEvent(), 1, nil, FallbackIdentity{})
	assert.ErrorIs(t, err, ErrNoMeaningfulData)
}

func keysOf(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
