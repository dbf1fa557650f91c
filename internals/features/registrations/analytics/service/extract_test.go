package service

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func jsonb(s string) datatypes.JSON { return datatypes.JSON([]byte(s)) }

func TestDecodeParticipants_Array(t *testing.T) {
	cands := DecodeParticipants(jsonb(`[{"Name":"Alice"},{"Name":"Bob"}]`))
	require.Len(t, cands, 2)
	assert.Equal(t, "Alice", cands[0]["Name"])
	assert.Equal(t, "Bob", cands[1]["Name"])
}

func TestDecodeParticipants_ObjectKeyedByIndex(t *testing.T) {
	cands := DecodeParticipants(jsonb(`{"1":{"Name":"Bob"},"0":{"Name":"Alice"}}`))
	require.Len(t, cands, 2)
	// sorted keys keep the order deterministic
	assert.Equal(t, "Alice", cands[0]["Name"])
	assert.Equal(t, "Bob", cands[1]["Name"])
}

func TestDecodeParticipants_AbsentOrScalar(t *testing.T) {
	assert.Nil(t, DecodeParticipants(nil))
	assert.Nil(t, DecodeParticipants(jsonb(`null`)))
	assert.Nil(t, DecodeParticipants(jsonb(`"oops"`)))
}

func TestExtractParticipants_PrefersParticipantsArray(t *testing.T) {
	entry := SourceEntry{
		Responses:    map[string]any{"College": "MIT"},
		Participants: jsonb(`[{"Name":"Alice","Email":"alice@example.com"}]`),
		User:         map[string]any{"name": "Should Not Win", "email": "x@example.com"},
	}
	rows := ExtractParticipants(entry)
	require.Len(t, rows, 1)
	assert.Equal(t, "Alice", rows[0].Name)
	assert.Equal(t, "alice@example.com", rows[0].Email)
}

func TestExtractParticipants_FallsBackToResponsesThenUser(t *testing.T) {
	entry := SourceEntry{
		Responses: map[string]any{"whatsapp": "777"},
		User:      map[string]any{"name": "Carol", "email": "carol@example.com"},
	}
	rows := ExtractParticipants(entry)
	require.Len(t, rows, 1)
	assert.Equal(t, "Carol", rows[0].Name)
	assert.Equal(t, "777", rows[0].WhatsApp)
	// unresolved attributes get the placeholder, never empty strings
	assert.Equal(t, Placeholder, rows[0].USN)
	assert.Equal(t, Placeholder, rows[0].Gender)
}

func TestExtractParticipants_ParticipantArrayInsideResponses(t *testing.T) {
	entry := SourceEntry{
		Responses: map[string]any{
			"Participant List": []any{
				map[string]any{"Name": "Dave"},
				map[string]any{"Name": "Erin"},
			},
		},
	}
	rows := ExtractParticipants(entry)
	require.Len(t, rows, 2)
	assert.Equal(t, "Dave", rows[0].Name)
	assert.Equal(t, "Erin", rows[1].Name)
}

func TestExtractParticipants_TeamNameVariants(t *testing.T) {
	for _, label := range []string{"Team Name", "teamName", "Team", "Group Name", "Group"} {
		entry := SourceEntry{Responses: map[string]any{label: "The Gophers"}}
		rows := ExtractParticipants(entry)
		require.Len(t, rows, 1, label)
		assert.Equal(t, "The Gophers", rows[0].TeamName, label)
	}
}

func TestExtractParticipants_DetailsObjectWinsOverResponses(t *testing.T) {
	entry := SourceEntry{
		Responses:    map[string]any{"Email": "team@example.com"},
		Participants: jsonb(`[{"details":{"Email":"personal@example.com"}}]`),
	}
	rows := ExtractParticipants(entry)
	require.Len(t, rows, 1)
	assert.Equal(t, "personal@example.com", rows[0].Email)
}

func TestResolveField_CaseInsensitive(t *testing.T) {
	src := map[string]any{"wHaTsApP nUmBeR": "555"}
	assert.Equal(t, "555", ResolveField(ColWhatsApp, src))
}

func readCSV(t *testing.T, rows []ParticipantRow) [][]string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteCSV_WhatsAppVariantsShareOneColumn(t *testing.T) {
	entries := []SourceEntry{
		{Responses: map[string]any{"WhatsApp Number": "111"}},
		{Responses: map[string]any{"Whats App Number": "222"}},
	}
	var rows []ParticipantRow
	for _, e := range entries {
		rows = append(rows, ExtractParticipants(e)...)
	}

	records := readCSV(t, rows)
	require.GreaterOrEqual(t, len(records), 3)

	header := records[0]
	count := 0
	col := -1
	for i, h := range header {
		if strings.EqualFold(strings.ReplaceAll(h, " ", ""), "whatsappnumber") {
			count++
			col = i
		}
	}
	assert.Equal(t, 1, count, "variants must merge into one column: %v", header)
	assert.Equal(t, "111", records[1][col])
	assert.Equal(t, "222", records[2][col])
}

func TestWriteCSV_CanonicalHeaderOrder(t *testing.T) {
	records := readCSV(t, []ParticipantRow{{Name: "Alice"}})
	require.NotEmpty(t, records)
	assert.Equal(t, []string{
		"Team Name", "Name", "College Name", "Degree Name", "USN",
		"Email", "Gender", "Payment Proof", "WhatsApp Number",
	}, records[0][:9])
}

func TestWriteCSV_ExtraCustomColumnsAppended(t *testing.T) {
	rows := []ParticipantRow{
		{Name: "Alice", Extras: map[string]string{"T-Shirt Size": "M"}},
		{Name: "Bob"},
	}
	records := readCSV(t, rows)
	header := records[0]
	require.Len(t, header, 10)
	assert.Equal(t, "T-Shirt Size", header[9])
	assert.Equal(t, "M", records[1][9])
	assert.Equal(t, Placeholder, records[2][9])
}

func TestWriteCSV_ExtraColumnsFoldCase(t *testing.T) {
	rows := []ParticipantRow{
		{Name: "Alice", Extras: map[string]string{"Hobby": "chess"}},
		{Name: "Bob", Extras: map[string]string{"hobby": "golf"}},
	}
	records := readCSV(t, rows)
	header := records[0]
	require.Len(t, header, 10, "case variants must merge into one column: %v", header)
	assert.Equal(t, "Hobby", header[9])
	assert.Equal(t, "chess", records[1][9])
	assert.Equal(t, "golf", records[2][9])
}

func TestWriteCSV_DeduplicatesFullRows(t *testing.T) {
	row := ParticipantRow{Name: "Alice", Email: "alice@example.com"}
	records := readCSV(t, []ParticipantRow{row, row, row})
	// header + one data row
	assert.Len(t, records, 2)
}
