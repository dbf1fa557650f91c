// file: internals/features/events/fields/service/renderer.go
package service

import (
	"fmt"
	"strings"

	model "eventpulse_backend/internals/features/events/fields/model"
)

/* =========================================================
   Keys — synthetic identifiers for rendered input instances
   ========================================================= */

func InstanceKey(fieldIdx int) string {
	return fmt.Sprintf("field_%d", fieldIdx)
}

func ParticipantInstanceKey(fieldIdx, participant int) string {
	return fmt.Sprintf("field_%d_participant_%d", fieldIdx, participant)
}

/* =========================================================
   InputInstance — one concrete input slot on the form
   ========================================================= */

type InputInstance struct {
	Key         string          `json:"key"`
	Label       string          `json:"label"`
	Type        model.FieldType `json:"type"`
	Required    bool            `json:"required"`
	Options     []string        `json:"options,omitempty"`
	FieldIndex  int             `json:"field_index"`
	Participant *int            `json:"participant,omitempty"` // 0-based; nil for team-scoped slots
}

/* =========================================================
   Errors
   ========================================================= */

// MissingAnswerError: a required instance was left blank. Participant is
// 0-based internally and rendered 1-based ("Participant 2") for users.
type MissingAnswerError struct {
	Label       string
	Participant *int
}

func (e *MissingAnswerError) Error() string {
	if e.Participant != nil {
		return fmt.Sprintf("%q is required for Participant %d", e.Label, *e.Participant+1)
	}
	return fmt.Sprintf("%q is required", e.Label)
}

/* =========================================================
   Expansion
   ========================================================= */

// ExpandForm expands the FieldDefinition list into concrete input slots.
// chosenSize is only consulted for flexible teams (0 = not picked yet, which
// is an error there: the participant count must be known before individual
// fields can be laid out).
//
// Individual fields fan out into N slots whenever the event configures a team
// size, even a team of one; team fields and every field on a solo event yield
// exactly one slot.
func ExpandForm(fields []model.FieldDefinition, tc model.TeamConfig, chosenSize int) ([]InputInstance, error) {
	n, err := tc.ResolveSize(chosenSize)
	if err != nil {
		return nil, err
	}

	out := make([]InputInstance, 0, len(fields))
	for idx, f := range fields {
		if f.IsIndividual && !tc.IsSolo() {
			for p := 0; p < n; p++ {
				pp := p
				out = append(out, InputInstance{
					Key:         ParticipantInstanceKey(idx, p),
					Label:       f.Label,
					Type:        f.Type,
					Required:    f.Required,
					Options:     f.Options,
					FieldIndex:  idx,
					Participant: &pp,
				})
			}
			continue
		}
		out = append(out, InputInstance{
			Key:        InstanceKey(idx),
			Label:      f.Label,
			Type:       f.Type,
			Required:   f.Required,
			Options:    f.Options,
			FieldIndex: idx,
		})
	}
	return out, nil
}

/* =========================================================
   Submit-time validation
   ========================================================= */

// ValidateFilled checks that every rendered instance of every required field
// carries a non-empty trimmed value. teamSize is the resolved participant
// count (1 for solo); tc decides which keys the individual fields rendered
// under. The first failure is returned so the message can name the exact field
// (and participant) the user must fix.
func ValidateFilled(fields []model.FieldDefinition, tc model.TeamConfig, teamSize int, formData map[string]string) error {
	if teamSize < 1 {
		teamSize = 1
	}
	for idx, f := range fields {
		if !f.Required {
			continue
		}
		if f.IsIndividual && !tc.IsSolo() {
			for p := 0; p < teamSize; p++ {
				if strings.TrimSpace(formData[ParticipantInstanceKey(idx, p)]) == "" {
					pp := p
					return &MissingAnswerError{Label: f.Label, Participant: &pp}
				}
			}
			continue
		}
		if strings.TrimSpace(formData[InstanceKey(idx)]) == "" {
			return &MissingAnswerError{Label: f.Label}
		}
	}
	return nil
}
