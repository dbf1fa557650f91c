// file: internals/features/events/fields/service/normalizer.go
package service

import (
	"errors"
	"strings"

	model "eventpulse_backend/internals/features/events/fields/model"
)

// ErrNoMeaningfulData: normalization produced an empty submission; nothing to
// send to the backend.
var ErrNoMeaningfulData = errors.New("registration has no data to submit")

/* =========================================================
   Output shapes
   ========================================================= */

// ParticipantRecord maps individual-scoped field labels to the value one
// specific participant entered.
type ParticipantRecord map[string]string

// RegistrationSubmission is the normalized payload for the intake endpoints.
// Both keys are always present (possibly empty) so consumers never null-check.
type RegistrationSubmission struct {
	Responses    map[string]string   `json:"responses"`
	Participants []ParticipantRecord `json:"participants"`
}

// FallbackIdentity feeds the no-custom-fields path: the authenticated user's
// own name/email for solo events, or manually entered pairs for teams.
type FallbackIdentity struct {
	Name   string
	Email  string
	Manual []ManualParticipant
}

type ManualParticipant struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

/* =========================================================
   Normalization
   ========================================================= */

// Normalize reshapes the flat keyed form input into the submission payload:
// team-scoped answers land once in Responses under the field label, while
// individual answers are regrouped per participant — including for a
// configured team of one, which still gets a participants[0] record. teamSize
// is the resolved participant count (1 for solo).
func Normalize(fields []model.FieldDefinition, tc model.TeamConfig, teamSize int, formData map[string]string, fallback FallbackIdentity) (RegistrationSubmission, error) {
	if teamSize < 1 {
		teamSize = 1
	}

	sub := RegistrationSubmission{
		Responses:    map[string]string{},
		Participants: make([]ParticipantRecord, teamSize),
	}
	for p := range sub.Participants {
		sub.Participants[p] = ParticipantRecord{}
	}

	if len(fields) == 0 {
		return normalizeWithoutFields(teamSize, fallback)
	}

	for idx, f := range fields {
		if f.IsIndividual && !tc.IsSolo() {
			for p := 0; p < teamSize; p++ {
				if v := strings.TrimSpace(formData[ParticipantInstanceKey(idx, p)]); v != "" {
					sub.Participants[p][f.Label] = v
				}
			}
			continue
		}
		if v := strings.TrimSpace(formData[InstanceKey(idx)]); v != "" {
			sub.Responses[f.Label] = v
		}
	}

	if isEmptySubmission(sub) {
		return RegistrationSubmission{}, ErrNoMeaningfulData
	}
	return sub, nil
}

// normalizeWithoutFields builds the minimal submission for events that define
// no custom fields at all.
func normalizeWithoutFields(teamSize int, fb FallbackIdentity) (RegistrationSubmission, error) {
	sub := RegistrationSubmission{
		Responses:    map[string]string{},
		Participants: []ParticipantRecord{},
	}

	if teamSize <= 1 {
		rec := ParticipantRecord{}
		if v := strings.TrimSpace(fb.Name); v != "" {
			rec["name"] = v
		}
		if v := strings.TrimSpace(fb.Email); v != "" {
			rec["email"] = v
		}
		sub.Participants = append(sub.Participants, rec)
	} else {
		for _, m := range fb.Manual {
			rec := ParticipantRecord{}
			if v := strings.TrimSpace(m.Name); v != "" {
				rec["name"] = v
			}
			if v := strings.TrimSpace(m.Email); v != "" {
				rec["email"] = v
			}
			sub.Participants = append(sub.Participants, rec)
		}
	}

	if isEmptySubmission(sub) {
		return RegistrationSubmission{}, ErrNoMeaningfulData
	}
	return sub, nil
}

func isEmptySubmission(sub RegistrationSubmission) bool {
	if len(sub.Responses) > 0 {
		return false
	}
	for _, rec := range sub.Participants {
		if len(rec) > 0 {
			return false
		}
	}
	return true
}
