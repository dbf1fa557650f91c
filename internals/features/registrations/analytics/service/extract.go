// file: internals/features/registrations/analytics/service/extract.go
package service

import (
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"
)

// Placeholder fills cells whose value could not be resolved from any source.
const Placeholder = "-"

/* =========================================================
   Input shape

   SourceEntry is one persisted registration or waiting-list
   row reduced to the parts extraction needs. Participants is
   kept as raw JSONB because historical rows stored it as an
   array, as an object keyed by index, or not at all.
   ========================================================= */

type SourceEntry struct {
	Responses       map[string]any
	Participants    datatypes.JSON
	User            map[string]any // authenticated registrant, fallback source
	TeamName        *string
	PaymentProofURL *string
	Status          string
}

// ParticipantRow is one fully resolved participant: the canonical columns plus
// any custom field labels observed on that participant.
type ParticipantRow struct {
	TeamName     string            `json:"team_name"`
	Name         string            `json:"name"`
	College      string            `json:"college_name"`
	Degree       string            `json:"degree_name"`
	USN          string            `json:"usn"`
	Email        string            `json:"email"`
	Gender       string            `json:"gender"`
	PaymentProof string            `json:"payment_proof"`
	WhatsApp     string            `json:"whatsapp_number"`
	Status       string            `json:"status,omitempty"`
	Extras       map[string]string `json:"extras,omitempty"`
}

/* =========================================================
   Tagged-union decode

   All shape ambiguity is absorbed here; nothing past this
   point sees anything but []map[string]any.
   ========================================================= */

// DecodeParticipants turns the raw participants JSONB into candidate records.
// Arrays are taken in order; objects are iterated by sorted key so output is
// deterministic; null/absent/unrecognized yields nil.
func DecodeParticipants(raw datatypes.JSON) []map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := sonic.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return candidatesFromValue(v)
}

func candidatesFromValue(v any) []map[string]any {
	switch t := v.(type) {
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case map[string]any:
		if len(t) == 0 {
			return nil
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]map[string]any, 0, len(keys))
		for _, k := range keys {
			if m, ok := t[k].(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

// candidateSources gathers participant candidates in priority order:
// (a) participants array, (b) participants object values, (c) arrays buried
// inside responses under a "participant"-ish label, (d) the user record.
func candidateSources(entry SourceEntry) []map[string]any {
	if cands := DecodeParticipants(entry.Participants); len(cands) > 0 {
		return cands
	}
	for label, v := range entry.Responses {
		if !strings.Contains(strings.ToLower(label), "participant") {
			continue
		}
		if cands := candidatesFromValue(v); len(cands) > 0 {
			return cands
		}
	}
	if len(entry.User) > 0 {
		return []map[string]any{entry.User}
	}
	return nil
}

/* =========================================================
   Extraction
   ========================================================= */

// ExtractParticipants flattens one entry into resolved participant rows.
// Resolution per attribute walks: the candidate's "details" object, the
// entry's responses, the candidate itself, then the user record. Anything
// still unresolved gets the placeholder.
func ExtractParticipants(entry SourceEntry) []ParticipantRow {
	candidates := candidateSources(entry)
	if len(candidates) == 0 {
		// team registered with no per-participant data at all; still emit one
		// row so the entry shows up in tables and exports
		candidates = []map[string]any{{}}
	}

	rows := make([]ParticipantRow, 0, len(candidates))
	for _, cand := range candidates {
		var details map[string]any
		if d, ok := cand["details"].(map[string]any); ok {
			details = d
		}
		sources := []map[string]any{details, entry.Responses, cand, entry.User}

		row := ParticipantRow{
			TeamName:     orPlaceholder(resolveTeamName(entry, sources)),
			Name:         orPlaceholder(ResolveField(ColName, sources...)),
			College:      orPlaceholder(ResolveField(ColCollege, sources...)),
			Degree:       orPlaceholder(ResolveField(ColDegree, sources...)),
			USN:          orPlaceholder(ResolveField(ColUSN, sources...)),
			Email:        orPlaceholder(ResolveField(ColEmail, sources...)),
			Gender:       orPlaceholder(ResolveField(ColGender, sources...)),
			PaymentProof: orPlaceholder(paymentProof(entry)),
			WhatsApp:     orPlaceholder(ResolveField(ColWhatsApp, sources...)),
			Status:       entry.Status,
			Extras:       extractExtras(entry.Responses, details, cand),
		}
		rows = append(rows, row)
	}
	return rows
}

// resolveTeamName prefers the dedicated column, then the alias table over the
// usual sources.
func resolveTeamName(entry SourceEntry, sources []map[string]any) string {
	if entry.TeamName != nil {
		if v := strings.TrimSpace(*entry.TeamName); v != "" {
			return v
		}
	}
	return ResolveField(ColTeamName, sources...)
}

func paymentProof(entry SourceEntry) string {
	if entry.PaymentProofURL != nil {
		return strings.TrimSpace(*entry.PaymentProofURL)
	}
	return ""
}

// extractExtras collects custom field labels that are not covered by the
// canonical header (or its variants). Labels folding to the same lowercase
// form count as one column; the first-seen casing and value win.
func extractExtras(maps ...map[string]any) map[string]string {
	var out map[string]string
	var keyFor map[string]string // lowercased label -> first-seen casing
	for _, src := range maps {
		for label, v := range src {
			if IsCanonicalCovered(label) {
				continue
			}
			s := stringify(v)
			if s == "" {
				continue
			}
			if out == nil {
				out = map[string]string{}
				keyFor = map[string]string{}
			}
			key := strings.TrimSpace(label)
			lower := strings.ToLower(key)
			if first, ok := keyFor[lower]; ok {
				key = first
			} else {
				keyFor[lower] = key
			}
			if _, exists := out[key]; !exists {
				out[key] = s
			}
		}
	}
	return out
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}
