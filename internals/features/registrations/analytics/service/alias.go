// file: internals/features/registrations/analytics/service/alias.go
package service

import (
	"fmt"
	"strings"
)

/* =========================================================
   Label aliasing

   Historical rows were written by several frontend versions
   that did not agree on field labels. Every lookup goes
   through one alias table so variants merge into a single
   canonical column.
   ========================================================= */

// Canonical column labels (also the CSV header, in this order).
const (
	ColTeamName     = "Team Name"
	ColName         = "Name"
	ColCollege      = "College Name"
	ColDegree       = "Degree Name"
	ColUSN          = "USN"
	ColEmail        = "Email"
	ColGender       = "Gender"
	ColPaymentProof = "Payment Proof"
	ColWhatsApp     = "WhatsApp Number"
)

// CanonicalColumns is the fixed CSV header order.
var CanonicalColumns = []string{
	ColTeamName, ColName, ColCollege, ColDegree, ColUSN,
	ColEmail, ColGender, ColPaymentProof, ColWhatsApp,
}

// aliasTable: canonical label → known historical variants.
var aliasTable = map[string][]string{
	ColTeamName: {"teamName", "Team", "Group Name", "Group", "team_name"},
	ColName:     {"name", "Full Name", "fullName", "Participant Name"},
	ColCollege:  {"College", "college", "collegeName", "College name"},
	ColDegree:   {"Degree", "degree", "degreeName"},
	ColUSN:      {"usn", "USN Number", "University Seat Number"},
	ColEmail:    {"email", "E-mail", "Email ID", "Email Address"},
	ColGender:   {"gender", "Sex"},
	ColWhatsApp: {"Whats App Number", "Whatsapp Number", "WhatsApp", "whatsapp", "Phone Number", "phone"},
}

// canonicalByLower resolves any observed label (canonical or variant, any
// casing) back to its canonical form.
var canonicalByLower = func() map[string]string {
	m := make(map[string]string)
	for canonical, variants := range aliasTable {
		m[strings.ToLower(canonical)] = canonical
		for _, v := range variants {
			m[strings.ToLower(v)] = canonical
		}
	}
	return m
}()

// CanonicalFor maps an observed label to its canonical column, or returns the
// label unchanged (trimmed) when it is not a known variant.
func CanonicalFor(label string) string {
	label = strings.TrimSpace(label)
	if c, ok := canonicalByLower[strings.ToLower(label)]; ok {
		return c
	}
	return label
}

// IsCanonicalCovered reports whether a label collapses into the fixed header.
func IsCanonicalCovered(label string) bool {
	_, ok := canonicalByLower[strings.ToLower(strings.TrimSpace(label))]
	return ok
}

/* =========================================================
   Lookup
   ========================================================= */

// lookupKey tries one key against one source: exact first, then
// case-insensitive over the source's keys.
func lookupKey(src map[string]any, key string) (string, bool) {
	if src == nil {
		return "", false
	}
	if v, ok := src[key]; ok {
		if s := stringify(v); s != "" {
			return s, true
		}
	}
	lower := strings.ToLower(key)
	for k, v := range src {
		if strings.ToLower(k) == lower {
			if s := stringify(v); s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// ResolveField finds the value for a canonical label by walking the sources in
// priority order, trying the canonical key then every known variant on each.
// Returns "" when no source has it.
func ResolveField(canonical string, sources ...map[string]any) string {
	keys := append([]string{canonical}, aliasTable[canonical]...)
	for _, src := range sources {
		for _, key := range keys {
			if v, ok := lookupKey(src, key); ok {
				return v
			}
		}
	}
	return ""
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		// JSON numbers decode to float64; print integers without the ".000000"
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
