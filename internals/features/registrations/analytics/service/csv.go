// file: internals/features/registrations/analytics/service/csv.go
package service

import (
	"encoding/csv"
	"io"
	"sort"
	"strings"
)

/* =========================================================
   CSV export

   Header: the fixed canonical columns, then every custom
   label observed across the dataset that the alias table
   does not already fold into a canonical column. Rows are
   deduplicated by full-row equality before writing.
   ========================================================= */

// ExtraColumns scans the rows for custom labels outside the canonical header,
// sorted for a stable header. Labels differing only by case fold into one
// column.
func ExtraColumns(rows []ParticipantRow) []string {
	all := make([]string, 0)
	for _, r := range rows {
		for label := range r.Extras {
			all = append(all, label)
		}
	}
	sort.Strings(all)

	out := make([]string, 0, len(all))
	seen := map[string]struct{}{}
	for _, label := range all {
		lower := strings.ToLower(label)
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, label)
	}
	return out
}

// extraValue: exact label first, then a case-insensitive scan, so a row keyed
// "hobby" still fills the "Hobby" column.
func extraValue(extras map[string]string, label string) string {
	if v, ok := extras[label]; ok {
		return v
	}
	lower := strings.ToLower(label)
	for k, v := range extras {
		if strings.ToLower(k) == lower {
			return v
		}
	}
	return ""
}

func csvRecord(r ParticipantRow, extras []string) []string {
	rec := []string{
		r.TeamName, r.Name, r.College, r.Degree, r.USN,
		r.Email, r.Gender, r.PaymentProof, r.WhatsApp,
	}
	for _, label := range extras {
		v := extraValue(r.Extras, label)
		if strings.TrimSpace(v) == "" {
			v = Placeholder
		}
		rec = append(rec, v)
	}
	return rec
}

// WriteCSV streams the export: canonical header + extra columns, deduplicated
// data rows.
func WriteCSV(w io.Writer, rows []ParticipantRow) error {
	extras := ExtraColumns(rows)

	cw := csv.NewWriter(w)
	header := append(append([]string{}, CanonicalColumns...), extras...)
	if err := cw.Write(header); err != nil {
		return err
	}

	seen := map[string]struct{}{}
	for _, r := range rows {
		rec := csvRecord(r, extras)
		key := strings.Join(rec, "\x1f")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
