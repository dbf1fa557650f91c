// file: internals/features/events/fields/model/team_config.go
package model

import "fmt"

// Team size bounds enforced on event authoring.
const (
	TeamSizeMin = 1
	TeamSizeMax = 10
)

/* =========================================================
   TeamConfig — how many people one registration covers
   ========================================================= */

type TeamConfig struct {
	TeamSize         *int `json:"team_size"` // nil = solo event
	FlexibleTeamSize bool `json:"flexible_team_size"`
	TeamSizeMin      *int `json:"team_size_min"`
	TeamSizeMax      *int `json:"team_size_max"`
}

func (tc TeamConfig) IsSolo() bool {
	return !tc.FlexibleTeamSize && tc.TeamSize == nil
}

// Validate enforces the authoring invariants:
// flexible → min ≤ max, both within [1,10]; fixed → size within [1,10].
func (tc TeamConfig) Validate() error {
	if tc.FlexibleTeamSize {
		if tc.TeamSizeMin == nil || tc.TeamSizeMax == nil {
			return fmt.Errorf("flexible team size requires team_size_min and team_size_max")
		}
		lo, hi := *tc.TeamSizeMin, *tc.TeamSizeMax
		if lo < TeamSizeMin || hi > TeamSizeMax {
			return fmt.Errorf("team size bounds must stay within [%d,%d]", TeamSizeMin, TeamSizeMax)
		}
		if lo > hi {
			return fmt.Errorf("team_size_min (%d) must not exceed team_size_max (%d)", lo, hi)
		}
		return nil
	}
	if tc.TeamSize != nil {
		if *tc.TeamSize < TeamSizeMin || *tc.TeamSize > TeamSizeMax {
			return fmt.Errorf("team size must stay within [%d,%d]", TeamSizeMin, TeamSizeMax)
		}
	}
	return nil
}

// ResolveSize turns the configuration plus the participant's choice into the
// concrete participant count N. chosen is only consulted for flexible teams;
// chosen <= 0 means "not picked yet".
func (tc TeamConfig) ResolveSize(chosen int) (int, error) {
	switch {
	case tc.FlexibleTeamSize:
		if tc.TeamSizeMin == nil || tc.TeamSizeMax == nil {
			return 0, fmt.Errorf("flexible team size bounds missing")
		}
		if chosen <= 0 {
			return 0, fmt.Errorf("pick a team size between %d and %d first", *tc.TeamSizeMin, *tc.TeamSizeMax)
		}
		if chosen < *tc.TeamSizeMin || chosen > *tc.TeamSizeMax {
			return 0, fmt.Errorf("team size %d is outside [%d,%d]", chosen, *tc.TeamSizeMin, *tc.TeamSizeMax)
		}
		return chosen, nil
	case tc.TeamSize != nil:
		return *tc.TeamSize, nil
	default:
		return 1, nil // solo
	}
}
