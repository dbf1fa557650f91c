// file: internals/features/events/fields/model/team_config_test.go
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sizep(v int) *int { return &v }

func TestTeamConfigValidate_SoloAlwaysOK(t *testing.T) {
	assert.NoError(t, TeamConfig{}.Validate())
}

func TestTeamConfigValidate_FixedSizeBounds(t *testing.T) {
	assert.NoError(t, TeamConfig{TeamSize: sizep(1)}.Validate())
	assert.NoError(t, TeamConfig{TeamSize: sizep(10)}.Validate())

	assert.Error(t, TeamConfig{TeamSize: sizep(0)}.Validate())
	assert.Error(t, TeamConfig{TeamSize: sizep(11)}.Validate())
}

func TestTeamConfigValidate_FlexibleNeedsBothBounds(t *testing.T) {
	assert.Error(t, TeamConfig{FlexibleTeamSize: true}.Validate())
	assert.Error(t, TeamConfig{FlexibleTeamSize: true, TeamSizeMin: sizep(2)}.Validate())
	assert.Error(t, TeamConfig{FlexibleTeamSize: true, TeamSizeMax: sizep(5)}.Validate())
}

func TestTeamConfigValidate_FlexibleBounds(t *testing.T) {
	ok := TeamConfig{FlexibleTeamSize: true, TeamSizeMin: sizep(1), TeamSizeMax: sizep(10)}
	assert.NoError(t, ok.Validate())

	cases := []struct {
		name   string
		lo, hi int
	}{
		{"min above max", 5, 2},
		{"min below one", 0, 5},
		{"max above ten", 2, 11},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			tc := TeamConfig{FlexibleTeamSize: true, TeamSizeMin: sizep(tt.lo), TeamSizeMax: sizep(tt.hi)}
			assert.Error(t, tc.Validate())
		})
	}
}

func TestTeamConfigResolveSize_Defaults(t *testing.T) {
	n, err := TeamConfig{}.ResolveSize(0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = TeamConfig{TeamSize: sizep(4)}.ResolveSize(0)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}
