//
//  Copyright © Siteline Inc. All rights reserved.
//

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccessLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected AccessLevel
		wantErr  bool
	}{
		{name: "none", input: "NONE", expected: LevelNone},
		{name: "empty string is none", input: "", expected: LevelNone},
		{name: "read only", input: "READ_ONLY", expected: LevelReadOnly},
		{name: "read only without underscore", input: "readonly", expected: LevelReadOnly},
		{name: "standard lowercase", input: "standard", expected: LevelStandard},
		{name: "admin with whitespace", input: " ADMIN ", expected: LevelAdmin},
		{name: "unknown level errors", input: "SUPERUSER", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := ParseAccessLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestAccessLevelOrdering(t *testing.T) {
	assert.True(t, LevelNone < LevelReadOnly)
	assert.True(t, LevelReadOnly < LevelStandard)
	assert.True(t, LevelStandard < LevelAdmin)
}

func TestAccessLevelJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(LevelStandard)
	require.NoError(t, err)
	assert.Equal(t, `"STANDARD"`, string(data))

	var level AccessLevel
	require.NoError(t, json.Unmarshal([]byte(`"ADMIN"`), &level))
	assert.Equal(t, LevelAdmin, level)
}

func TestAssigneeDisplayLabel(t *testing.T) {
	tests := []struct {
		name     string
		assignee Assignee
		expected string
	}{
		{
			name:     "resolved person uses display name",
			assignee: Assignee{UserID: "u1", DisplayName: "Dana Reyes", Email: "dana@example.com"},
			expected: "Dana Reyes",
		},
		{
			name:     "vacant role placeholder carries the role name",
			assignee: UnassignedRole("PX"),
			expected: "(No PX assigned)",
		},
		{
			name:     "no default placeholder",
			assignee: Unassigned(),
			expected: "(Unassigned)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.assignee.DisplayLabel())
		})
	}
}

func TestUnassignedRoleIsStructured(t *testing.T) {
	a := UnassignedRole("Superintendent")
	assert.True(t, a.Unresolved)
	assert.Equal(t, UnresolvedRoleVacant, a.UnresolvedReason)
	assert.Equal(t, "Superintendent", a.VacantRole)
	assert.False(t, a.IsZero())
}

func TestOrderedSteps(t *testing.T) {
	def := &WorkflowDefinition{
		WorkflowKey: "buyout",
		Steps: []WorkflowStep{
			{ID: 3, StepOrder: 30, Name: "Executive Approval"},
			{ID: 1, StepOrder: 10, Name: "PM Review"},
			{ID: 2, StepOrder: 20, Name: "PX Sign-off"},
		},
	}

	steps := def.OrderedSteps()
	require.Len(t, steps, 3)
	assert.Equal(t, []int{10, 20, 30}, []int{steps[0].StepOrder, steps[1].StepOrder, steps[2].StepOrder})

	// Source definition must not be reordered
	assert.Equal(t, int64(3), def.Steps[0].ID)
}

func TestResolvedPermissionsHelpers(t *testing.T) {
	r := &ResolvedPermissions{
		ToolLevels:  map[string]AccessLevel{"leads": LevelStandard},
		Permissions: []string{"leads.read", "leads.write"},
	}

	assert.Equal(t, LevelStandard, r.Level("leads"))
	assert.Equal(t, LevelNone, r.Level("buyout"))
	assert.True(t, r.Has("leads.write"))
	assert.False(t, r.Has("buyout.read"))
}
