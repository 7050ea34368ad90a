//
//  Copyright © Siteline Inc. All rights reserved.
//

package capability

import (
	"testing"

	"github.com/sitelinehq/assignmentengine/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leadsTable() *Table {
	return NewTable().
		RegisterLevel("leads", model.LevelReadOnly, "leads.read").
		RegisterLevel("leads", model.LevelStandard, "leads.write", "leads.comment").
		RegisterLevel("leads", model.LevelAdmin, "leads.manage").
		RegisterFlag("leads", "export", "leads.export")
}

func TestPermissionsForLevelCumulative(t *testing.T) {
	table := leadsTable()

	tests := []struct {
		name     string
		level    model.AccessLevel
		expected []string
	}{
		{name: "none grants nothing", level: model.LevelNone, expected: nil},
		{name: "read only", level: model.LevelReadOnly, expected: []string{"leads.read"}},
		{name: "standard includes read only", level: model.LevelStandard, expected: []string{"leads.read", "leads.write", "leads.comment"}},
		{name: "admin includes everything", level: model.LevelAdmin, expected: []string{"leads.read", "leads.write", "leads.comment", "leads.manage"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, table.PermissionsForLevel("leads", tt.level))
		})
	}
}

// Raising a tool's level must never remove a permission string present at
// the lower level.
func TestFlatteningMonotonic(t *testing.T) {
	table := leadsTable()

	previous := map[string]bool{}
	for level := model.LevelNone; level <= model.LevelAdmin; level++ {
		flattened := table.Flatten([]model.ToolAccess{{ToolKey: "leads", Level: level}})
		current := make(map[string]bool, len(flattened))
		for _, p := range flattened {
			current[p] = true
		}
		for p := range previous {
			assert.True(t, current[p], "level %s lost permission %s", level, p)
		}
		previous = current
	}
}

func TestFlattenWithFlags(t *testing.T) {
	table := leadsTable()

	perms := table.Flatten([]model.ToolAccess{
		{ToolKey: "leads", Level: model.LevelStandard, GranularFlags: []string{"export"}},
	})

	assert.Contains(t, perms, "leads.read")
	assert.Contains(t, perms, "leads.write")
	assert.Contains(t, perms, "leads.comment")
	assert.Contains(t, perms, "leads.export")
	assert.NotContains(t, perms, "leads.manage")
}

func TestFlattenIdempotentUnderDuplicateFlags(t *testing.T) {
	table := leadsTable()

	once := table.Flatten([]model.ToolAccess{
		{ToolKey: "leads", Level: model.LevelStandard, GranularFlags: []string{"export"}},
	})
	dup := table.Flatten([]model.ToolAccess{
		{ToolKey: "leads", Level: model.LevelStandard, GranularFlags: []string{"export", "export", "export"}},
	})

	assert.Equal(t, once, dup)
}

func TestFlattenUnknownToolContributesNothing(t *testing.T) {
	table := leadsTable()
	assert.Empty(t, table.Flatten([]model.ToolAccess{{ToolKey: "mystery", Level: model.LevelAdmin}}))
}

func TestParse(t *testing.T) {
	doc := `
tools:
  - toolKey: leads
    levels:
      READ_ONLY: [leads.read]
      STANDARD: [leads.write]
    flags:
      export: [leads.export]
  - toolKey: buyout
    levels:
      STANDARD: [buyout.write]
`
	table, err := Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, []string{"leads.read", "leads.write"}, table.PermissionsForLevel("leads", model.LevelStandard))
	assert.Equal(t, []string{"leads.export"}, table.PermissionsForFlag("leads", "export"))
	assert.Equal(t, []string{"buyout.write"}, table.PermissionsForLevel("buyout", model.LevelAdmin))
}

func TestParseRejectsUnknownLevel(t *testing.T) {
	_, err := Parse([]byte("tools:\n  - toolKey: leads\n    levels:\n      SUPERUSER: [x]\n"))
	assert.Error(t, err)
}
