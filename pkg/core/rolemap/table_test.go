//
//  Copyright © Siteline Inc. All rights reserved.
//

package rolemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesHonorsTableOrder(t *testing.T) {
	table := NewTable("Read-Only",
		Entry{Role: "Executive", SecurityGroup: "Executives"},
		Entry{Role: "Project Manager", SecurityGroup: "Operations"},
		Entry{Role: "Legal", SecurityGroup: "Read-Only"},
	)

	tests := []struct {
		name      string
		userRoles []string
		expected  []string
	}{
		{
			name:      "single role",
			userRoles: []string{"Legal"},
			expected:  []string{"Read-Only"},
		},
		{
			name: "table order wins over role list order",
			// user's list puts Legal first, but Executive sits higher in the table
			userRoles: []string{"Legal", "Executive"},
			expected:  []string{"Executives", "Read-Only"},
		},
		{
			name:      "unmapped roles contribute nothing",
			userRoles: []string{"Intern", "Visitor"},
			expected:  nil,
		},
		{
			name:      "no roles",
			userRoles: nil,
			expected:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := table.Matches(tt.userRoles)
			var groups []string
			for _, m := range matches {
				groups = append(groups, m.SecurityGroup)
			}
			assert.Equal(t, tt.expected, groups)
		})
	}
}

func TestParse(t *testing.T) {
	doc := `
baselineGroup: Read-Only
entries:
  - role: Executive
    group: Executives
  - role: Project Manager
    group: Operations
`
	table, err := Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "Read-Only", table.BaselineGroup())
	entries := table.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Executive", entries[0].Role)
	assert.Equal(t, "Operations", entries[1].SecurityGroup)
}

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()
	assert.Equal(t, "Read-Only", table.BaselineGroup())
	assert.NotEmpty(t, table.Matches([]string{"Project Manager"}))
}
