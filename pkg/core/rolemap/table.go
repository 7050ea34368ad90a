//
//  Copyright © Siteline Inc. All rights reserved.
//

// Package rolemap defines the role-to-security-group table used by the
// permission resolver.
//
// The table is injected configuration rather than a compiled-in constant:
// entry order is the priority order, and when a user holds several mapped
// roles the entry earliest in the table wins, not the insertion order of
// the user's role list.
package rolemap

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Entry binds one role name to its security group.
type Entry struct {
	Role          string `yaml:"role"`
	SecurityGroup string `yaml:"group"`
}

// Table is a priority-ordered role-to-group mapping plus the designated
// baseline group used when none of a user's roles map.
type Table struct {
	entries       []Entry
	baselineGroup string
}

// NewTable creates a table from a baseline group and priority-ordered
// entries.
func NewTable(baselineGroup string, entries ...Entry) *Table {
	return &Table{
		entries:       entries,
		baselineGroup: baselineGroup,
	}
}

// BaselineGroup returns the designated fallback group ("read-only" tier).
func (t *Table) BaselineGroup() string {
	return t.baselineGroup
}

// Entries returns the table rows in priority order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Matches returns, in table priority order, every entry whose role appears
// in the user's role set. The permission resolver walks the result and
// takes the first entry whose group has an active security-group mapping.
func (t *Table) Matches(userRoles []string) []Entry {
	held := make(map[string]bool, len(userRoles))
	for _, r := range userRoles {
		held[r] = true
	}

	var out []Entry
	for _, e := range t.entries {
		if held[e.Role] {
			out = append(out, e)
		}
	}
	return out
}

// tableDoc is the yaml representation of a role-group table.
type tableDoc struct {
	BaselineGroup string  `yaml:"baselineGroup"`
	Entries       []Entry `yaml:"entries"`
}

// Parse builds a table from yaml content of the form:
//
//	baselineGroup: Read-Only
//	entries:
//	  - role: Executive
//	    group: Executives
//	  - role: Project Manager
//	    group: Operations
func Parse(data []byte) (*Table, error) {
	var doc tableDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing role-group table")
	}
	return NewTable(doc.BaselineGroup, doc.Entries...), nil
}

// Load reads and parses a role-group table yaml file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from operator configuration
	if err != nil {
		return nil, errors.Wrapf(err, "reading role-group table %s", path)
	}
	return Parse(data)
}

// DefaultTable returns the standard table for the construction org chart.
// Deployments with different role taxonomies load their own via [Load].
func DefaultTable() *Table {
	return NewTable("Read-Only",
		Entry{Role: "Executive", SecurityGroup: "Executives"},
		Entry{Role: "Project Executive", SecurityGroup: "Operations Leadership"},
		Entry{Role: "Project Manager", SecurityGroup: "Operations"},
		Entry{Role: "Superintendent", SecurityGroup: "Field Operations"},
		Entry{Role: "Estimator", SecurityGroup: "Preconstruction"},
		Entry{Role: "Accounting", SecurityGroup: "Finance"},
		Entry{Role: "Legal", SecurityGroup: "Read-Only"},
	)
}
