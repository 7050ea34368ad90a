//
//  Copyright © Siteline Inc. All rights reserved.
//

// Package capability defines the tool-capability table: the static
// registry that maps (toolKey, level, flag) to concrete permission
// strings.
//
// The table is injected configuration. Levels are cumulative: the
// permissions for a level include every permission registered at that
// level and all levels below it, so raising a tool's level never removes
// a permission.
package capability

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/sitelinehq/assignmentengine/pkg/core/model"
	"gopkg.in/yaml.v3"
)

// Table maps tool levels and granular flags to permission strings.
type Table struct {
	levels map[string]map[model.AccessLevel][]string
	flags  map[string]map[string][]string
}

// NewTable creates an empty capability table.
func NewTable() *Table {
	return &Table{
		levels: make(map[string]map[model.AccessLevel][]string),
		flags:  make(map[string]map[string][]string),
	}
}

// RegisterLevel registers the permission strings granted at exactly the
// given level of a tool. Flattening makes levels cumulative; register each
// string at the lowest level that grants it.
func (t *Table) RegisterLevel(toolKey string, level model.AccessLevel, permissions ...string) *Table {
	byLevel, ok := t.levels[toolKey]
	if !ok {
		byLevel = make(map[model.AccessLevel][]string)
		t.levels[toolKey] = byLevel
	}
	byLevel[level] = append(byLevel[level], permissions...)
	return t
}

// RegisterFlag registers the permission strings granted by a granular flag
// of a tool, independent of the tool's graded level.
func (t *Table) RegisterFlag(toolKey, flag string, permissions ...string) *Table {
	byFlag, ok := t.flags[toolKey]
	if !ok {
		byFlag = make(map[string][]string)
		t.flags[toolKey] = byFlag
	}
	byFlag[flag] = append(byFlag[flag], permissions...)
	return t
}

// PermissionsForLevel returns every permission string granted at the given
// level of a tool, including all lower levels. Unknown tools contribute
// nothing.
func (t *Table) PermissionsForLevel(toolKey string, level model.AccessLevel) []string {
	byLevel := t.levels[toolKey]
	if byLevel == nil {
		return nil
	}
	var out []string
	for l := model.LevelNone; l <= level; l++ {
		out = append(out, byLevel[l]...)
	}
	return out
}

// PermissionsForFlag returns the permission strings granted by a granular
// flag of a tool. Unknown flags contribute nothing.
func (t *Table) PermissionsForFlag(toolKey, flag string) []string {
	byFlag := t.flags[toolKey]
	if byFlag == nil {
		return nil
	}
	return byFlag[flag]
}

// Flatten converts merged tool access into the flattened permission-string
// set: level permissions (cumulative) plus flag permissions for every flag
// present. The result is deduplicated and sorted, so flattening is
// idempotent under duplicate flags.
func (t *Table) Flatten(access []model.ToolAccess) []string {
	seen := make(map[string]bool)
	for _, ta := range access {
		for _, p := range t.PermissionsForLevel(ta.ToolKey, ta.Level) {
			seen[p] = true
		}
		for _, flag := range ta.GranularFlags {
			for _, p := range t.PermissionsForFlag(ta.ToolKey, flag) {
				seen[p] = true
			}
		}
	}

	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// tableDoc is the yaml representation of a capability table.
type tableDoc struct {
	Tools []struct {
		ToolKey string              `yaml:"toolKey"`
		Levels  map[string][]string `yaml:"levels"`
		Flags   map[string][]string `yaml:"flags"`
	} `yaml:"tools"`
}

// Parse builds a table from yaml content of the form:
//
//	tools:
//	  - toolKey: leads
//	    levels:
//	      READ_ONLY: [leads.read]
//	      STANDARD: [leads.write]
//	      ADMIN: [leads.manage]
//	    flags:
//	      export: [leads.export]
func Parse(data []byte) (*Table, error) {
	var doc tableDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing capability table")
	}

	t := NewTable()
	for _, tool := range doc.Tools {
		for levelName, perms := range tool.Levels {
			level, err := model.ParseAccessLevel(levelName)
			if err != nil {
				return nil, errors.Wrapf(err, "capability table tool %q", tool.ToolKey)
			}
			t.RegisterLevel(tool.ToolKey, level, perms...)
		}
		for flag, perms := range tool.Flags {
			t.RegisterFlag(tool.ToolKey, flag, perms...)
		}
	}
	return t, nil
}

// Load reads and parses a capability table yaml file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from operator configuration
	if err != nil {
		return nil, errors.Wrapf(err, "reading capability table %s", path)
	}
	return Parse(data)
}
