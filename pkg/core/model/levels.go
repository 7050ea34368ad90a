//
//  Copyright © Siteline Inc. All rights reserved.
//

package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AccessLevel is the graded access level for a tool. Levels are strictly
// ordered; permission flattening treats each level as a superset of the
// levels below it.
type AccessLevel int

// Access levels in ascending order.
const (
	LevelNone AccessLevel = iota
	LevelReadOnly
	LevelStandard
	LevelAdmin
)

var levelNames = map[AccessLevel]string{
	LevelNone:     "NONE",
	LevelReadOnly: "READ_ONLY",
	LevelStandard: "STANDARD",
	LevelAdmin:    "ADMIN",
}

// String returns the canonical name of the level.
func (l AccessLevel) String() string {
	if n, ok := levelNames[l]; ok {
		return n
	}
	return fmt.Sprintf("AccessLevel(%d)", int(l))
}

// ParseAccessLevel converts a level name to an [AccessLevel]. Matching is
// case-insensitive. Returns an error for unrecognized names.
func ParseAccessLevel(s string) (AccessLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NONE", "":
		return LevelNone, nil
	case "READ_ONLY", "READONLY":
		return LevelReadOnly, nil
	case "STANDARD":
		return LevelStandard, nil
	case "ADMIN":
		return LevelAdmin, nil
	default:
		return LevelNone, fmt.Errorf("unknown access level: %q", s)
	}
}

// MarshalJSON encodes the level as its canonical name.
func (l AccessLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a level from its canonical name.
func (l *AccessLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAccessLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// UnmarshalYAML decodes a level from its canonical name in catalog bundles.
func (l *AccessLevel) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseAccessLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// MarshalYAML encodes the level as its canonical name.
func (l AccessLevel) MarshalYAML() (interface{}, error) {
	return l.String(), nil
}
