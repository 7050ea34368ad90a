//
//  Copyright © Siteline Inc. All rights reserved.
//

package model

import "fmt"

// UnresolvedReason explains why a step has no concrete responsible person.
// Presentation layers branch on the reason code instead of matching
// placeholder text.
type UnresolvedReason string

// Reasons an assignee can be unresolved.
const (
	// UnresolvedRoleVacant means the step routes to a project role that no
	// current team member holds. The step is blocked, not missing.
	UnresolvedRoleVacant UnresolvedReason = "RoleVacant"
	// UnresolvedNoDefault means no conditional rule matched and the step
	// has no default assignee.
	UnresolvedNoDefault UnresolvedReason = "NoDefault"
)

// Assignee identifies the person responsible for a workflow step, or a
// structured unresolved outcome when no person could be determined.
type Assignee struct {
	UserID      string `json:"userId,omitempty" yaml:"userId,omitempty"`
	DisplayName string `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty"`

	// Unresolved is true when no concrete person could be determined.
	Unresolved       bool             `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
	UnresolvedReason UnresolvedReason `json:"unresolvedReason,omitempty" yaml:"unresolvedReason,omitempty"`
	// VacantRole carries the role name when UnresolvedReason is RoleVacant.
	VacantRole string `json:"vacantRole,omitempty" yaml:"vacantRole,omitempty"`
}

// UnassignedRole returns an unresolved assignee for a project role that no
// team member currently holds.
func UnassignedRole(role string) Assignee {
	return Assignee{
		Unresolved:       true,
		UnresolvedReason: UnresolvedRoleVacant,
		VacantRole:       role,
	}
}

// Unassigned returns an unresolved assignee for a step with no matching
// rule and no default person.
func Unassigned() Assignee {
	return Assignee{
		Unresolved:       true,
		UnresolvedReason: UnresolvedNoDefault,
	}
}

// IsZero reports whether the assignee carries neither a person nor an
// unresolved marker.
func (a Assignee) IsZero() bool {
	return !a.Unresolved && a.UserID == "" && a.DisplayName == "" && a.Email == ""
}

// DisplayLabel returns the person's display name, or a placeholder for
// unresolved assignees. The placeholder is derived, never stored.
func (a Assignee) DisplayLabel() string {
	if !a.Unresolved {
		return a.DisplayName
	}
	if a.UnresolvedReason == UnresolvedRoleVacant {
		return fmt.Sprintf("(No %s assigned)", a.VacantRole)
	}
	return "(Unassigned)"
}

// TeamMember is an entry in a project's team directory.
type TeamMember struct {
	ID    string `json:"id" yaml:"id"`
	Role  string `json:"role" yaml:"role"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// Assignee converts the team member into a resolved assignee.
func (m TeamMember) Assignee() Assignee {
	return Assignee{
		UserID:      m.ID,
		DisplayName: m.Name,
		Email:       m.Email,
	}
}

// FeatureFlag is a named on/off gate supplied by the feature-flag store.
type FeatureFlag struct {
	Name    string `json:"name" yaml:"name"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}
