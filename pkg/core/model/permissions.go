//
//  Copyright © Siteline Inc. All rights reserved.
//

package model

// IdentityType distinguishes org-internal identities from external
// collaborators (subcontractors, owners' reps).
type IdentityType string

// Identity types.
const (
	IdentityInternal IdentityType = "Internal"
	IdentityExternal IdentityType = "External"
)

// PermissionSource records which precedence layer selected the effective
// permission template.
type PermissionSource string

// Permission sources.
const (
	SourceSecurityGroupDefault PermissionSource = "SecurityGroupDefault"
	SourceProjectOverride      PermissionSource = "ProjectOverride"
	SourceDirectAssignment     PermissionSource = "DirectAssignment"
)

// ToolAccess grants a graded level and a set of granular flags for one
// tool. A toolKey absent from a template's ToolAccess list is equivalent
// to LevelNone with no flags.
type ToolAccess struct {
	ToolKey       string      `json:"toolKey" yaml:"toolKey"`
	Level         AccessLevel `json:"level" yaml:"level"`
	GranularFlags []string    `json:"granularFlags,omitempty" yaml:"granularFlags,omitempty"`
}

// PermissionTemplate is a named, versioned bundle of per-tool access
// levels and granular flags.
type PermissionTemplate struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// IsGlobal marks org-wide administrative templates.
	IsGlobal bool `json:"isGlobal" yaml:"isGlobal"`
	// GlobalAccess grants visibility into every project regardless of
	// assignment.
	GlobalAccess bool `json:"globalAccess" yaml:"globalAccess"`

	IdentityType IdentityType `json:"identityType" yaml:"identityType"`
	ToolAccess   []ToolAccess `json:"toolAccess" yaml:"toolAccess"`

	IsDefault        bool   `json:"isDefault" yaml:"isDefault"`
	IsActive         bool   `json:"isActive" yaml:"isActive"`
	Version          int    `json:"version" yaml:"version"`
	PromotedFromTier string `json:"promotedFromTier,omitempty" yaml:"promotedFromTier,omitempty"`
}

// SecurityGroupMapping binds a security group to its default permission
// template. A role maps to at most one active mapping.
type SecurityGroupMapping struct {
	SecurityGroupID   int64  `json:"securityGroupId" yaml:"securityGroupId"`
	SecurityGroupName string `json:"securityGroupName" yaml:"securityGroupName"`
	DefaultTemplateID int64  `json:"defaultTemplateId" yaml:"defaultTemplateId"`
	IsActive          bool   `json:"isActive" yaml:"isActive"`
}

// GranularFlagOverride adds granular flags to one tool of a user's
// effective template for a single project. The merge is additive.
type GranularFlagOverride struct {
	ToolKey string   `json:"toolKey" yaml:"toolKey"`
	Flags   []string `json:"flags" yaml:"flags"`
}

// ProjectTeamAssignment places a user on a project's team. At most one
// active assignment exists per (user, project); assignments are revoked by
// soft-deactivation, never hard delete.
type ProjectTeamAssignment struct {
	ProjectCode  string `json:"projectCode" yaml:"projectCode"`
	UserEmail    string `json:"userEmail" yaml:"userEmail"`
	AssignedRole string `json:"assignedRole" yaml:"assignedRole"`

	// TemplateOverrideID swaps the user's full template for this project
	// when non-zero.
	TemplateOverrideID    int64                  `json:"templateOverrideId,omitempty" yaml:"templateOverrideId,omitempty"`
	GranularFlagOverrides []GranularFlagOverride `json:"granularFlagOverrides,omitempty" yaml:"granularFlagOverrides,omitempty"`

	IsActive bool `json:"isActive" yaml:"isActive"`
}

// ResolvedPermissions is the merged, flattened permission outcome for a
// (user, optional project) pair. Ephemeral: recomputed on every call and
// never persisted; Permissions is always a pure function of ToolLevels and
// GranularFlags.
type ResolvedPermissions struct {
	UserEmail   string `json:"userEmail"`
	ProjectCode string `json:"projectCode,omitempty"`

	TemplateID   int64            `json:"templateId"`
	TemplateName string           `json:"templateName,omitempty"`
	Source       PermissionSource `json:"source,omitempty"`

	ToolLevels    map[string]AccessLevel `json:"toolLevels"`
	GranularFlags map[string][]string    `json:"granularFlags"`
	// Permissions is the flattened permission-string set, sorted for
	// deterministic output.
	Permissions []string `json:"permissions"`

	GlobalAccess bool `json:"globalAccess"`
}

// Level returns the effective level for a tool; tools not present resolve
// to LevelNone.
func (r *ResolvedPermissions) Level(toolKey string) AccessLevel {
	return r.ToolLevels[toolKey]
}

// Has reports whether the flattened permission set contains the given
// permission string.
func (r *ResolvedPermissions) Has(permission string) bool {
	for _, p := range r.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
