//
//  Copyright © Siteline Inc. All rights reserved.
//

// Package permissions resolves effective permissions: for a (user,
// optional project) pair it merges security-group defaults, project-level
// template overrides, and granular-flag overrides into one flattened
// [model.ResolvedPermissions].
//
// Resolution is total: when no template can be determined the resolver
// returns a zero-permission result rather than an error. The only errors
// reaching the caller are malformed identifiers and storage failures from
// the catalog reads.
//
// The role-to-group table and the tool-capability table are injected
// configuration (see the rolemap and capability packages), never
// compiled-in constants.
package permissions

import (
	"context"

	"github.com/sitelinehq/assignmentengine/internal/logging"
	"github.com/sitelinehq/assignmentengine/pkg/common"
	"github.com/sitelinehq/assignmentengine/pkg/core/capability"
	"github.com/sitelinehq/assignmentengine/pkg/core/catalog"
	"github.com/sitelinehq/assignmentengine/pkg/core/model"
	"github.com/sitelinehq/assignmentengine/pkg/core/rolemap"
)

var logger = logging.GetLogger("assignmentengine.permissions")

// Snapshot carries the per-user catalog reads a permission resolution
// needs. The template itself is fetched after the snapshot decides which
// template applies. As with chain resolution, the reads are independent
// and a torn snapshot is an accepted eventual-consistency risk.
type Snapshot struct {
	UserEmail   string
	ProjectCode string

	Roles    []string
	Mappings []model.SecurityGroupMapping
	// Assignment is the user's active assignment on ProjectCode, nil when
	// none exists or no project was supplied.
	Assignment *model.ProjectTeamAssignment
}

// Resolver resolves effective permissions against a catalog service.
type Resolver struct {
	catalog      catalog.Service
	roles        *rolemap.Table
	capabilities *capability.Table
}

// NewResolver creates a permission resolver. A nil role table falls back
// to [rolemap.DefaultTable]; a nil capability table flattens to an empty
// permission set.
func NewResolver(svc catalog.Service, roles *rolemap.Table, capabilities *capability.Table) *Resolver {
	if roles == nil {
		roles = rolemap.DefaultTable()
	}
	if capabilities == nil {
		capabilities = capability.NewTable()
	}
	return &Resolver{
		catalog:      svc,
		roles:        roles,
		capabilities: capabilities,
	}
}

// Snapshot fetches the catalog state a permission resolution needs.
// projectCode may be empty for a project-independent resolution.
func (r *Resolver) Snapshot(ctx context.Context, userEmail, projectCode string) (*Snapshot, *common.ResolutionError) {
	if userEmail == "" {
		return nil, common.NewError(common.ReasonInvalidParam, "empty userEmail")
	}

	snap := &Snapshot{
		UserEmail:   userEmail,
		ProjectCode: projectCode,
	}

	roles, err := r.catalog.GetRolesFor(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	snap.Roles = roles

	if snap.Mappings, err = r.catalog.GetSecurityGroupMappings(ctx); err != nil {
		return nil, err
	}

	if projectCode != "" {
		assignment, err := r.catalog.GetAssignmentFor(ctx, userEmail, projectCode)
		if err != nil && !common.IsNotFound(err) {
			return nil, err
		}
		snap.Assignment = assignment
	}

	return snap, nil
}

// Resolve computes the merged, flattened permissions for a user,
// optionally scoped to a project. Total: callers always get a well-formed
// result unless an identifier is malformed or a catalog read fails.
func (r *Resolver) Resolve(ctx context.Context, userEmail, projectCode string) (*model.ResolvedPermissions, *common.ResolutionError) {
	snap, err := r.Snapshot(ctx, userEmail, projectCode)
	if err != nil {
		return nil, err
	}

	templateID, source := r.selectTemplate(snap)
	if templateID == 0 {
		logger.Debugf(userEmail, "Resolve", "no template determined; returning zero permissions")
		return zeroPermissions(snap), nil
	}

	template, err := r.catalog.GetPermissionTemplate(ctx, templateID)
	if err != nil {
		if !common.IsNotFound(err) {
			return nil, err
		}
		// A dangling template reference is a misconfiguration; grants fail
		// closed.
		logger.Errorf(userEmail, "Resolve", "template %d has no backing record; returning zero permissions", templateID)
		return zeroPermissions(snap), nil
	}

	return r.buildResult(snap, template, source), nil
}

// selectTemplate walks the role-to-group table in priority order and
// returns the winning template id, falling back to the baseline group and
// then to the project override. A zero id means no template applies.
func (r *Resolver) selectTemplate(snap *Snapshot) (int64, model.PermissionSource) {
	active := make(map[string]int64, len(snap.Mappings))
	for _, m := range snap.Mappings {
		if m.IsActive {
			active[m.SecurityGroupName] = m.DefaultTemplateID
		}
	}

	var (
		templateID int64
		source     model.PermissionSource
	)

	for _, entry := range r.roles.Matches(snap.Roles) {
		if id, ok := active[entry.SecurityGroup]; ok {
			templateID = id
			source = model.SourceSecurityGroupDefault
			break
		}
	}
	if templateID == 0 {
		if id, ok := active[r.roles.BaselineGroup()]; ok {
			templateID = id
			source = model.SourceSecurityGroupDefault
		}
	}

	if snap.Assignment != nil && snap.Assignment.TemplateOverrideID != 0 {
		templateID = snap.Assignment.TemplateOverrideID
		source = model.SourceProjectOverride
	}

	return templateID, source
}

// buildResult merges the assignment's granular-flag overrides into the
// template's tool access and flattens the result.
func (r *Resolver) buildResult(snap *Snapshot, template *model.PermissionTemplate, source model.PermissionSource) *model.ResolvedPermissions {
	merged := make([]model.ToolAccess, len(template.ToolAccess))
	copy(merged, template.ToolAccess)

	if snap.Assignment != nil {
		for _, override := range snap.Assignment.GranularFlagOverrides {
			for i := range merged {
				if merged[i].ToolKey == override.ToolKey {
					// Additive union; duplicates are fine, flattening is
					// idempotent under them.
					flags := make([]string, 0, len(merged[i].GranularFlags)+len(override.Flags))
					flags = append(flags, merged[i].GranularFlags...)
					flags = append(flags, override.Flags...)
					merged[i].GranularFlags = flags
				}
			}
		}
	}

	toolLevels := make(map[string]model.AccessLevel, len(merged))
	granularFlags := make(map[string][]string)
	for _, ta := range merged {
		toolLevels[ta.ToolKey] = ta.Level
		if len(ta.GranularFlags) > 0 {
			granularFlags[ta.ToolKey] = common.Dedup(ta.GranularFlags)
		}
	}

	return &model.ResolvedPermissions{
		UserEmail:     snap.UserEmail,
		ProjectCode:   snap.ProjectCode,
		TemplateID:    template.ID,
		TemplateName:  template.Name,
		Source:        source,
		ToolLevels:    toolLevels,
		GranularFlags: granularFlags,
		Permissions:   r.capabilities.Flatten(merged),
		GlobalAccess:  template.GlobalAccess,
	}
}

func zeroPermissions(snap *Snapshot) *model.ResolvedPermissions {
	return &model.ResolvedPermissions{
		UserEmail:     snap.UserEmail,
		ProjectCode:   snap.ProjectCode,
		ToolLevels:    map[string]model.AccessLevel{},
		GranularFlags: map[string][]string{},
		Permissions:   []string{},
	}
}

// GetAccessibleProjects returns the project codes visible to a user:
// every registered project when the user's template grants global access,
// otherwise the projects where the user holds an active assignment. The
// result is deduplicated.
func (r *Resolver) GetAccessibleProjects(ctx context.Context, userEmail string) ([]string, *common.ResolutionError) {
	resolved, err := r.Resolve(ctx, userEmail, "")
	if err != nil {
		return nil, err
	}

	codes, err := r.catalog.ListProjectCodes(ctx)
	if err != nil {
		return nil, err
	}
	codes = common.Dedup(codes)

	if resolved.GlobalAccess {
		return codes, nil
	}

	var out []string
	for _, code := range codes {
		assignment, err := r.catalog.GetAssignmentFor(ctx, userEmail, code)
		if err != nil {
			if common.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if assignment != nil && assignment.IsActive {
			out = append(out, code)
		}
	}
	return common.Dedup(out), nil
}
