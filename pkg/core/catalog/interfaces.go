//
//  Copyright © Siteline Inc. All rights reserved.
//

// Package catalog defines the read-port interfaces for the externally
// administered configuration the resolvers consume.
//
// A catalog service provides read access to workflow definitions,
// permission templates, security-group mappings, project team assignments,
// and the collaborator directories (team, project attributes, feature
// flags, roles). Storage of the catalogs is entirely the concern of the
// implementations; resolvers never write back.
//
// # Built-in Catalogs
//
// The following implementations are available:
//   - [local]: loads a catalog bundle from a local YAML file
//   - [sqlite]: reads catalog tables from a sqlite database
//   - Mock catalog (internal): programmable in-memory data, for testing
//
// # Implementing a Custom Catalog
//
// To serve catalog data from another store (a REST service, SharePoint
// lists, an ERP):
//
//  1. Implement the [Factory] interface to create service instances
//  2. Implement the [Service] interface to provide catalog data
//  3. Use the catalog with options.WithCatalog when creating the engine
//
// # Error Handling
//
// Methods return *[common.ResolutionError] instead of the standard error
// interface so callers can branch on reason codes. Not-found is reported
// with [common.ReasonNotFound] and is a normal outcome for resolvers;
// upstream I/O failures carry [common.ReasonStorage] and propagate
// unchanged.
package catalog

import (
	"context"

	"github.com/sitelinehq/assignmentengine/pkg/common"
	"github.com/sitelinehq/assignmentengine/pkg/core/model"
)

// Factory creates catalog [Service] instances.
//
// The factory pattern separates early initialization (configuration
// defaults) from late initialization (opening files or databases). The
// engine guarantees configuration is fully loaded before NewService is
// called; implementations should perform expensive work there, not during
// factory construction.
type Factory interface {
	// NewService creates a new catalog service instance.
	//
	// Returns an error if the catalog cannot be initialized (e.g. a
	// missing bundle file or unreachable database).
	NewService() (Service, error)
}

// WorkflowCatalog provides read access to workflow definitions and
// per-project step overrides.
type WorkflowCatalog interface {
	// GetWorkflowDefinition retrieves the definition for a workflow key.
	GetWorkflowDefinition(ctx context.Context, workflowKey string) (*model.WorkflowDefinition, *common.ResolutionError)

	// GetWorkflowOverrides retrieves the active step overrides for a
	// project, across all workflows. At most one override exists per
	// (projectCode, stepId).
	GetWorkflowOverrides(ctx context.Context, projectCode string) ([]model.WorkflowStepOverride, *common.ResolutionError)
}

// PermissionCatalog provides read access to permission templates,
// security-group mappings, and project team assignments.
type PermissionCatalog interface {
	// GetPermissionTemplate retrieves a template by id.
	GetPermissionTemplate(ctx context.Context, id int64) (*model.PermissionTemplate, *common.ResolutionError)

	// GetSecurityGroupMappings retrieves every security-group-to-template
	// mapping, active and inactive.
	GetSecurityGroupMappings(ctx context.Context) ([]model.SecurityGroupMapping, *common.ResolutionError)

	// GetProjectTeamAssignments retrieves every assignment for a project,
	// active and inactive.
	GetProjectTeamAssignments(ctx context.Context, projectCode string) ([]model.ProjectTeamAssignment, *common.ResolutionError)

	// GetAssignmentFor retrieves the active assignment for a user on a
	// project. Not-found is a normal outcome.
	GetAssignmentFor(ctx context.Context, userEmail, projectCode string) (*model.ProjectTeamAssignment, *common.ResolutionError)
}

// TeamDirectory supplies the current team roster of a project.
type TeamDirectory interface {
	// GetTeamMembers retrieves the team members of a project with their
	// project roles.
	GetTeamMembers(ctx context.Context, projectCode string) ([]model.TeamMember, *common.ResolutionError)
}

// ProjectDirectory supplies project attributes and the project registry.
type ProjectDirectory interface {
	// GetAttributes retrieves the routing-relevant attributes of a project.
	GetAttributes(ctx context.Context, projectCode string) (model.ProjectAttributes, *common.ResolutionError)

	// ListProjectCodes retrieves every project code known to the registry.
	ListProjectCodes(ctx context.Context) ([]string, *common.ResolutionError)
}

// FeatureFlagStore supplies the current feature-flag set.
type FeatureFlagStore interface {
	GetFlags(ctx context.Context) ([]model.FeatureFlag, *common.ResolutionError)
}

// RoleDirectory supplies the organizational roles of a user. Group
// membership is supplied here, never computed by the engine.
type RoleDirectory interface {
	GetRolesFor(ctx context.Context, userEmail string) ([]string, *common.ResolutionError)
}

// Service aggregates every catalog read port the resolvers need.
//
// All methods are safe for concurrent use by multiple goroutines. Each
// resolver call reads its own snapshot of catalog state; there is no
// shared transaction across the reads a resolution needs.
type Service interface {
	WorkflowCatalog
	PermissionCatalog
	TeamDirectory
	ProjectDirectory
	FeatureFlagStore
	RoleDirectory
}
