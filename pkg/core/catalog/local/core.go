//
//  Copyright © Siteline Inc. All rights reserved.
//

package local

import (
	"context"

	"github.com/mohae/deepcopy"
	"github.com/sitelinehq/assignmentengine/internal/logging"
	"github.com/sitelinehq/assignmentengine/pkg/common"
	"github.com/sitelinehq/assignmentengine/pkg/core/catalog"
	"github.com/sitelinehq/assignmentengine/pkg/core/model"
)

var logger = logging.GetLogger("assignmentengine.catalog.local")
var actor = "catalog.local"

// Factory creates [Service] instances from a loaded [Bundle].
type Factory struct {
	bundle *Bundle
}

// Service implements [catalog.Service] over an in-memory bundle.
//
// Returned entities are deep copies; callers can hold them across
// subsequent loads without aliasing bundle state.
type Service struct {
	bundle *Bundle
}

// NewFactory creates a [catalog.Factory] for the local catalog.
//
// The bundle must be fully loaded and validated before calling NewFactory.
// Use [LoadBundle] to create the bundle from a file path.
func NewFactory(bundle *Bundle) catalog.Factory {
	return &Factory{bundle: bundle}
}

// NewService creates a [Service] serving the factory's bundle.
func (f *Factory) NewService() (catalog.Service, error) {
	return &Service{bundle: f.bundle}, nil
}

// GetWorkflowDefinition retrieves the definition for a workflow key.
func (s *Service) GetWorkflowDefinition(ctx context.Context, workflowKey string) (*model.WorkflowDefinition, *common.ResolutionError) {
	logger.Debugf(actor, "GetWorkflowDefinition", "key: %s", workflowKey)

	for i := range s.bundle.Workflows {
		if s.bundle.Workflows[i].WorkflowKey == workflowKey {
			wf := deepcopy.Copy(s.bundle.Workflows[i]).(model.WorkflowDefinition)
			return &wf, nil
		}
	}

	return nil, common.NewErrorf(common.ReasonNotFound, "workflow not found: %s", workflowKey)
}

// GetWorkflowOverrides retrieves the active step overrides for a project.
func (s *Service) GetWorkflowOverrides(ctx context.Context, projectCode string) ([]model.WorkflowStepOverride, *common.ResolutionError) {
	var out []model.WorkflowStepOverride
	for _, o := range s.bundle.Overrides {
		if o.ProjectCode == projectCode {
			out = append(out, o)
		}
	}
	return out, nil
}

// GetPermissionTemplate retrieves a template by id.
func (s *Service) GetPermissionTemplate(ctx context.Context, id int64) (*model.PermissionTemplate, *common.ResolutionError) {
	for i := range s.bundle.Templates {
		if s.bundle.Templates[i].ID == id {
			t := deepcopy.Copy(s.bundle.Templates[i]).(model.PermissionTemplate)
			return &t, nil
		}
	}
	return nil, common.NewErrorf(common.ReasonNotFound, "permission template not found: %d", id)
}

// GetSecurityGroupMappings retrieves every security-group mapping.
func (s *Service) GetSecurityGroupMappings(ctx context.Context) ([]model.SecurityGroupMapping, *common.ResolutionError) {
	out := make([]model.SecurityGroupMapping, len(s.bundle.GroupMappings))
	copy(out, s.bundle.GroupMappings)
	return out, nil
}

func (s *Service) project(code string) *Project {
	for i := range s.bundle.Projects {
		if s.bundle.Projects[i].Code == code {
			return &s.bundle.Projects[i]
		}
	}
	return nil
}

// GetProjectTeamAssignments retrieves every assignment for a project.
func (s *Service) GetProjectTeamAssignments(ctx context.Context, projectCode string) ([]model.ProjectTeamAssignment, *common.ResolutionError) {
	p := s.project(projectCode)
	if p == nil {
		return nil, nil
	}

	out := make([]model.ProjectTeamAssignment, 0, len(p.Assignments))
	for _, a := range p.Assignments {
		a := deepcopy.Copy(a).(model.ProjectTeamAssignment)
		// nested bundle rows may omit the redundant project code
		a.ProjectCode = projectCode
		out = append(out, a)
	}
	return out, nil
}

// GetAssignmentFor retrieves the active assignment for a user on a project.
func (s *Service) GetAssignmentFor(ctx context.Context, userEmail, projectCode string) (*model.ProjectTeamAssignment, *common.ResolutionError) {
	assignments, err := s.GetProjectTeamAssignments(ctx, projectCode)
	if err != nil {
		return nil, err
	}

	for i := range assignments {
		if assignments[i].IsActive && assignments[i].UserEmail == userEmail {
			return &assignments[i], nil
		}
	}

	return nil, common.NewErrorf(common.ReasonNotFound, "no active assignment for %s on %s", userEmail, projectCode)
}

// GetTeamMembers retrieves the team roster of a project.
func (s *Service) GetTeamMembers(ctx context.Context, projectCode string) ([]model.TeamMember, *common.ResolutionError) {
	p := s.project(projectCode)
	if p == nil {
		return nil, nil
	}

	out := make([]model.TeamMember, len(p.Team))
	copy(out, p.Team)
	return out, nil
}

// GetAttributes retrieves the routing-relevant attributes of a project.
func (s *Service) GetAttributes(ctx context.Context, projectCode string) (model.ProjectAttributes, *common.ResolutionError) {
	p := s.project(projectCode)
	if p == nil {
		return nil, common.NewErrorf(common.ReasonNotFound, "project not found: %s", projectCode)
	}

	out := make(model.ProjectAttributes, len(p.Attributes))
	for k, v := range p.Attributes {
		out[k] = v
	}
	return out, nil
}

// ListProjectCodes retrieves every project code in the bundle.
func (s *Service) ListProjectCodes(ctx context.Context) ([]string, *common.ResolutionError) {
	out := make([]string, 0, len(s.bundle.Projects))
	for _, p := range s.bundle.Projects {
		out = append(out, p.Code)
	}
	return common.Dedup(out), nil
}

// GetFlags retrieves the feature-flag set of the bundle.
func (s *Service) GetFlags(ctx context.Context) ([]model.FeatureFlag, *common.ResolutionError) {
	out := make([]model.FeatureFlag, len(s.bundle.FeatureFlags))
	copy(out, s.bundle.FeatureFlags)
	return out, nil
}

// GetRolesFor retrieves the organizational roles of a user.
func (s *Service) GetRolesFor(ctx context.Context, userEmail string) ([]string, *common.ResolutionError) {
	for _, u := range s.bundle.Users {
		if u.Email == userEmail {
			out := make([]string, len(u.Roles))
			copy(out, u.Roles)
			return out, nil
		}
	}

	logger.Debugf(actor, "GetRolesFor", "no roles recorded for %s", userEmail)
	return nil, nil
}
