//
//  Copyright © Siteline Inc. All rights reserved.
//

// Package mock provides a programmable in-memory catalog for tests and
// local development. Enable it for the whole engine with mock.enabled in
// the configuration, or inject it directly with options.WithCatalog.
//
// Identifiers containing the substring "storageerror" fail with a storage
// reason code, which lets tests exercise I/O error propagation without a
// real backing store.
package mock

import (
	"context"
	"sort"
	"strings"

	"github.com/sitelinehq/assignmentengine/internal/logging"
	"github.com/sitelinehq/assignmentengine/pkg/common"
	"github.com/sitelinehq/assignmentengine/pkg/core/catalog"
	"github.com/sitelinehq/assignmentengine/pkg/core/model"
)

var logger = logging.GetLogger("assignmentengine.catalog.mock")
var mockAgent = "mock"

// Data holds the programmable catalog content. Populate the fields a test
// needs; everything else reads as empty.
type Data struct {
	Workflows     []model.WorkflowDefinition
	Overrides     []model.WorkflowStepOverride
	Templates     []model.PermissionTemplate
	GroupMappings []model.SecurityGroupMapping

	// Team, Assignments, and Attributes are keyed by project code.
	Team        map[string][]model.TeamMember
	Assignments map[string][]model.ProjectTeamAssignment
	Attributes  map[string]model.ProjectAttributes

	Flags []model.FeatureFlag

	// Roles is keyed by user email.
	Roles map[string][]string
}

// Factory creates mock [Service] instances for a [Data] set.
type Factory struct {
	data *Data
}

// Service implements [catalog.Service] over programmable in-memory data.
type Service struct {
	data *Data
}

// NewFactory creates a [catalog.Factory] serving the given data. A nil
// data set behaves as an empty catalog.
func NewFactory(data *Data) catalog.Factory {
	if data == nil {
		data = &Data{}
	}
	return &Factory{data: data}
}

// NewService creates a new mock catalog service.
func (f *Factory) NewService() (catalog.Service, error) {
	logger.Warn(mockAgent, "Init", "RUNNING IN MOCK MODE. SHOULD NOT BE USED IN PRODUCTION")
	return &Service{data: f.data}, nil
}

func storageFault(id string) *common.ResolutionError {
	if strings.Contains(id, "storageerror") {
		return common.NewError(common.ReasonStorage, "storage error")
	}
	return nil
}

// GetWorkflowDefinition retrieves the definition for a workflow key.
func (s *Service) GetWorkflowDefinition(ctx context.Context, workflowKey string) (*model.WorkflowDefinition, *common.ResolutionError) {
	if err := storageFault(workflowKey); err != nil {
		return nil, err
	}

	for i := range s.data.Workflows {
		if s.data.Workflows[i].WorkflowKey == workflowKey {
			wf := s.data.Workflows[i]
			return &wf, nil
		}
	}
	return nil, common.NewErrorf(common.ReasonNotFound, "workflow not found: %s", workflowKey)
}

// GetWorkflowOverrides retrieves the active step overrides for a project.
func (s *Service) GetWorkflowOverrides(ctx context.Context, projectCode string) ([]model.WorkflowStepOverride, *common.ResolutionError) {
	if err := storageFault(projectCode); err != nil {
		return nil, err
	}

	var out []model.WorkflowStepOverride
	for _, o := range s.data.Overrides {
		if o.ProjectCode == projectCode {
			out = append(out, o)
		}
	}
	return out, nil
}

// GetPermissionTemplate retrieves a template by id.
func (s *Service) GetPermissionTemplate(ctx context.Context, id int64) (*model.PermissionTemplate, *common.ResolutionError) {
	for i := range s.data.Templates {
		if s.data.Templates[i].ID == id {
			t := s.data.Templates[i]
			return &t, nil
		}
	}
	return nil, common.NewErrorf(common.ReasonNotFound, "permission template not found: %d", id)
}

// GetSecurityGroupMappings retrieves every security-group mapping.
func (s *Service) GetSecurityGroupMappings(ctx context.Context) ([]model.SecurityGroupMapping, *common.ResolutionError) {
	return s.data.GroupMappings, nil
}

// GetProjectTeamAssignments retrieves every assignment for a project.
func (s *Service) GetProjectTeamAssignments(ctx context.Context, projectCode string) ([]model.ProjectTeamAssignment, *common.ResolutionError) {
	if err := storageFault(projectCode); err != nil {
		return nil, err
	}
	return s.data.Assignments[projectCode], nil
}

// GetAssignmentFor retrieves the active assignment for a user on a project.
func (s *Service) GetAssignmentFor(ctx context.Context, userEmail, projectCode string) (*model.ProjectTeamAssignment, *common.ResolutionError) {
	if err := storageFault(userEmail); err != nil {
		return nil, err
	}
	if err := storageFault(projectCode); err != nil {
		return nil, err
	}

	for _, a := range s.data.Assignments[projectCode] {
		if a.IsActive && a.UserEmail == userEmail {
			a.ProjectCode = projectCode
			return &a, nil
		}
	}
	return nil, common.NewErrorf(common.ReasonNotFound, "no active assignment for %s on %s", userEmail, projectCode)
}

// GetTeamMembers retrieves the team roster of a project.
func (s *Service) GetTeamMembers(ctx context.Context, projectCode string) ([]model.TeamMember, *common.ResolutionError) {
	if err := storageFault(projectCode); err != nil {
		return nil, err
	}
	return s.data.Team[projectCode], nil
}

// GetAttributes retrieves the routing-relevant attributes of a project.
func (s *Service) GetAttributes(ctx context.Context, projectCode string) (model.ProjectAttributes, *common.ResolutionError) {
	if err := storageFault(projectCode); err != nil {
		return nil, err
	}

	attrs, ok := s.data.Attributes[projectCode]
	if !ok {
		return nil, common.NewErrorf(common.ReasonNotFound, "project not found: %s", projectCode)
	}
	return attrs, nil
}

// ListProjectCodes retrieves every project code in the mock registry.
func (s *Service) ListProjectCodes(ctx context.Context) ([]string, *common.ResolutionError) {
	var out []string
	for code := range s.data.Attributes {
		out = append(out, code)
	}
	for code := range s.data.Assignments {
		out = append(out, code)
	}
	out = common.Dedup(out)
	sort.Strings(out)
	return out, nil
}

// GetFlags retrieves the feature-flag set.
func (s *Service) GetFlags(ctx context.Context) ([]model.FeatureFlag, *common.ResolutionError) {
	return s.data.Flags, nil
}

// GetRolesFor retrieves the organizational roles of a user.
func (s *Service) GetRolesFor(ctx context.Context, userEmail string) ([]string, *common.ResolutionError) {
	if err := storageFault(userEmail); err != nil {
		return nil, err
	}
	return s.data.Roles[userEmail], nil
}
