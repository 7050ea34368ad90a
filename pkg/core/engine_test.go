//
//  Copyright © Siteline Inc. All rights reserved.
//

package core

import (
	"context"
	"testing"

	channellog "github.com/sitelinehq/assignmentengine/internal/core/auditlog"
	"github.com/sitelinehq/assignmentengine/internal/core/catalog/mock"
	"github.com/sitelinehq/assignmentengine/pkg/common"
	"github.com/sitelinehq/assignmentengine/pkg/core/auditlog"
	"github.com/sitelinehq/assignmentengine/pkg/core/capability"
	"github.com/sitelinehq/assignmentengine/pkg/core/model"
	"github.com/sitelinehq/assignmentengine/pkg/core/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sam = model.Assignee{UserID: "u1", DisplayName: "Sam Ortiz", Email: "sam@example.com"}

func testData() *mock.Data {
	return &mock.Data{
		Workflows: []model.WorkflowDefinition{{
			ID:          1,
			WorkflowKey: "buyout",
			Name:        "Buyout Approval",
			Steps: []model.WorkflowStep{
				{ID: 11, StepOrder: 10, Name: "PM Review", AssignmentType: model.AssignProjectRole, ProjectRole: "PM"},
				{ID: 12, StepOrder: 20, Name: "Risk Review", AssignmentType: model.AssignNamedPerson, DefaultAssignee: &sam},
			},
		}},
		Templates: []model.PermissionTemplate{{
			ID:       1,
			Name:     "Field Standard",
			IsActive: true,
			ToolAccess: []model.ToolAccess{
				{ToolKey: "leads", Level: model.LevelStandard},
			},
		}},
		GroupMappings: []model.SecurityGroupMapping{
			{SecurityGroupID: 10, SecurityGroupName: "Operations", DefaultTemplateID: 1, IsActive: true},
		},
		Team: map[string][]model.TeamMember{
			"P-100": {{ID: "u7", Role: "PM", Name: "Dana Reyes", Email: "dana@example.com"}},
		},
		Assignments: map[string][]model.ProjectTeamAssignment{
			"P-100": {{UserEmail: "dana@example.com", AssignedRole: "PM", IsActive: true}},
		},
		Attributes: map[string]model.ProjectAttributes{
			"P-100": {model.FieldDivision: "Commercial"},
		},
		Roles: map[string][]string{
			"dana@example.com": {"Project Manager"},
		},
	}
}

func testEngine(t *testing.T) (Engine, chan *auditlog.ResolutionRecord) {
	t.Helper()

	ch := make(chan *auditlog.ResolutionRecord, 10)
	caps := capability.NewTable().
		RegisterLevel("leads", model.LevelReadOnly, "leads.read").
		RegisterLevel("leads", model.LevelStandard, "leads.write")

	engine, err := NewEngine(
		options.WithCatalog(mock.NewFactory(testData())),
		options.WithCapabilityTable(caps),
		options.WithAuditLog(channellog.NewChannelLogger(ch)),
	)
	require.NoError(t, err)
	return engine, ch
}

func TestNewEngineDefaults(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)
	defer engine.Close()

	assert.NotNil(t, engine.GetCatalog())

	// The default mock catalog is empty; unknown keys resolve to defaults
	steps, rerr := engine.ResolveChain(context.Background(), "buyout", "P-100")
	require.Nil(t, rerr)
	assert.Empty(t, steps)
}

func TestEngineResolveChain(t *testing.T) {
	engine, ch := testEngine(t)

	steps, err := engine.ResolveChain(context.Background(), "buyout", "P-100")
	require.Nil(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "Dana Reyes", steps[0].Assignee.DisplayName)
	assert.Equal(t, sam, steps[1].Assignee)

	record := <-ch
	assert.Equal(t, auditlog.KindWorkflow, record.Kind)
	assert.Equal(t, "buyout", record.WorkflowKey)
	assert.Equal(t, "P-100", record.ProjectCode)
	assert.Equal(t, "2 steps resolved", record.Outcome)
	assert.Empty(t, record.Error)
}

func TestEngineResolvePermissions(t *testing.T) {
	engine, ch := testEngine(t)

	resolved, err := engine.ResolvePermissions(context.Background(), "dana@example.com", "P-100")
	require.Nil(t, err)
	assert.Equal(t, int64(1), resolved.TemplateID)
	assert.True(t, resolved.Has("leads.write"))

	record := <-ch
	assert.Equal(t, auditlog.KindPermission, record.Kind)
	assert.Equal(t, "dana@example.com", record.UserEmail)
	assert.Equal(t, "template 1 (SecurityGroupDefault)", record.Outcome)
}

func TestEngineAuditsErrors(t *testing.T) {
	engine, ch := testEngine(t)

	_, err := engine.ResolveChain(context.Background(), "", "P-100")
	require.NotNil(t, err)
	assert.Equal(t, common.ReasonInvalidParam, err.ReasonCode)

	record := <-ch
	assert.Equal(t, "error", record.Outcome)
	assert.NotEmpty(t, record.Error)
}

func TestEngineGetAccessibleProjects(t *testing.T) {
	engine, _ := testEngine(t)

	codes, err := engine.GetAccessibleProjects(context.Background(), "dana@example.com")
	require.Nil(t, err)
	assert.Equal(t, []string{"P-100"}, codes)
}
