//
//  Copyright © Siteline Inc. All rights reserved.
//

package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/sitelinehq/assignmentengine/pkg/common"
	"github.com/sitelinehq/assignmentengine/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(t *testing.T) *Service {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc := NewService(db)
	require.NoError(t, svc.InitSchema())

	seed := []string{
		`INSERT INTO workflows (id, workflow_key, name) VALUES (1, 'buyout', 'Buyout Approval')`,
		`INSERT INTO workflow_steps (id, workflow_id, step_order, name, assignment_type, project_role)
		 VALUES (11, 1, 10, 'PM Review', 'ProjectRole', 'PM')`,
		`INSERT INTO workflow_steps (id, workflow_id, step_order, name, assignment_type, default_assignee,
		        conditional_assignees, is_conditional)
		 VALUES (12, 1, 20, 'Risk Review', 'NamedPerson',
		         '{"userId":"u1","displayName":"Sam Ortiz","email":"sam@example.com"}',
		         '[{"stepId":12,"conditions":[{"field":"Division","value":"Commercial"}],
		            "assignee":{"userId":"u2","displayName":"Lee Park","email":"lee@example.com"},"priority":1}]',
		         1)`,
		`INSERT INTO workflow_overrides (project_code, workflow_key, step_id, assignee, reason)
		 VALUES ('P-100', 'buyout', 12, '{"userId":"u9","displayName":"Alex Kim","email":"alex@example.com"}', 'PX on leave')`,
		`INSERT INTO permission_templates (id, name, is_active, identity_type, tool_access)
		 VALUES (1, 'Field Standard', 1, 'Internal', '[{"toolKey":"leads","level":"STANDARD","granularFlags":[]}]')`,
		`INSERT INTO group_mappings (security_group_id, security_group_name, default_template_id, is_active)
		 VALUES (10, 'Operations', 1, 1)`,
		`INSERT INTO team_assignments (project_code, user_email, assigned_role, is_active)
		 VALUES ('P-100', 'dana@example.com', 'PM', 1)`,
		`INSERT INTO team_assignments (project_code, user_email, assigned_role, is_active)
		 VALUES ('P-100', 'old@example.com', 'PM', 0)`,
		`INSERT INTO team_members (project_code, member_id, role, name, email)
		 VALUES ('P-100', 'u7', 'PM', 'Dana Reyes', 'dana@example.com')`,
		`INSERT INTO projects (code, division, region, sector) VALUES ('P-100', 'Commercial', 'Southeast', '')`,
		`INSERT INTO feature_flags (name, enabled) VALUES ('meeting-chair', 1)`,
		`INSERT INTO user_roles (email, roles) VALUES ('dana@example.com', '["Project Manager"]')`,
	}
	for _, stmt := range seed {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	return svc
}

func TestGetWorkflowDefinition(t *testing.T) {
	svc := testService(t)

	wf, err := svc.GetWorkflowDefinition(context.Background(), "buyout")
	require.Nil(t, err)
	assert.Equal(t, "Buyout Approval", wf.Name)
	require.Len(t, wf.Steps, 2)

	assert.Equal(t, "PM", wf.Steps[0].ProjectRole)

	risk := wf.Steps[1]
	require.NotNil(t, risk.DefaultAssignee)
	assert.Equal(t, "Sam Ortiz", risk.DefaultAssignee.DisplayName)
	require.Len(t, risk.ConditionalAssignees, 1)
	assert.Equal(t, model.FieldDivision, risk.ConditionalAssignees[0].Conditions[0].Field)

	_, nferr := svc.GetWorkflowDefinition(context.Background(), "nonexistent")
	assert.True(t, common.IsNotFound(nferr))
}

func TestGetWorkflowOverrides(t *testing.T) {
	svc := testService(t)

	overrides, err := svc.GetWorkflowOverrides(context.Background(), "P-100")
	require.Nil(t, err)
	require.Len(t, overrides, 1)
	assert.Equal(t, int64(12), overrides[0].StepID)
	assert.Equal(t, "Alex Kim", overrides[0].OverrideAssignee.DisplayName)

	none, err := svc.GetWorkflowOverrides(context.Background(), "P-999")
	require.Nil(t, err)
	assert.Empty(t, none)
}

func TestGetPermissionTemplate(t *testing.T) {
	svc := testService(t)

	tmpl, err := svc.GetPermissionTemplate(context.Background(), 1)
	require.Nil(t, err)
	assert.Equal(t, "Field Standard", tmpl.Name)
	assert.Equal(t, model.IdentityInternal, tmpl.IdentityType)
	require.Len(t, tmpl.ToolAccess, 1)
	assert.Equal(t, model.LevelStandard, tmpl.ToolAccess[0].Level)

	_, nferr := svc.GetPermissionTemplate(context.Background(), 42)
	assert.True(t, common.IsNotFound(nferr))
}

func TestGetAssignmentFor(t *testing.T) {
	svc := testService(t)

	a, err := svc.GetAssignmentFor(context.Background(), "dana@example.com", "P-100")
	require.Nil(t, err)
	assert.Equal(t, "PM", a.AssignedRole)

	_, derr := svc.GetAssignmentFor(context.Background(), "old@example.com", "P-100")
	assert.True(t, common.IsNotFound(derr))
}

func TestProjectReads(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	attrs, err := svc.GetAttributes(ctx, "P-100")
	require.Nil(t, err)
	assert.Equal(t, "Commercial", attrs[model.FieldDivision])
	assert.Equal(t, "Southeast", attrs[model.FieldRegion])

	_, nferr := svc.GetAttributes(ctx, "P-999")
	assert.True(t, common.IsNotFound(nferr))

	codes, err := svc.ListProjectCodes(ctx)
	require.Nil(t, err)
	assert.Equal(t, []string{"P-100"}, codes)

	team, err := svc.GetTeamMembers(ctx, "P-100")
	require.Nil(t, err)
	require.Len(t, team, 1)
	assert.Equal(t, "Dana Reyes", team[0].Name)

	assignments, err := svc.GetProjectTeamAssignments(ctx, "P-100")
	require.Nil(t, err)
	assert.Len(t, assignments, 2)
}

func TestDirectoryReads(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	flags, err := svc.GetFlags(ctx)
	require.Nil(t, err)
	require.Len(t, flags, 1)
	assert.True(t, flags[0].Enabled)

	mappings, err := svc.GetSecurityGroupMappings(ctx)
	require.Nil(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, int64(1), mappings[0].DefaultTemplateID)

	roles, err := svc.GetRolesFor(ctx, "dana@example.com")
	require.Nil(t, err)
	assert.Equal(t, []string{"Project Manager"}, roles)

	unknown, err := svc.GetRolesFor(ctx, "nobody@example.com")
	require.Nil(t, err)
	assert.Empty(t, unknown)
}
