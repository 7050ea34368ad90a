//
//  Copyright © Siteline Inc. All rights reserved.
//

// Package sqlite provides a catalog implementation backed by a sqlite
// database, for deployments where the administrative tooling maintains
// catalog tables in a sqlite file.
//
// The package uses the pure-Go modernc.org/sqlite driver, so no cgo is
// involved. Nested structures (tool access lists, conditional assignment
// rules, assignee records) are stored as JSON columns; the flat columns
// are the ones the catalog queries filter on.
//
// # Usage
//
//	engine, err := core.NewEngine(
//	    options.WithCatalog(sqlite.NewFactory("./catalog.db")),
//	)
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/sitelinehq/assignmentengine/internal/logging"
	"github.com/sitelinehq/assignmentengine/pkg/common"
	"github.com/sitelinehq/assignmentengine/pkg/core/catalog"
	"github.com/sitelinehq/assignmentengine/pkg/core/model"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

var logger = logging.GetLogger("assignmentengine.catalog.sqlite")
var actor = "catalog.sqlite"

// Factory creates [Service] instances for a sqlite database path.
type Factory struct {
	path string
}

// Service implements [catalog.Service] over a sqlite database.
type Service struct {
	db *sql.DB
}

// NewFactory creates a [catalog.Factory] for the sqlite catalog.
// The database is opened when NewService is called.
func NewFactory(path string) catalog.Factory {
	return &Factory{path: path}
}

// NewService opens the database and verifies connectivity.
func (f *Factory) NewService() (catalog.Service, error) {
	db, err := sql.Open("sqlite", f.path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening catalog database %s", f.path)
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrapf(err, "pinging catalog database %s", f.path)
	}
	return &Service{db: db}, nil
}

// NewService wraps an already-open database handle. Useful for tests and
// for applications that manage the connection themselves.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Close releases the underlying database handle.
func (s *Service) Close() error {
	return s.db.Close()
}

// InitSchema creates the catalog tables if they do not exist. The
// administrative tooling normally owns the schema; this exists for tests
// and bootstrap.
func (s *Service) InitSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS workflows (
			id INTEGER PRIMARY KEY,
			workflow_key TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS workflow_steps (
			id INTEGER PRIMARY KEY,
			workflow_id INTEGER NOT NULL,
			step_order INTEGER NOT NULL,
			name TEXT NOT NULL,
			assignment_type TEXT NOT NULL,
			project_role TEXT,
			default_assignee TEXT,
			conditional_assignees TEXT,
			is_conditional INTEGER NOT NULL DEFAULT 0,
			action_label TEXT,
			can_chair_meeting INTEGER NOT NULL DEFAULT 0,
			feature_flag_name TEXT,
			is_skippable INTEGER NOT NULL DEFAULT 0,
			UNIQUE(workflow_id, step_order)
		);
		CREATE TABLE IF NOT EXISTS workflow_overrides (
			project_code TEXT NOT NULL,
			workflow_key TEXT NOT NULL,
			step_id INTEGER NOT NULL,
			assignee TEXT NOT NULL,
			reason TEXT,
			overridden_by TEXT,
			overridden_date TIMESTAMP,
			PRIMARY KEY(project_code, step_id)
		);
		CREATE TABLE IF NOT EXISTS permission_templates (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			is_global INTEGER NOT NULL DEFAULT 0,
			global_access INTEGER NOT NULL DEFAULT 0,
			identity_type TEXT,
			tool_access TEXT,
			is_default INTEGER NOT NULL DEFAULT 0,
			is_active INTEGER NOT NULL DEFAULT 1,
			version INTEGER NOT NULL DEFAULT 1,
			promoted_from_tier TEXT
		);
		CREATE TABLE IF NOT EXISTS group_mappings (
			security_group_id INTEGER PRIMARY KEY,
			security_group_name TEXT NOT NULL,
			default_template_id INTEGER NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 1
		);
		CREATE TABLE IF NOT EXISTS team_assignments (
			project_code TEXT NOT NULL,
			user_email TEXT NOT NULL,
			assigned_role TEXT,
			template_override_id INTEGER,
			flag_overrides TEXT,
			is_active INTEGER NOT NULL DEFAULT 1
		);
		CREATE TABLE IF NOT EXISTS team_members (
			project_code TEXT NOT NULL,
			member_id TEXT NOT NULL,
			role TEXT NOT NULL,
			name TEXT NOT NULL,
			email TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS projects (
			code TEXT PRIMARY KEY,
			division TEXT,
			region TEXT,
			sector TEXT
		);
		CREATE TABLE IF NOT EXISTS feature_flags (
			name TEXT PRIMARY KEY,
			enabled INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS user_roles (
			email TEXT PRIMARY KEY,
			roles TEXT NOT NULL
		);
	`)
	return errors.Wrap(err, "initializing catalog schema")
}

func storageError(op string, err error) *common.ResolutionError {
	logger.Errorf(actor, op, "storage error: %+v", err)
	return common.NewErrorf(common.ReasonStorage, "%s: %s", op, err)
}

func unmarshalJSON(data sql.NullString, out interface{}) error {
	if !data.Valid || data.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(data.String), out)
}

// GetWorkflowDefinition retrieves a workflow and its steps by key.
func (s *Service) GetWorkflowDefinition(ctx context.Context, workflowKey string) (*model.WorkflowDefinition, *common.ResolutionError) {
	var wf model.WorkflowDefinition
	err := s.db.QueryRowContext(ctx,
		`SELECT id, workflow_key, name FROM workflows WHERE workflow_key = ?`, workflowKey).
		Scan(&wf.ID, &wf.WorkflowKey, &wf.Name)
	if err == sql.ErrNoRows {
		return nil, common.NewErrorf(common.ReasonNotFound, "workflow not found: %s", workflowKey)
	}
	if err != nil {
		return nil, storageError("GetWorkflowDefinition", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, workflow_id, step_order, name, assignment_type, project_role,
		       default_assignee, conditional_assignees, is_conditional,
		       action_label, can_chair_meeting, feature_flag_name, is_skippable
		FROM workflow_steps WHERE workflow_id = ? ORDER BY step_order`, wf.ID)
	if err != nil {
		return nil, storageError("GetWorkflowDefinition", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			step                  model.WorkflowStep
			projectRole           sql.NullString
			defaultAssignee       sql.NullString
			conditionalAssignees  sql.NullString
			actionLabel, flagName sql.NullString
		)
		if err := rows.Scan(&step.ID, &step.WorkflowID, &step.StepOrder, &step.Name,
			&step.AssignmentType, &projectRole, &defaultAssignee, &conditionalAssignees,
			&step.IsConditional, &actionLabel, &step.CanChairMeeting, &flagName,
			&step.IsSkippable); err != nil {
			return nil, storageError("GetWorkflowDefinition", err)
		}

		step.ProjectRole = projectRole.String
		step.ActionLabel = actionLabel.String
		step.FeatureFlagName = flagName.String

		if defaultAssignee.Valid && defaultAssignee.String != "" {
			var a model.Assignee
			if err := unmarshalJSON(defaultAssignee, &a); err != nil {
				return nil, storageError("GetWorkflowDefinition", err)
			}
			step.DefaultAssignee = &a
		}
		if err := unmarshalJSON(conditionalAssignees, &step.ConditionalAssignees); err != nil {
			return nil, storageError("GetWorkflowDefinition", err)
		}

		wf.Steps = append(wf.Steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("GetWorkflowDefinition", err)
	}

	return &wf, nil
}

// GetWorkflowOverrides retrieves the overrides for a project.
func (s *Service) GetWorkflowOverrides(ctx context.Context, projectCode string) ([]model.WorkflowStepOverride, *common.ResolutionError) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT project_code, workflow_key, step_id, assignee, reason, overridden_by, overridden_date
		FROM workflow_overrides WHERE project_code = ?`, projectCode)
	if err != nil {
		return nil, storageError("GetWorkflowOverrides", err)
	}
	defer rows.Close()

	var out []model.WorkflowStepOverride
	for rows.Next() {
		var (
			o              model.WorkflowStepOverride
			assignee       string
			reason, by     sql.NullString
			overriddenDate sql.NullTime
		)
		if err := rows.Scan(&o.ProjectCode, &o.WorkflowKey, &o.StepID, &assignee,
			&reason, &by, &overriddenDate); err != nil {
			return nil, storageError("GetWorkflowOverrides", err)
		}
		if err := json.Unmarshal([]byte(assignee), &o.OverrideAssignee); err != nil {
			return nil, storageError("GetWorkflowOverrides", err)
		}
		o.OverrideReason = reason.String
		o.OverriddenBy = by.String
		if overriddenDate.Valid {
			o.OverriddenDate = overriddenDate.Time
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("GetWorkflowOverrides", err)
	}
	return out, nil
}

// GetPermissionTemplate retrieves a template by id.
func (s *Service) GetPermissionTemplate(ctx context.Context, id int64) (*model.PermissionTemplate, *common.ResolutionError) {
	var (
		t            model.PermissionTemplate
		description  sql.NullString
		identityType sql.NullString
		toolAccess   sql.NullString
		tier         sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, is_global, global_access, identity_type,
		       tool_access, is_default, is_active, version, promoted_from_tier
		FROM permission_templates WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &description, &t.IsGlobal, &t.GlobalAccess, &identityType,
			&toolAccess, &t.IsDefault, &t.IsActive, &t.Version, &tier)
	if err == sql.ErrNoRows {
		return nil, common.NewErrorf(common.ReasonNotFound, "permission template not found: %d", id)
	}
	if err != nil {
		return nil, storageError("GetPermissionTemplate", err)
	}

	t.Description = description.String
	t.IdentityType = model.IdentityType(identityType.String)
	t.PromotedFromTier = tier.String
	if err := unmarshalJSON(toolAccess, &t.ToolAccess); err != nil {
		return nil, storageError("GetPermissionTemplate", err)
	}
	return &t, nil
}

// GetSecurityGroupMappings retrieves every security-group mapping.
func (s *Service) GetSecurityGroupMappings(ctx context.Context) ([]model.SecurityGroupMapping, *common.ResolutionError) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT security_group_id, security_group_name, default_template_id, is_active
		FROM group_mappings`)
	if err != nil {
		return nil, storageError("GetSecurityGroupMappings", err)
	}
	defer rows.Close()

	var out []model.SecurityGroupMapping
	for rows.Next() {
		var m model.SecurityGroupMapping
		if err := rows.Scan(&m.SecurityGroupID, &m.SecurityGroupName, &m.DefaultTemplateID, &m.IsActive); err != nil {
			return nil, storageError("GetSecurityGroupMappings", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("GetSecurityGroupMappings", err)
	}
	return out, nil
}

func scanAssignments(rows *sql.Rows) ([]model.ProjectTeamAssignment, error) {
	var out []model.ProjectTeamAssignment
	for rows.Next() {
		var (
			a             model.ProjectTeamAssignment
			role          sql.NullString
			overrideID    sql.NullInt64
			flagOverrides sql.NullString
		)
		if err := rows.Scan(&a.ProjectCode, &a.UserEmail, &role, &overrideID, &flagOverrides, &a.IsActive); err != nil {
			return nil, err
		}
		a.AssignedRole = role.String
		a.TemplateOverrideID = overrideID.Int64
		if err := unmarshalJSON(flagOverrides, &a.GranularFlagOverrides); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetProjectTeamAssignments retrieves every assignment for a project.
func (s *Service) GetProjectTeamAssignments(ctx context.Context, projectCode string) ([]model.ProjectTeamAssignment, *common.ResolutionError) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT project_code, user_email, assigned_role, template_override_id, flag_overrides, is_active
		FROM team_assignments WHERE project_code = ?`, projectCode)
	if err != nil {
		return nil, storageError("GetProjectTeamAssignments", err)
	}
	defer rows.Close()

	out, err := scanAssignments(rows)
	if err != nil {
		return nil, storageError("GetProjectTeamAssignments", err)
	}
	return out, nil
}

// GetAssignmentFor retrieves the active assignment for a user on a project.
func (s *Service) GetAssignmentFor(ctx context.Context, userEmail, projectCode string) (*model.ProjectTeamAssignment, *common.ResolutionError) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT project_code, user_email, assigned_role, template_override_id, flag_overrides, is_active
		FROM team_assignments
		WHERE project_code = ? AND user_email = ? AND is_active = 1`, projectCode, userEmail)
	if err != nil {
		return nil, storageError("GetAssignmentFor", err)
	}
	defer rows.Close()

	out, err := scanAssignments(rows)
	if err != nil {
		return nil, storageError("GetAssignmentFor", err)
	}
	if len(out) == 0 {
		return nil, common.NewErrorf(common.ReasonNotFound, "no active assignment for %s on %s", userEmail, projectCode)
	}
	return &out[0], nil
}

// GetTeamMembers retrieves the team roster of a project.
func (s *Service) GetTeamMembers(ctx context.Context, projectCode string) ([]model.TeamMember, *common.ResolutionError) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT member_id, role, name, email FROM team_members WHERE project_code = ?`, projectCode)
	if err != nil {
		return nil, storageError("GetTeamMembers", err)
	}
	defer rows.Close()

	var out []model.TeamMember
	for rows.Next() {
		var m model.TeamMember
		if err := rows.Scan(&m.ID, &m.Role, &m.Name, &m.Email); err != nil {
			return nil, storageError("GetTeamMembers", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("GetTeamMembers", err)
	}
	return out, nil
}

// GetAttributes retrieves the routing-relevant attributes of a project.
func (s *Service) GetAttributes(ctx context.Context, projectCode string) (model.ProjectAttributes, *common.ResolutionError) {
	var division, region, sector sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT division, region, sector FROM projects WHERE code = ?`, projectCode).
		Scan(&division, &region, &sector)
	if err == sql.ErrNoRows {
		return nil, common.NewErrorf(common.ReasonNotFound, "project not found: %s", projectCode)
	}
	if err != nil {
		return nil, storageError("GetAttributes", err)
	}

	return model.ProjectAttributes{
		model.FieldDivision: division.String,
		model.FieldRegion:   region.String,
		model.FieldSector:   sector.String,
	}, nil
}

// ListProjectCodes retrieves every project code.
func (s *Service) ListProjectCodes(ctx context.Context) ([]string, *common.ResolutionError) {
	rows, err := s.db.QueryContext(ctx, `SELECT code FROM projects ORDER BY code`)
	if err != nil {
		return nil, storageError("ListProjectCodes", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, storageError("ListProjectCodes", err)
		}
		out = append(out, code)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("ListProjectCodes", err)
	}
	return common.Dedup(out), nil
}

// GetFlags retrieves the feature-flag set.
func (s *Service) GetFlags(ctx context.Context) ([]model.FeatureFlag, *common.ResolutionError) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, enabled FROM feature_flags`)
	if err != nil {
		return nil, storageError("GetFlags", err)
	}
	defer rows.Close()

	var out []model.FeatureFlag
	for rows.Next() {
		var f model.FeatureFlag
		if err := rows.Scan(&f.Name, &f.Enabled); err != nil {
			return nil, storageError("GetFlags", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("GetFlags", err)
	}
	return out, nil
}

// GetRolesFor retrieves the organizational roles of a user.
func (s *Service) GetRolesFor(ctx context.Context, userEmail string) ([]string, *common.ResolutionError) {
	var rolesJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT roles FROM user_roles WHERE email = ?`, userEmail).Scan(&rolesJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageError("GetRolesFor", err)
	}

	var roles []string
	if err := json.Unmarshal([]byte(rolesJSON), &roles); err != nil {
		return nil, storageError("GetRolesFor", err)
	}
	return roles, nil
}
