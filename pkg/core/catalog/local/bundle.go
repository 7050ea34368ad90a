//
//  Copyright © Siteline Inc. All rights reserved.
//

// Package local provides a catalog implementation that loads a catalog
// bundle from local YAML files.
//
// The local catalog is the standard choice for applications that manage
// their workflow and permission configuration as files, either bundled
// with the application or loaded from a filesystem path.
//
// # Usage
//
//	bundle, err := local.LoadBundle("./catalog.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	engine, err := core.NewEngine(
//	    options.WithCatalog(local.NewFactory(bundle)),
//	)
//
// # Bundle Format
//
// A bundle file carries every catalog table in one document:
//
//	workflows:
//	  - workflowKey: buyout
//	    name: Buyout Approval
//	    steps: [ ... ]
//	overrides:
//	  - { projectCode: P-100, stepId: 12, overrideAssignee: { ... } }
//	templates:
//	  - { id: 1, name: Field Standard, toolAccess: [ ... ] }
//	groupMappings:
//	  - { securityGroupId: 10, securityGroupName: Operations, defaultTemplateId: 1, isActive: true }
//	projects:
//	  - code: P-100
//	    attributes: { Division: Commercial, Region: Southeast }
//	    team:
//	      - { id: u7, role: PX, name: Dana Reyes, email: dana@example.com }
//	    assignments:
//	      - { userEmail: dana@example.com, assignedRole: PX, isActive: true }
//	featureFlags:
//	  - { name: meeting-chair, enabled: true }
//	users:
//	  - { email: dana@example.com, roles: [Project Executive] }
package local

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sitelinehq/assignmentengine/pkg/core/model"
	"gopkg.in/yaml.v3"
)

// Project groups the per-project tables of a bundle.
type Project struct {
	Code        string                        `yaml:"code"`
	Attributes  model.ProjectAttributes       `yaml:"attributes"`
	Team        []model.TeamMember            `yaml:"team"`
	Assignments []model.ProjectTeamAssignment `yaml:"assignments"`
}

// User is a role-directory row of a bundle.
type User struct {
	Email string   `yaml:"email"`
	Roles []string `yaml:"roles"`
}

// Bundle is the parsed content of a catalog bundle file.
type Bundle struct {
	Workflows     []model.WorkflowDefinition   `yaml:"workflows"`
	Overrides     []model.WorkflowStepOverride `yaml:"overrides"`
	Templates     []model.PermissionTemplate   `yaml:"templates"`
	GroupMappings []model.SecurityGroupMapping `yaml:"groupMappings"`
	Projects      []Project                    `yaml:"projects"`
	FeatureFlags  []model.FeatureFlag          `yaml:"featureFlags"`
	Users         []User                       `yaml:"users"`
}

// ParseBundle parses bundle yaml content and validates its invariants.
func ParseBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, errors.Wrap(err, "parsing catalog bundle")
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// LoadBundle reads, parses, and validates a catalog bundle file.
func LoadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from operator configuration
	if err != nil {
		return nil, errors.Wrapf(err, "reading catalog bundle %s", path)
	}
	return ParseBundle(data)
}

// validate enforces the catalog invariants a well-formed bundle carries:
// unique workflow keys, strictly ascending unique stepOrder per workflow,
// and at most one active assignment per (user, project).
func (b *Bundle) validate() error {
	keys := make(map[string]bool)
	for _, wf := range b.Workflows {
		if wf.WorkflowKey == "" {
			return errors.New("catalog bundle: workflow with empty workflowKey")
		}
		if keys[wf.WorkflowKey] {
			return errors.Errorf("catalog bundle: duplicate workflowKey %q", wf.WorkflowKey)
		}
		keys[wf.WorkflowKey] = true

		orders := make(map[int]bool)
		for _, step := range wf.Steps {
			if orders[step.StepOrder] {
				return errors.Errorf("catalog bundle: workflow %q has duplicate stepOrder %d", wf.WorkflowKey, step.StepOrder)
			}
			orders[step.StepOrder] = true
		}
	}

	for _, p := range b.Projects {
		active := make(map[string]bool)
		for _, a := range p.Assignments {
			if !a.IsActive {
				continue
			}
			if active[a.UserEmail] {
				return errors.Errorf("catalog bundle: project %q has multiple active assignments for %q", p.Code, a.UserEmail)
			}
			active[a.UserEmail] = true
		}
	}

	return nil
}
