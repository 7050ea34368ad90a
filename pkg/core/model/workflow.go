//
//  Copyright © Siteline Inc. All rights reserved.
//

// Package model defines the catalog and resolution data model for the
// assignment engine.
//
// Catalog entities (workflow definitions, permission templates, mappings,
// overrides) are authored out-of-band by administrative tooling and are
// read-mostly here; resolvers never mutate them. Resolved results
// ([ResolvedWorkflowStep], [ResolvedPermissions]) are ephemeral values,
// recomputed on every call and never persisted.
package model

import (
	"sort"
	"time"
)

// AssignmentType selects how a workflow step determines its responsible
// person.
type AssignmentType string

// Assignment types.
const (
	// AssignProjectRole routes the step to whichever team member holds the
	// step's project role.
	AssignProjectRole AssignmentType = "ProjectRole"
	// AssignNamedPerson routes the step to a default person, optionally
	// redirected by conditional assignment rules.
	AssignNamedPerson AssignmentType = "NamedPerson"
)

// AssignmentSource records which precedence layer decided a step's
// assignee. The order here is the resolution precedence order.
type AssignmentSource string

// Assignment sources, in precedence order.
const (
	SourceOverride    AssignmentSource = "Override"
	SourceProjectRole AssignmentSource = "ProjectRole"
	SourceCondition   AssignmentSource = "Condition"
	SourceDefault     AssignmentSource = "Default"
)

// ConditionField names a project attribute that conditional assignment
// rules may test. The field set is fixed; conditions are exact-match
// equality only.
type ConditionField string

// Condition fields.
const (
	FieldDivision ConditionField = "Division"
	FieldRegion   ConditionField = "Region"
	FieldSector   ConditionField = "Sector"
)

// ProjectAttributes are the routing-relevant attributes of a project, as
// supplied by the project record lookup. A missing field reads as the
// empty string.
type ProjectAttributes map[ConditionField]string

// Condition is a single exact-match attribute test.
type Condition struct {
	Field ConditionField `json:"field" yaml:"field"`
	Value string         `json:"value" yaml:"value"`
}

// ConditionalAssignment is a priority-ordered rule that routes a step to a
// specific person when all of its conditions match the project attributes.
//
// An empty condition list is a documented catch-all: it matches every
// project. Administrators give a catch-all row the highest priority value
// so it acts as the "else" branch of the rule list.
type ConditionalAssignment struct {
	StepID     int64       `json:"stepId" yaml:"stepId"`
	Conditions []Condition `json:"conditions" yaml:"conditions"`
	Assignee   Assignee    `json:"assignee" yaml:"assignee"`
	// Priority orders rule evaluation; lower evaluates first.
	Priority int `json:"priority" yaml:"priority"`
}

// WorkflowStep is one step of a workflow definition.
type WorkflowStep struct {
	ID         int64  `json:"id" yaml:"id"`
	WorkflowID int64  `json:"workflowId" yaml:"workflowId"`
	StepOrder  int    `json:"stepOrder" yaml:"stepOrder"`
	Name       string `json:"name" yaml:"name"`

	AssignmentType AssignmentType `json:"assignmentType" yaml:"assignmentType"`
	// ProjectRole is consulted only when AssignmentType is ProjectRole.
	ProjectRole string `json:"projectRole,omitempty" yaml:"projectRole,omitempty"`
	// DefaultAssignee is consulted only when AssignmentType is NamedPerson.
	DefaultAssignee      *Assignee               `json:"defaultAssignee,omitempty" yaml:"defaultAssignee,omitempty"`
	ConditionalAssignees []ConditionalAssignment `json:"conditionalAssignees,omitempty" yaml:"conditionalAssignees,omitempty"`
	IsConditional        bool                    `json:"isConditional" yaml:"isConditional"`

	ActionLabel     string `json:"actionLabel,omitempty" yaml:"actionLabel,omitempty"`
	CanChairMeeting bool   `json:"canChairMeeting" yaml:"canChairMeeting"`
	// FeatureFlagName gates the step on a named feature flag when set.
	FeatureFlagName string `json:"featureFlagName,omitempty" yaml:"featureFlagName,omitempty"`
	IsSkippable     bool   `json:"isSkippable" yaml:"isSkippable"`
}

// WorkflowDefinition is an ordered set of steps for one workflow category.
// Steps carry unique, strictly ascending StepOrder values.
type WorkflowDefinition struct {
	ID          int64          `json:"id" yaml:"id"`
	WorkflowKey string         `json:"workflowKey" yaml:"workflowKey"`
	Name        string         `json:"name" yaml:"name"`
	Steps       []WorkflowStep `json:"steps" yaml:"steps"`
}

// OrderedSteps returns the definition's steps sorted by ascending
// StepOrder. The catalog is not trusted to store them sorted.
func (d *WorkflowDefinition) OrderedSteps() []WorkflowStep {
	steps := make([]WorkflowStep, len(d.Steps))
	copy(steps, d.Steps)
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].StepOrder < steps[j].StepOrder
	})
	return steps
}

// WorkflowStepOverride is an administrator's manual, project-specific
// reassignment of a step's responsible person. At most one active override
// exists per (projectCode, stepId); administrative tooling upserts.
type WorkflowStepOverride struct {
	ProjectCode      string    `json:"projectCode" yaml:"projectCode"`
	WorkflowKey      string    `json:"workflowKey" yaml:"workflowKey"`
	StepID           int64     `json:"stepId" yaml:"stepId"`
	OverrideAssignee Assignee  `json:"overrideAssignee" yaml:"overrideAssignee"`
	OverrideReason   string    `json:"overrideReason,omitempty" yaml:"overrideReason,omitempty"`
	OverriddenBy     string    `json:"overriddenBy,omitempty" yaml:"overriddenBy,omitempty"`
	OverriddenDate   time.Time `json:"overriddenDate,omitempty" yaml:"overriddenDate,omitempty"`
}

// ResolvedWorkflowStep is the per-step outcome of chain resolution.
// Ephemeral: recomputed on every call, never persisted.
type ResolvedWorkflowStep struct {
	StepID    int64  `json:"stepId"`
	StepOrder int    `json:"stepOrder"`
	Name      string `json:"name"`

	Assignee         Assignee         `json:"assignee"`
	AssignmentSource AssignmentSource `json:"assignmentSource"`
	IsConditional    bool             `json:"isConditional"`
	ConditionMet     bool             `json:"conditionMet"`

	ActionLabel     string `json:"actionLabel,omitempty"`
	CanChairMeeting bool   `json:"canChairMeeting"`

	Skipped    bool   `json:"skipped,omitempty"`
	SkipReason string `json:"skipReason,omitempty"`
}
