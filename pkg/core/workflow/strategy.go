//
//  Copyright © Siteline Inc. All rights reserved.
//

package workflow

import (
	"sort"

	"github.com/sitelinehq/assignmentengine/pkg/core/conditions"
	"github.com/sitelinehq/assignmentengine/pkg/core/model"
)

// Outcome is the result of one strategy deciding a step's assignee.
type Outcome struct {
	Assignee     model.Assignee
	Source       model.AssignmentSource
	ConditionMet bool
}

// Strategy is one layer of the per-step precedence chain. Strategies are
// tried in chain order; the first one that applies decides the step and
// later strategies are not consulted.
//
// A strategy reports applied=false when the step is outside its scope
// (e.g. the project-role strategy on a named-person step), never as a
// "soft failure": a vacant role or a missing default person is still an
// applied outcome, carrying an unresolved assignee.
type Strategy interface {
	Name() string
	Resolve(step model.WorkflowStep, snap *Snapshot) (Outcome, bool)
}

// DefaultChain returns the standard precedence chain, in order: Override,
// ProjectRole, NamedPerson. The chain is a first-class value so tests can
// assert on the order and callers can inject a modified chain.
func DefaultChain() []Strategy {
	return []Strategy{
		&OverrideStrategy{},
		&ProjectRoleStrategy{},
		&NamedPersonStrategy{},
	}
}

// OverrideStrategy applies an administrator's manual step override. An
// active override beats every other configured rule for the step.
type OverrideStrategy struct{}

// Name identifies the strategy in logs.
func (s *OverrideStrategy) Name() string { return "Override" }

// Resolve applies when the snapshot carries an override for the step.
func (s *OverrideStrategy) Resolve(step model.WorkflowStep, snap *Snapshot) (Outcome, bool) {
	for i := range snap.Overrides {
		if snap.Overrides[i].StepID == step.ID {
			return Outcome{
				Assignee:     snap.Overrides[i].OverrideAssignee,
				Source:       model.SourceOverride,
				ConditionMet: true,
			}, true
		}
	}
	return Outcome{}, false
}

// ProjectRoleStrategy routes a step to whichever team member holds the
// step's project role.
type ProjectRoleStrategy struct{}

// Name identifies the strategy in logs.
func (s *ProjectRoleStrategy) Name() string { return "ProjectRole" }

// Resolve applies to every ProjectRole step. A vacant role still resolves:
// the step is emitted with an unresolved assignee carrying the role name,
// signaling a blocked rather than missing step.
func (s *ProjectRoleStrategy) Resolve(step model.WorkflowStep, snap *Snapshot) (Outcome, bool) {
	if step.AssignmentType != model.AssignProjectRole {
		return Outcome{}, false
	}

	for _, m := range snap.Team {
		if m.Role == step.ProjectRole {
			return Outcome{
				Assignee:     m.Assignee(),
				Source:       model.SourceProjectRole,
				ConditionMet: true,
			}, true
		}
	}

	return Outcome{
		Assignee:     model.UnassignedRole(step.ProjectRole),
		Source:       model.SourceProjectRole,
		ConditionMet: false,
	}, true
}

// NamedPersonStrategy routes a step to its default person, redirected by
// the first conditional rule whose conditions all match the project
// attributes. Rules evaluate in ascending priority order.
type NamedPersonStrategy struct{}

// Name identifies the strategy in logs.
func (s *NamedPersonStrategy) Name() string { return "NamedPerson" }

// Resolve applies to every NamedPerson step.
func (s *NamedPersonStrategy) Resolve(step model.WorkflowStep, snap *Snapshot) (Outcome, bool) {
	if step.AssignmentType != model.AssignNamedPerson {
		return Outcome{}, false
	}

	out := Outcome{
		Source:       model.SourceDefault,
		ConditionMet: !step.IsConditional,
	}
	if step.DefaultAssignee != nil {
		out.Assignee = *step.DefaultAssignee
	}

	if len(step.ConditionalAssignees) > 0 && snap.Attributes != nil {
		rules := make([]model.ConditionalAssignment, len(step.ConditionalAssignees))
		copy(rules, step.ConditionalAssignees)
		sort.SliceStable(rules, func(i, j int) bool {
			return rules[i].Priority < rules[j].Priority
		})

		for _, rule := range rules {
			if conditions.Evaluate(rule.Conditions, snap.Attributes) {
				return Outcome{
					Assignee:     rule.Assignee,
					Source:       model.SourceCondition,
					ConditionMet: true,
				}, true
			}
		}
	}

	if out.Assignee.IsZero() {
		out.Assignee = model.Unassigned()
		out.ConditionMet = false
	}
	return out, true
}
