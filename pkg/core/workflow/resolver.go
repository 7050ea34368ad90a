//
//  Copyright © Siteline Inc. All rights reserved.
//

// Package workflow resolves approval chains: for a (workflow key, project)
// pair it produces the ordered list of steps, each with its responsible
// person and the precedence layer that decided it.
//
// Per-step resolution is a fixed-order strategy chain (see [DefaultChain]).
// A feature-flag gate runs before the chain: a step gated on a disabled
// flag is emitted as skipped when skippable, and omitted entirely when not.
//
// Resolution is pure once its inputs are loaded. [Resolver.ResolveChain]
// fetches a [Snapshot] from the catalog and hands it to
// [Resolver.ResolveSnapshot]; tests and callers wanting explicit control
// over read consistency can construct snapshots directly.
package workflow

import (
	"context"

	"github.com/sitelinehq/assignmentengine/internal/logging"
	"github.com/sitelinehq/assignmentengine/pkg/common"
	"github.com/sitelinehq/assignmentengine/pkg/core/catalog"
	"github.com/sitelinehq/assignmentengine/pkg/core/model"
)

var logger = logging.GetLogger("assignmentengine.workflow")

// Snapshot carries every catalog read a chain resolution needs, fetched
// once per call. The reads are independent; concurrent administrative
// edits can produce a snapshot torn across catalogs, an accepted
// eventual-consistency risk. Callers needing stronger guarantees build
// the snapshot themselves.
type Snapshot struct {
	WorkflowKey string
	ProjectCode string

	Definition *model.WorkflowDefinition
	Overrides  []model.WorkflowStepOverride
	Team       []model.TeamMember
	// Attributes is nil when the project record lookup found nothing;
	// conditional rules then never match and defaults apply.
	Attributes model.ProjectAttributes
	Flags      map[string]bool
}

// Resolver resolves approval chains against a catalog service.
type Resolver struct {
	catalog catalog.Service
	chain   []Strategy
}

// NewResolver creates a chain resolver. With no explicit strategies the
// resolver uses [DefaultChain].
func NewResolver(svc catalog.Service, chain ...Strategy) *Resolver {
	if len(chain) == 0 {
		chain = DefaultChain()
	}
	return &Resolver{
		catalog: svc,
		chain:   chain,
	}
}

// Snapshot fetches the catalog state a chain resolution needs.
//
// An unknown workflow key yields a snapshot with a nil Definition, which
// resolves to an empty chain; that is a normal outcome, not an error. A
// missing project record likewise degrades (nil Attributes). Storage
// failures propagate unchanged.
func (r *Resolver) Snapshot(ctx context.Context, workflowKey, projectCode string) (*Snapshot, *common.ResolutionError) {
	if workflowKey == "" {
		return nil, common.NewError(common.ReasonInvalidParam, "empty workflowKey")
	}
	if projectCode == "" {
		return nil, common.NewError(common.ReasonInvalidParam, "empty projectCode")
	}

	snap := &Snapshot{
		WorkflowKey: workflowKey,
		ProjectCode: projectCode,
	}

	def, err := r.catalog.GetWorkflowDefinition(ctx, workflowKey)
	if err != nil {
		if !common.IsNotFound(err) {
			return nil, err
		}
		logger.Debugf(workflowKey, "Snapshot", "unknown workflow key")
		return snap, nil
	}
	snap.Definition = def

	if snap.Overrides, err = r.catalog.GetWorkflowOverrides(ctx, projectCode); err != nil {
		return nil, err
	}
	if snap.Team, err = r.catalog.GetTeamMembers(ctx, projectCode); err != nil {
		return nil, err
	}

	attrs, err := r.catalog.GetAttributes(ctx, projectCode)
	if err != nil {
		if !common.IsNotFound(err) {
			return nil, err
		}
		logger.Warnf(workflowKey, "Snapshot", "no project record for %s; conditional rules will not match", projectCode)
	} else {
		snap.Attributes = attrs
	}

	flags, err := r.catalog.GetFlags(ctx)
	if err != nil {
		return nil, err
	}
	snap.Flags = make(map[string]bool, len(flags))
	for _, f := range flags {
		snap.Flags[f.Name] = f.Enabled
	}

	return snap, nil
}

// ResolveChain resolves the ordered step chain for a workflow on a
// project.
//
// An unknown workflow key returns an empty chain. The only errors are
// caller errors (empty identifiers) and storage failures from the catalog
// reads.
func (r *Resolver) ResolveChain(ctx context.Context, workflowKey, projectCode string) ([]model.ResolvedWorkflowStep, *common.ResolutionError) {
	snap, err := r.Snapshot(ctx, workflowKey, projectCode)
	if err != nil {
		return nil, err
	}
	return r.ResolveSnapshot(snap), nil
}

// ResolveSnapshot resolves the chain from an already-fetched snapshot.
// Pure: no I/O, no side effects beyond diagnostics, and structurally
// identical output for identical snapshots.
func (r *Resolver) ResolveSnapshot(snap *Snapshot) []model.ResolvedWorkflowStep {
	if snap.Definition == nil {
		return []model.ResolvedWorkflowStep{}
	}

	steps := snap.Definition.OrderedSteps()
	out := make([]model.ResolvedWorkflowStep, 0, len(steps))

	for _, step := range steps {
		resolved := model.ResolvedWorkflowStep{
			StepID:          step.ID,
			StepOrder:       step.StepOrder,
			Name:            step.Name,
			IsConditional:   step.IsConditional,
			ActionLabel:     step.ActionLabel,
			CanChairMeeting: step.CanChairMeeting,
		}

		if skip, reason := r.flagGate(snap, step); skip {
			if !step.IsSkippable {
				// Omitting a step shortens the chain with no trace in the
				// output, so leave one in the log.
				logger.Warnf(snap.WorkflowKey, "ResolveChain",
					"omitting non-skippable step %q (%s)", step.Name, reason)
				continue
			}
			resolved.Skipped = true
			resolved.SkipReason = reason
			out = append(out, resolved)
			continue
		}

		outcome, strategy := r.applyChain(snap, step)
		if strategy == "" {
			logger.Warnf(snap.WorkflowKey, "ResolveChain",
				"no strategy applied to step %q (assignmentType %q)", step.Name, step.AssignmentType)
			outcome = Outcome{
				Assignee:     model.Unassigned(),
				Source:       model.SourceDefault,
				ConditionMet: false,
			}
		}

		resolved.Assignee = outcome.Assignee
		resolved.AssignmentSource = outcome.Source
		resolved.ConditionMet = outcome.ConditionMet
		out = append(out, resolved)
	}

	return out
}

// flagGate reports whether the step's feature-flag gate excludes it, with
// the skip reason. A flag with no registered definition is a
// misconfiguration and reads as enabled (fail-open for gating).
func (r *Resolver) flagGate(snap *Snapshot, step model.WorkflowStep) (bool, string) {
	if step.FeatureFlagName == "" {
		return false, ""
	}

	enabled, ok := snap.Flags[step.FeatureFlagName]
	if !ok {
		logger.Warnf(snap.WorkflowKey, "ResolveChain",
			"step %q references unregistered feature flag %q; treating as enabled", step.Name, step.FeatureFlagName)
		return false, ""
	}
	if enabled {
		return false, ""
	}
	return true, "feature flag " + step.FeatureFlagName + " disabled"
}

func (r *Resolver) applyChain(snap *Snapshot, step model.WorkflowStep) (Outcome, string) {
	for _, s := range r.chain {
		if outcome, ok := s.Resolve(step, snap); ok {
			if logger.IsDebugEnabled() {
				logger.Debugf(snap.WorkflowKey, "ResolveChain",
					"step %q decided by %s: %s", step.Name, s.Name(), outcome.Assignee.DisplayLabel())
			}
			return outcome, s.Name()
		}
	}
	return Outcome{}, ""
}
