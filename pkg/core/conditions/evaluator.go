//
//  Copyright © Siteline Inc. All rights reserved.
//

// Package conditions evaluates attribute-equality rules against project
// attributes.
//
// This is deliberately not a rule engine: conditions are exact-match
// equality over a small fixed set of project attributes, nothing more.
package conditions

import "github.com/sitelinehq/assignmentengine/pkg/core/model"

// Evaluate returns true iff every condition's field resolves in attrs to a
// value exactly equal (case-sensitive, no normalization) to the
// condition's value.
//
// An empty condition list returns true; this is the documented catch-all
// behavior of [model.ConditionalAssignment]. An unknown field resolves to
// the empty string, which fails equality unless the condition's value is
// also empty. Pure and total: no side effects, never fails.
func Evaluate(conds []model.Condition, attrs model.ProjectAttributes) bool {
	for _, c := range conds {
		if attrs[c.Field] != c.Value {
			return false
		}
	}
	return true
}
