//
//  Copyright © Siteline Inc. All rights reserved.
//
// shared between pkg/core and internal/core, and thus must be in a separate package to avoid circular dependencies

package options

import (
	"github.com/sitelinehq/assignmentengine/internal/logging"
	"github.com/sitelinehq/assignmentengine/pkg/core/auditlog"
	"github.com/sitelinehq/assignmentengine/pkg/core/capability"
	"github.com/sitelinehq/assignmentengine/pkg/core/catalog"
	"github.com/sitelinehq/assignmentengine/pkg/core/config"
	"github.com/sitelinehq/assignmentengine/pkg/core/rolemap"
)

var logger = logging.GetLogger("assignmentengine")
var agent = "assignmentengine"

// EngineOptions defines the configuration options for initializing an
// assignment engine, including the catalog factory, the injected
// resolution tables, and the audit log factory.
type EngineOptions struct {
	CatalogFactory  catalog.Factory
	AuditLogFactory auditlog.Factory
	RoleGroupTable  *rolemap.Table
	CapabilityTable *capability.Table
}

// EngineOptionsFunc is a function that modifies EngineOptions.
type EngineOptionsFunc func(*EngineOptions)

// WithCatalog configures the catalog factory for the engine.
func WithCatalog(factory catalog.Factory) EngineOptionsFunc {
	return func(o *EngineOptions) {
		if config.VConfig.GetBool(config.MockEnabled) {
			logger.Warn(agent, "WithCatalog", "Ignoring catalog factory as mock mode is enabled")
		} else {
			o.CatalogFactory = factory
		}
	}
}

// WithAuditLog configures the audit log stream for the engine.
func WithAuditLog(factory auditlog.Factory) EngineOptionsFunc {
	return func(o *EngineOptions) {
		o.AuditLogFactory = factory
	}
}

// WithRoleGroupTable configures the role-to-security-group table used by
// permission resolution. Defaults to rolemap.DefaultTable.
func WithRoleGroupTable(table *rolemap.Table) EngineOptionsFunc {
	return func(o *EngineOptions) {
		o.RoleGroupTable = table
	}
}

// WithCapabilityTable configures the tool-capability table used to flatten
// tool access into permission strings. Defaults to an empty table, which
// flattens everything to no permission strings.
func WithCapabilityTable(table *capability.Table) EngineOptionsFunc {
	return func(o *EngineOptions) {
		o.CapabilityTable = table
	}
}
