//
//  Copyright © Siteline Inc. All rights reserved.
//

// Package core provides the primary interface for the Siteline Assignment
// Engine: the library that, given a user or a workflow step, merges
// several independently administered configuration layers (security-group
// defaults, project-level overrides, conditional rules, feature-flag
// gates) into one deterministic answer.
//
// # Quick Start
//
// Create an engine with default options (mock catalog, no audit log):
//
//	engine, err := core.NewEngine()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Resolve an approval chain:
//
//	steps, err := engine.ResolveChain(ctx, "buyout", "P-100")
//
// Resolve a user's effective permissions on a project:
//
//	perms, err := engine.ResolvePermissions(ctx, "dana@example.com", "P-100")
//
// # Configuration
//
// The engine supports various configuration options via functional
// options:
//
//	engine, err := core.NewEngine(
//	    options.WithCatalog(local.NewFactory(bundle)),
//	    options.WithCapabilityTable(capTable),
//	    options.WithAuditLog(auditlog.NewStdoutFactory()),
//	)
//
// See the [options] package for all available configuration options.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sitelinehq/assignmentengine/internal/core/catalog/mock"
	"github.com/sitelinehq/assignmentengine/internal/logging"
	"github.com/sitelinehq/assignmentengine/pkg/common"
	"github.com/sitelinehq/assignmentengine/pkg/core/auditlog"
	"github.com/sitelinehq/assignmentengine/pkg/core/catalog"
	"github.com/sitelinehq/assignmentengine/pkg/core/catalog/local"
	"github.com/sitelinehq/assignmentengine/pkg/core/config"
	"github.com/sitelinehq/assignmentengine/pkg/core/model"
	"github.com/sitelinehq/assignmentengine/pkg/core/options"
	"github.com/sitelinehq/assignmentengine/pkg/core/permissions"
	"github.com/sitelinehq/assignmentengine/pkg/core/workflow"
)

var logger = logging.GetLogger("assignmentengine")
var agent = "assignmentengine"

// Engine is the primary interface for assignment and permission
// resolution.
//
// Every call recomputes from freshly read catalog state; the engine holds
// no caches and no shared mutable state, so implementations are safe for
// concurrent use by multiple goroutines.
type Engine interface {
	// ResolveChain resolves the ordered approval chain for a workflow on a
	// project. An unknown workflow key yields an empty chain, not an
	// error.
	ResolveChain(ctx context.Context, workflowKey, projectCode string) ([]model.ResolvedWorkflowStep, *common.ResolutionError)

	// ResolvePermissions resolves the merged, flattened permissions for a
	// user, optionally scoped to a project (empty projectCode for a
	// project-independent result). Total: degrades to a zero-permission
	// result when no template can be determined.
	ResolvePermissions(ctx context.Context, userEmail, projectCode string) (*model.ResolvedPermissions, *common.ResolutionError)

	// GetAccessibleProjects returns the deduplicated project codes visible
	// to a user.
	GetAccessibleProjects(ctx context.Context, userEmail string) ([]string, *common.ResolutionError)

	// GetCatalog returns the underlying catalog service, for advanced use
	// cases such as introspection or debugging.
	GetCatalog() catalog.Service

	// Close releases the audit log stream.
	Close()
}

// EngineImpl is the default implementation of the [Engine] interface.
//
// Use [NewEngine] to create a properly initialized instance.
type EngineImpl struct {
	catalog     catalog.Service
	workflow    *workflow.Resolver
	permissions *permissions.Resolver
	audit       auditlog.Stream
}

// NewEngine creates and initializes a new [Engine] instance.
//
// By default the engine uses an empty mock catalog and discards audit
// records (set audit.stdout in the configuration to emit them to stdout).
// Use functional options to configure a production catalog:
//
//	engine, err := core.NewEngine(
//	    options.WithCatalog(sqlite.NewFactory("./catalog.db")),
//	    options.WithRoleGroupTable(table),
//	    options.WithCapabilityTable(capTable),
//	)
//
// NewEngine loads configuration from environment variables and config
// files before initializing the engine. See the [config] package for
// details.
//
// Returns an error if configuration loading fails or if the catalog
// cannot be initialized.
func NewEngine(engineOptions ...options.EngineOptionsFunc) (Engine, error) {
	err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "error loading config")
	}

	opts := &options.EngineOptions{
		CatalogFactory: mock.NewFactory(nil),
	}
	if config.VConfig.GetBool(config.AuditStdout) {
		opts.AuditLogFactory = auditlog.NewStdoutFactory()
	} else {
		opts.AuditLogFactory = auditlog.NewNullFactory()
	}
	for _, o := range engineOptions {
		o(opts)
	}

	svc, err := opts.CatalogFactory.NewService()
	if err != nil {
		return nil, errors.Wrap(err, "error initializing catalog")
	}

	stream, err := opts.AuditLogFactory.NewStream()
	if err != nil {
		return nil, errors.Wrap(err, "error initializing audit log")
	}

	return &EngineImpl{
		catalog:     svc,
		workflow:    workflow.NewResolver(svc),
		permissions: permissions.NewResolver(svc, opts.RoleGroupTable, opts.CapabilityTable),
		audit:       stream,
	}, nil
}

// NewLocalEngine creates and initializes a new [Engine] instance from a
// local catalog bundle file.
//
// Other defaults are inherited from [NewEngine]:
//
//	engine, err := core.NewLocalEngine("./catalog.yaml",
//	    options.WithCapabilityTable(capTable),
//	)
func NewLocalEngine(bundlePath string, engineOptions ...options.EngineOptionsFunc) (Engine, error) {
	err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "error loading config")
	}

	bundle, err := local.LoadBundle(bundlePath)
	if err != nil {
		return nil, err
	}

	engineOptions = append(engineOptions, options.WithCatalog(local.NewFactory(bundle)))
	return NewEngine(engineOptions...)
}

// ResolveChain resolves the ordered approval chain for a workflow on a
// project, emitting an audit record for the resolution.
func (e *EngineImpl) ResolveChain(ctx context.Context, workflowKey, projectCode string) ([]model.ResolvedWorkflowStep, *common.ResolutionError) {
	logger.Debug(agent, "ResolveChain", "Enter")
	defer logger.Debug(agent, "ResolveChain", "Exit")

	start := time.Now()
	steps, err := e.workflow.ResolveChain(ctx, workflowKey, projectCode)

	record := auditlog.NewRecord(auditlog.KindWorkflow)
	record.WorkflowKey = workflowKey
	record.ProjectCode = projectCode
	record.DurationMicros = time.Since(start).Microseconds()
	if err != nil {
		record.Outcome = "error"
		record.Error = err.Error()
	} else {
		record.Outcome = fmt.Sprintf("%d steps resolved", len(steps))
	}
	e.send(record)

	return steps, err
}

// ResolvePermissions resolves the merged, flattened permissions for a
// user, emitting an audit record for the resolution.
func (e *EngineImpl) ResolvePermissions(ctx context.Context, userEmail, projectCode string) (*model.ResolvedPermissions, *common.ResolutionError) {
	logger.Debug(agent, "ResolvePermissions", "Enter")
	defer logger.Debug(agent, "ResolvePermissions", "Exit")

	start := time.Now()
	resolved, err := e.permissions.Resolve(ctx, userEmail, projectCode)

	record := auditlog.NewRecord(auditlog.KindPermission)
	record.UserEmail = userEmail
	record.ProjectCode = projectCode
	record.DurationMicros = time.Since(start).Microseconds()
	if err != nil {
		record.Outcome = "error"
		record.Error = err.Error()
	} else {
		record.Outcome = fmt.Sprintf("template %d (%s)", resolved.TemplateID, resolved.Source)
	}
	e.send(record)

	return resolved, err
}

// GetAccessibleProjects returns the deduplicated project codes visible to
// a user.
func (e *EngineImpl) GetAccessibleProjects(ctx context.Context, userEmail string) ([]string, *common.ResolutionError) {
	return e.permissions.GetAccessibleProjects(ctx, userEmail)
}

// GetCatalog returns the catalog service used by this engine.
func (e *EngineImpl) GetCatalog() catalog.Service {
	return e.catalog
}

// Close releases the audit log stream.
func (e *EngineImpl) Close() {
	e.audit.Close()
}

func (e *EngineImpl) send(record *auditlog.ResolutionRecord) {
	if err := e.audit.Send(record); err != nil {
		logger.Errorf(agent, "audit", "failed to send audit record %s: %s", record.ID, err)
	}
}
