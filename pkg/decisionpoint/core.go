//
//  Copyright © Siteline Inc. All rights reserved.
//

// Package decisionpoint provides interfaces and implementations for
// resolution decision point servers.
//
// A decision point exposes the assignment engine as a network service
// that routing UIs, approval-action handlers, and authorization checks
// can call for resolutions.
//
// # Available Implementations
//
//   - [rest]: HTTP/REST server
//
// # Usage
//
// Create and start a decision point server:
//
//	engine, _ := core.NewEngine(options.WithCatalog(factory))
//	server, _ := rest.CreateServer(engine, 8080)
//	defer server.Stop(ctx)
package decisionpoint

import "context"

// Server is the interface for decision point servers that can be
// gracefully stopped.
//
// Implementations must ensure that [Stop] completes any in-flight
// requests before returning.
type Server interface {
	// Stop gracefully shuts down the server, waiting for active requests
	// to complete or until the context is cancelled.
	Stop(context.Context) error
}
