//
//  Copyright © Siteline Inc. All rights reserved.
//

// Package auditlog provides interfaces and implementations for audit
// logging of resolution outcomes.
//
// Audit records capture every chain and permission resolution the engine
// performs, creating a trail for compliance review and debugging. Each
// record carries the request identity, the outcome summary, and timing
// information.
//
// # Built-in Implementations
//
// The package provides several stream implementations:
//   - [NewStdoutFactory]: writes JSON records to stdout
//   - [NewIoWriterFactory]: writes JSON records to any io.Writer
//   - [NewNullFactory]: discards all records (the default)
//
// # Custom Implementations
//
// To deliver records elsewhere (Kafka, a database, cloud logging):
//
//  1. Implement the [Factory] interface to create stream instances
//  2. Implement the [Stream] interface to handle record delivery
//  3. Use options.WithAuditLog when creating the engine
package auditlog

import (
	"time"

	"github.com/google/uuid"
)

// RecordKind distinguishes the two resolution families.
type RecordKind string

// Record kinds.
const (
	KindWorkflow   RecordKind = "workflow"
	KindPermission RecordKind = "permission"
)

// ResolutionRecord is one audit entry describing a single resolution.
type ResolutionRecord struct {
	// ID uniquely identifies the record.
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	Kind RecordKind `json:"kind"`

	// WorkflowKey is set for workflow records.
	WorkflowKey string `json:"workflowKey,omitempty"`
	// UserEmail is set for permission records.
	UserEmail   string `json:"userEmail,omitempty"`
	ProjectCode string `json:"projectCode,omitempty"`

	// Outcome is a short human-readable summary, e.g. "5 steps resolved"
	// or "template 3 (ProjectOverride)".
	Outcome string `json:"outcome"`
	// Error carries the failure reason when the resolution errored.
	Error string `json:"error,omitempty"`

	DurationMicros int64 `json:"durationMicros"`
}

// NewRecord creates a record of the given kind with a fresh id and the
// current timestamp.
func NewRecord(kind RecordKind) *ResolutionRecord {
	return &ResolutionRecord{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Kind:      kind,
	}
}

// Factory creates audit log [Stream] instances.
//
// Early initialization (validating configuration) should happen during
// factory construction. Late initialization (opening connections,
// allocating buffers) should happen in NewStream; the engine guarantees
// configuration is fully loaded before NewStream is called.
type Factory interface {
	// NewStream creates a new audit log stream, ready to receive records
	// via [Stream.Send].
	NewStream() (Stream, error)
}

// Stream is the interface for sending resolution records to an audit
// destination.
//
// Implementations must be safe for concurrent use by multiple goroutines.
//
// Implementations should handle backpressure appropriately. If the
// destination cannot accept records fast enough, implementations may
// buffer, drop, or block depending on their requirements.
type Stream interface {
	// Send delivers a record to the audit destination.
	//
	// Send should not modify the record. The engine logs send errors but
	// does not retry; implementations should handle retries internally if
	// needed.
	Send(record *ResolutionRecord) error

	// Close releases any resources held by the stream, flushing buffered
	// records first. After Close the stream should not be used again.
	Close()
}
