//
//  Copyright © Siteline Inc. All rights reserved.
//

// Package common provides shared types and utilities used across the
// assignment engine packages.
//
// # Error Handling
//
// The [ResolutionError] type provides structured error information for
// catalog access and resolution failures, including machine-readable
// reason codes suitable for diagnostics.
package common

import "fmt"

// ReasonCode classifies a [ResolutionError] for diagnostics.
type ReasonCode int

// Reason codes returned by catalog implementations and resolvers.
const (
	// ReasonUnknown is an unexpected error condition.
	ReasonUnknown ReasonCode = iota
	// ReasonNotFound indicates the requested entity does not exist in the
	// catalog. Resolvers translate this into a zero/default result rather
	// than propagating it.
	ReasonNotFound
	// ReasonInvalidParam indicates caller error (malformed identifiers,
	// empty required arguments). This is the one class propagated to the
	// caller.
	ReasonInvalidParam
	// ReasonStorage indicates an upstream I/O failure from a catalog read.
	// Resolution cannot proceed without its inputs, so these propagate
	// unchanged.
	ReasonStorage
)

var reasonNames = map[ReasonCode]string{
	ReasonUnknown:      "UNKNOWN",
	ReasonNotFound:     "NOTFOUND",
	ReasonInvalidParam: "INVALPARAM",
	ReasonStorage:      "STORAGE",
}

// String returns the machine-readable name of the reason code.
func (c ReasonCode) String() string {
	if n, ok := reasonNames[c]; ok {
		return n
	}
	return reasonNames[ReasonUnknown]
}

// ResolutionError represents an error encountered while reading catalog
// state or resolving an assignment or permission request.
//
// ResolutionError is returned by catalog methods instead of the standard
// error interface so callers can branch on the reason code; in particular,
// resolvers treat ReasonNotFound as a normal non-error outcome.
type ResolutionError struct {
	// ReasonCode is the machine-readable error classification.
	ReasonCode ReasonCode
	// Reason is a human-readable description of the error.
	Reason string
}

// Error implements the error interface, returning a formatted string
// containing both the reason message and the reason code.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s(code-%s)", e.Reason, e.ReasonCode)
}

// NewError creates a new [ResolutionError] with the specified reason code
// and message.
func NewError(code ReasonCode, msg string) *ResolutionError {
	return &ResolutionError{ReasonCode: code, Reason: msg}
}

// NewErrorf creates a new [ResolutionError] with a formatted message.
func NewErrorf(code ReasonCode, format string, args ...interface{}) *ResolutionError {
	return &ResolutionError{ReasonCode: code, Reason: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is a [ResolutionError] carrying
// [ReasonNotFound].
func IsNotFound(err *ResolutionError) bool {
	return err != nil && err.ReasonCode == ReasonNotFound
}
