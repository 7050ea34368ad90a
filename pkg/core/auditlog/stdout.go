//
//  Copyright © Siteline Inc. All rights reserved.
//

package auditlog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// AuditLogOptions configures the behavior of audit log output.
type AuditLogOptions struct {
	// PrettyPrint enables indented multi-line JSON output. When false
	// (default), output is compact single-line JSON.
	PrettyPrint bool
}

// IoWriterFactory creates [Stream] instances that write to an [io.Writer].
//
// Use [NewStdoutFactory] to create a factory for stdout, or
// [NewIoWriterFactory] for a custom writer.
type IoWriterFactory struct {
	writer  io.Writer
	options AuditLogOptions
}

// IoWriterStream writes resolution records as JSON to an [io.Writer].
//
// Each record is written as a single line of JSON followed by a newline,
// a format suitable for log aggregation systems and command-line tools.
// Writes are atomic at the line level.
type IoWriterStream struct {
	writer  io.Writer
	options AuditLogOptions
}

// NewStdoutFactory creates a [Factory] that writes resolution records to
// stdout. Suitable for development, or for production environments where
// stdout is captured by a log aggregator.
//
// Example:
//
//	engine, _ := core.NewEngine(
//	    options.WithAuditLog(auditlog.NewStdoutFactory()),
//	)
func NewStdoutFactory() Factory {
	return NewIoWriterFactory(os.Stdout)
}

// NewIoWriterFactory creates a [Factory] that writes resolution records to
// the specified [io.Writer].
//
//	file, _ := os.Create("audit.log")
//	engine, _ := core.NewEngine(options.WithAuditLog(auditlog.NewIoWriterFactory(file)))
func NewIoWriterFactory(w io.Writer) Factory {
	return NewIoWriterFactoryWithOptions(w, AuditLogOptions{})
}

// NewIoWriterFactoryWithOptions creates a [Factory] that writes resolution
// records to the specified [io.Writer] with the given options.
func NewIoWriterFactoryWithOptions(w io.Writer, opts AuditLogOptions) Factory {
	return &IoWriterFactory{
		writer:  w,
		options: opts,
	}
}

// NewStream creates a new [IoWriterStream] that writes to the configured
// writer.
func (f *IoWriterFactory) NewStream() (Stream, error) {
	return newStream(f.writer, f.options), nil
}

func newStream(w io.Writer, opts AuditLogOptions) Stream {
	return &IoWriterStream{
		writer:  w,
		options: opts,
	}
}

// Send marshals the record to JSON and writes it to the configured writer.
//
// Write errors are ignored; the engine should not fail resolutions due to
// logging issues.
func (s *IoWriterStream) Send(record *ResolutionRecord) error {
	var (
		output []byte
		err    error
	)
	if s.options.PrettyPrint {
		output, err = json.MarshalIndent(record, "", "  ")
	} else {
		output, err = json.Marshal(record)
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(s.writer, string(output))
	return nil
}

// Close is a no-op for IoWriterStream.
//
// The underlying writer is not closed; the caller is responsible for
// closing it if needed (except stdout, which should not be closed).
func (s *IoWriterStream) Close() {}
