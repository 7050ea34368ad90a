//
//  Copyright © Siteline Inc. All rights reserved.
//

package auditlog

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIoWriterFactory(t *testing.T) {
	log := NewStdoutFactory()
	assert.NotNil(t, log)
	assert.IsType(t, &IoWriterFactory{}, log)
}

func TestIoWriterStream_Send(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newStream(buf, AuditLogOptions{})

	record := NewRecord(KindWorkflow)
	record.WorkflowKey = "buyout"
	record.ProjectCode = "P-100"
	record.Outcome = "5 steps resolved"

	err := log.Send(record)
	require.NoError(t, err)

	var decoded ResolutionRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, record.ID, decoded.ID)
	assert.Equal(t, KindWorkflow, decoded.Kind)
	assert.Equal(t, "buyout", decoded.WorkflowKey)
	assert.Equal(t, "5 steps resolved", decoded.Outcome)
}

func TestIoWriterStream_MultipleWrites(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newStream(buf, AuditLogOptions{})

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		record := NewRecord(KindPermission)
		record.UserEmail = email
		require.NoError(t, log.Send(record))
	}

	output := buf.String()
	assert.Contains(t, output, "a@example.com")
	assert.Contains(t, output, "b@example.com")
	assert.Contains(t, output, "c@example.com")
	assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestIoWriterStream_PrettyPrint(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newStream(buf, AuditLogOptions{PrettyPrint: true})

	record := NewRecord(KindPermission)
	record.UserEmail = "dana@example.com"
	require.NoError(t, log.Send(record))

	output := buf.String()
	assert.True(t, strings.Contains(output, "\n  "), "pretty print should contain indented newlines")

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &data))
	assert.Equal(t, "dana@example.com", data["userEmail"])
}

func TestIoWriterStream_CompactOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newStream(buf, AuditLogOptions{PrettyPrint: false})

	require.NoError(t, log.Send(NewRecord(KindWorkflow)))

	trimmed := strings.TrimSuffix(buf.String(), "\n")
	assert.False(t, strings.Contains(trimmed, "\n"), "compact output should be single line")
}

func TestIoWriterStream_Close(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newStream(buf, AuditLogOptions{})

	assert.NotPanics(t, func() {
		log.Close()
	})

	// Writes still work after Close since it is a no-op
	assert.NoError(t, log.Send(NewRecord(KindWorkflow)))
}

func TestNewRecord(t *testing.T) {
	r1 := NewRecord(KindWorkflow)
	r2 := NewRecord(KindWorkflow)

	assert.NotEmpty(t, r1.ID)
	assert.NotEqual(t, r1.ID, r2.ID)
	assert.False(t, r1.Timestamp.IsZero())
	assert.Equal(t, KindWorkflow, r1.Kind)
}

func TestNullFactory(t *testing.T) {
	factory := NewNullFactory()
	stream, err := factory.NewStream()
	require.NoError(t, err)
	assert.IsType(t, &NullStream{}, stream)

	assert.NoError(t, stream.Send(NewRecord(KindPermission)))
	assert.NoError(t, stream.Send(nil))

	assert.NotPanics(t, func() {
		stream.Close()
		stream.Close()
	})
}
