//
//  Copyright © Siteline Inc. All rights reserved.
//

package auditlog

import (
	"testing"

	"github.com/sitelinehq/assignmentengine/pkg/core/auditlog"
	"github.com/stretchr/testify/assert"
)

func TestChannelInstantiate(t *testing.T) {
	ch := make(chan *auditlog.ResolutionRecord, 10)
	stream := NewChannelLogger(ch)
	assert.NotNil(t, stream)
}

func TestChannelLoggerSend(t *testing.T) {
	ch := make(chan *auditlog.ResolutionRecord, 10)
	logger := &ChannelStream{ch: ch}

	record := auditlog.NewRecord(auditlog.KindWorkflow)
	record.WorkflowKey = "buyout"
	record.ProjectCode = "P-100"

	err := logger.Send(record)
	assert.NoError(t, err)

	select {
	case received := <-ch:
		assert.Equal(t, "buyout", received.WorkflowKey)
		assert.Equal(t, "P-100", received.ProjectCode)
		assert.Equal(t, auditlog.KindWorkflow, received.Kind)
	default:
		t.Fatal("Expected record to be sent to channel")
	}
}

func TestChannelLoggerClose(t *testing.T) {
	ch := make(chan *auditlog.ResolutionRecord, 10)
	logger := &ChannelStream{ch: ch}

	logger.Close()

	_, ok := <-ch
	assert.False(t, ok, "Channel should be closed")
}

func TestChannelLoggerCloseWithNilChannel(t *testing.T) {
	logger := &ChannelStream{ch: nil}

	assert.NotPanics(t, func() {
		logger.Close()
	})
}
