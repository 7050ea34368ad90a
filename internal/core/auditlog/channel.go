//
//  Copyright © Siteline Inc. All rights reserved.
//

package auditlog

import (
	"github.com/sitelinehq/assignmentengine/pkg/core/auditlog"
)

// ChannelFactory factory for ChannelStream
type ChannelFactory struct {
	ch chan *auditlog.ResolutionRecord
}

// ChannelStream implements the Stream interface by writing resolution records to a channel.
type ChannelStream struct {
	ch chan *auditlog.ResolutionRecord
}

// NewChannelLogger creates a new Stream for logging resolution records to a channel.
func NewChannelLogger(ch chan *auditlog.ResolutionRecord) auditlog.Factory {
	return &ChannelFactory{ch: ch}
}

// NewStream creates a new Stream to satisfy the Factory interface.
func (f *ChannelFactory) NewStream() (auditlog.Stream, error) {
	return &ChannelStream{ch: f.ch}, nil
}

// Send emulates the production of a broker event by sending a resolution record to the channel.
func (s *ChannelStream) Send(m *auditlog.ResolutionRecord) error {
	s.ch <- m

	return nil
}

// Close finalizes the audit log by closing the underlying channel.
func (s *ChannelStream) Close() {
	if s.ch != nil {
		close(s.ch)
	}
}
