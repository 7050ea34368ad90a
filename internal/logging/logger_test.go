//
//  Copyright © Siteline Inc. All rights reserved.
//

package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestLogging(t *testing.T) {
	logger := newLogger("testmodule")
	var buffer bytes.Buffer
	logger.SetOut(&buffer)
	logger.SetLevel(zapcore.InfoLevel)

	// As default, the logging level must be at info
	assert.False(t, logger.IsDebugEnabled())

	actorID := "tester"
	actionID := "resolve"

	// Debug log should not be printed
	logger.Debug(actorID, actionID, "debug message")
	logger.Debugf(actorID, actionID, "debug message %s", "hello")
	assert.Empty(t, buffer.Bytes())

	// The other logs should be printed
	buffer.Reset()
	logger.Info(actorID, actionID, "info message")
	assert.NotEmpty(t, buffer.Bytes())
	buffer.Reset()
	logger.Infof(actorID, actionID, "info message %s", "hello")
	assert.NotEmpty(t, buffer.Bytes())
	buffer.Reset()
	logger.Warn(actorID, actionID, "warning message")
	assert.NotEmpty(t, buffer.Bytes())
	buffer.Reset()
	logger.Warnf(actorID, actionID, "warning message %s", "hello")
	assert.NotEmpty(t, buffer.Bytes())
	buffer.Reset()
	logger.Error(actorID, actionID, "error message")
	assert.NotEmpty(t, buffer.Bytes())
	buffer.Reset()
	logger.Errorf(actorID, actionID, "error message %s", "hello")
	assert.NotEmpty(t, buffer.Bytes())

	// After raising the level, debug flows
	logger.SetLevel(zapcore.DebugLevel)
	assert.True(t, logger.IsDebugEnabled())
	buffer.Reset()
	logger.Debug(actorID, actionID, "debug message")
	assert.NotEmpty(t, buffer.Bytes())
}

func TestLoggerFieldsPresent(t *testing.T) {
	logger := newLogger("fieldsmodule")
	var buffer bytes.Buffer
	logger.SetOut(&buffer)
	logger.SetLevel(zapcore.InfoLevel)

	logger.Infof("px@example.com", "resolveChain", "resolved %d steps", 4)

	out := buffer.String()
	assert.Contains(t, out, "px@example.com")
	assert.Contains(t, out, "resolveChain")
	assert.Contains(t, out, "fieldsmodule")
}
