//
//  Copyright © Siteline Inc. All rights reserved.
//

package config_test

import (
	"os"
	"testing"

	"github.com/sitelinehq/assignmentengine/pkg/core/config"
	"github.com/stretchr/testify/assert"
)

func TestInitConfig(t *testing.T) {
	config.ResetConfig()
	assert.NotNil(t, config.VConfig)
}

func TestConfigDefaults(t *testing.T) {
	config.ResetConfig()

	assert.False(t, config.VConfig.GetBool(config.MockEnabled))
	assert.False(t, config.VConfig.GetBool(config.AuditStdout))
}

func TestConfigEnvOverride(t *testing.T) {
	os.Setenv("SAE_MOCK_ENABLED", "true")
	defer os.Unsetenv("SAE_MOCK_ENABLED")

	config.ResetConfig()
	assert.True(t, config.VConfig.GetBool(config.MockEnabled))
}

func TestConfigWithCustomFilename(t *testing.T) {
	os.Setenv(config.ConfigFileNameEnv, "sae-config")
	defer os.Unsetenv(config.ConfigFileNameEnv)

	config.ResetConfig()
	assert.NotNil(t, config.VConfig)
}
