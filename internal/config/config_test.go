package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./templates", cfg.Templates.Dir)
	assert.Equal(t, ".stache", cfg.Templates.Ext)
	assert.Equal(t, 1<<20, cfg.Templates.MaxBytes)
	assert.Equal(t, 128, cfg.Templates.MaxNesting)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8787, cfg.Server.Port)
	assert.Equal(t, 300, cfg.Watch.DebounceMs)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	viper.Reset()
	viper.Set("templates.dir", "./tpl")
	viper.Set("templates.max_bytes", 2048)
	viper.Set("server.port", 9000)
	viper.Set("log_level", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./tpl", cfg.Templates.Dir)
	assert.Equal(t, 2048, cfg.Templates.MaxBytes)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidateRejectsBadPort(t *testing.T) {
	viper.Reset()
	viper.Set("server.port", 70000)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestValidateRejectsNegativeLimits(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Templates.MaxBytes = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_bytes")
}
