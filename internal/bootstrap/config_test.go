package bootstrap

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/accessjobs/config"
)

func TestValidateServiceConfig(t *testing.T) {
	require.Error(t, ValidateServiceConfig(nil))
	require.Error(t, ValidateServiceConfig(&config.AppConfig{Services: ""}))
	require.Error(t, ValidateServiceConfig(&config.AppConfig{Services: "http,rules-engine"}))
	require.NoError(t, ValidateServiceConfig(&config.AppConfig{Services: "http, scheduler"}))
}

func TestGetEnabledServices(t *testing.T) {
	assert.Empty(t, GetEnabledServices(nil))
	assert.Empty(t, GetEnabledServices(&config.AppConfig{Services: "bogus"}))
	assert.Equal(t,
		[]string{"http", "scheduler", "reaper"},
		GetEnabledServices(&config.AppConfig{Services: "reaper,http,scheduler"}),
	)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := newLogger(&buf, config.LoggingConfig{Level: "warn", Format: "json"})
	logger.Info("dropped")
	logger.Warn("kept", "job_kind", "revoke")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, `"msg":"kept"`)
	assert.Contains(t, out, `"job_kind":"revoke"`)

	buf.Reset()
	logger = newLogger(&buf, config.LoggingConfig{Level: "debug", Format: "text"})
	logger.Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")
}

func TestLoadConfig_ReadsEnvironment(t *testing.T) {
	t.Setenv("SERVICES", "scheduler,reaper")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("JOBS_HOLDER_ID", "replica-1")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "scheduler,reaper", cfg.Services)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "replica-1", cfg.Jobs.HolderID)
}
