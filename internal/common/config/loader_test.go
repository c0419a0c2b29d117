package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.App.Name)
	assert.Positive(t, cfg.Server.Port)
	assert.Positive(t, cfg.Classifier.TimeoutMS)
	assert.Positive(t, cfg.Executors.TimeoutMS)
	assert.Positive(t, cfg.Channel.CommandBuffer)
	assert.NotEmpty(t, cfg.Classifier.GenAIBaseURL)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ASSISTANT_SERVER_PORT", "9999")
	t.Setenv("ASSISTANT_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidateRejectsBadTieBreak(t *testing.T) {
	t.Setenv("ASSISTANT_DIRECTORY_TIE_BREAK", "coin_flip")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tie_break")
}

func TestValidateRejectsBadPort(t *testing.T) {
	t.Setenv("ASSISTANT_SERVER_PORT", "-1")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8000}
	assert.Equal(t, "127.0.0.1:8000", s.Addr())
}
