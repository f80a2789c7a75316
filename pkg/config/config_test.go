package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("EMBY_SERVER_URL", "https://emby.local:8920")
	t.Setenv("EMBY_USERNAME", "alice")
	t.Setenv("EMBY_PASSWORD", "pw")
	t.Setenv("LLM_MAX_ITEMS", "15")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://emby.local:8920", cfg.Server.URL)
	assert.Equal(t, "alice", cfg.Server.Username)
	assert.True(t, cfg.Server.VerifySSL)
	assert.Equal(t, 15, cfg.Agent.MaxItems)
	assert.Equal(t, "embymcp", cfg.Client.Name)
}

func TestLoadMissingCredentials(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.url")
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.URL = "https://emby.local"
	cfg.Server.Username = "alice"
	cfg.Server.Password = "pw"
	require.NoError(t, cfg.Validate())

	cfg.Agent.MaxItems = 0
	assert.Error(t, cfg.Validate())

	cfg.Agent.MaxItems = 10
	cfg.Server.Password = ""
	assert.Error(t, cfg.Validate())
}
