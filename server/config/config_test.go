package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("QAFORUM_DATABASE_PATH", " /tmp/forum.db ")
	t.Setenv("QAFORUM_DATABASE_BOOTSTRAP", "false")
	t.Setenv("QAFORUM_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("QAFORUM_SERVER_READ_HEADER_TIMEOUT", "10s")
	t.Setenv("QAFORUM_LOG_LEVEL", "DEBUG")
	t.Setenv("QAFORUM_LOG_PRETTY", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/forum.db", cfg.Database.Path)
	assert.False(t, cfg.Database.Bootstrap)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadHeaderTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("QAFORUM_LOG_LEVEL", "loud")
	_, err := Load()
	require.Error(t, err)
}
