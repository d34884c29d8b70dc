package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LARACONSOLE_DB",
		"LARACONSOLE_LOG_FILE",
		"LARACONSOLE_DEBUG",
		"LARACONSOLE_MAX_TRANSCRIPT_LINES",
		"LARACONSOLE_BACKEND_URL",
		"LARACONSOLE_AUTH_TOKEN",
		"LARACONSOLE_AGENT_NAME",
		"LARACONSOLE_WAKE_PHRASE",
		"LARACONSOLE_CALL_ID",
		"LARACONSOLE_CALL_ID_MODE",
		"LARACONSOLE_TASK_AUTO_RUN",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Contains(t, cfg.DBPath, "laraconsole.db")
	assert.Empty(t, cfg.LogPath)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 200, cfg.MaxTranscriptLines)
	assert.Nil(t, cfg.CallIDMode, "unset toggle must stay unset, not default to false")
	assert.Nil(t, cfg.TaskAutoRun)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LARACONSOLE_DB", "/tmp/console.db")
	t.Setenv("LARACONSOLE_DEBUG", "true")
	t.Setenv("LARACONSOLE_MAX_TRANSCRIPT_LINES", "500")
	t.Setenv("LARACONSOLE_BACKEND_URL", "wss://backend.example.com/ws")
	t.Setenv("LARACONSOLE_WAKE_PHRASE", "hey lara")
	t.Setenv("LARACONSOLE_CALL_ID_MODE", "on")
	t.Setenv("LARACONSOLE_TASK_AUTO_RUN", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/console.db", cfg.DBPath)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 500, cfg.MaxTranscriptLines)
	assert.Equal(t, "wss://backend.example.com/ws", cfg.BackendURL)
	assert.Equal(t, "hey lara", cfg.WakePhrase)
	require.NotNil(t, cfg.CallIDMode)
	assert.True(t, *cfg.CallIDMode)
	require.NotNil(t, cfg.TaskAutoRun)
	assert.False(t, *cfg.TaskAutoRun)
}

func TestLoadBadNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("LARACONSOLE_MAX_TRANSCRIPT_LINES", "a lot")
	t.Setenv("LARACONSOLE_DEBUG", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.MaxTranscriptLines)
	assert.False(t, cfg.Debug)
}

func TestParseBoolSpellings(t *testing.T) {
	for _, raw := range []string{"1", "true", "YES", " On "} {
		v, ok := parseBool(raw)
		assert.True(t, ok, raw)
		assert.True(t, v, raw)
	}
	for _, raw := range []string{"0", "False", "no", "OFF"} {
		v, ok := parseBool(raw)
		assert.True(t, ok, raw)
		assert.False(t, v, raw)
	}
	for _, raw := range []string{"", "maybe", "2"} {
		_, ok := parseBool(raw)
		assert.False(t, ok, raw)
	}
}
