// Package config resolves bootstrap configuration from environment variables
// with sensible defaults. Persisted operator settings live in the settings
// store; anything set here overrides the stored value for this run.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config is the runtime configuration for one console process.
type Config struct {
	DBPath  string
	LogPath string
	Debug   bool

	MaxTranscriptLines int

	// Overrides; empty string / unset means "use the stored setting".
	BackendURL  string
	AuthToken   string
	AgentName   string
	WakePhrase  string
	CallID      string
	CallIDMode  *bool
	TaskAutoRun *bool
}

// Load resolves configuration from the environment.
func Load() (Config, error) {
	dbPath := strings.TrimSpace(os.Getenv("LARACONSOLE_DB"))
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, err
		}
		dbPath = filepath.Join(home, ".config", "laraconsole", "laraconsole.db")
	}

	cfg := Config{
		DBPath:             dbPath,
		LogPath:            strings.TrimSpace(os.Getenv("LARACONSOLE_LOG_FILE")),
		Debug:              envOrDefaultBool("LARACONSOLE_DEBUG", false),
		MaxTranscriptLines: envOrDefaultInt("LARACONSOLE_MAX_TRANSCRIPT_LINES", 200),
		BackendURL:         strings.TrimSpace(os.Getenv("LARACONSOLE_BACKEND_URL")),
		AuthToken:          strings.TrimSpace(os.Getenv("LARACONSOLE_AUTH_TOKEN")),
		AgentName:          strings.TrimSpace(os.Getenv("LARACONSOLE_AGENT_NAME")),
		WakePhrase:         strings.TrimSpace(os.Getenv("LARACONSOLE_WAKE_PHRASE")),
		CallID:             strings.TrimSpace(os.Getenv("LARACONSOLE_CALL_ID")),
		CallIDMode:         envBoolPtr("LARACONSOLE_CALL_ID_MODE"),
		TaskAutoRun:        envBoolPtr("LARACONSOLE_TASK_AUTO_RUN"),
	}

	if cfg.MaxTranscriptLines <= 0 {
		cfg.MaxTranscriptLines = 200
	}
	return cfg, nil
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDefaultBool(key string, fallback bool) bool {
	value, ok := parseBool(os.Getenv(key))
	if !ok {
		return fallback
	}
	return value
}

func envBoolPtr(key string) *bool {
	value, ok := parseBool(os.Getenv(key))
	if !ok {
		return nil
	}
	return &value
}

func parseBool(raw string) (bool, bool) {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}
