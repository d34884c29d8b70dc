package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laraconsole/internal/domain"
)

func openTestStore(t *testing.T) *SettingsStore {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreLoadReturnsDefaultsWhenEmpty(t *testing.T) {
	s := openTestStore(t)

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), got)
}

func TestStoreRoundTrip(t *testing.T) {
	s := openTestStore(t)

	want := domain.DefaultSettings()
	want.BackendURL = "wss://backend.example.com/ws"
	want.AuthToken = "tok-1"
	want.WakePhrase = "hey lara"
	want.TaskAutoRun = true
	want.CallIDMode = true
	want.CallID = "CA1"

	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStoreSaveOverwritesSingleRow(t *testing.T) {
	s := openTestStore(t)

	first := domain.DefaultSettings()
	first.WakePhrase = "hey lara"
	require.NoError(t, s.Save(first))

	second := first
	second.WakePhrase = "ok computer"
	second.ConfirmBeforeSpeak = false
	require.NoError(t, s.Save(second))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "ok computer", got.WakePhrase)
	assert.False(t, got.ConfirmBeforeSpeak)
}

func TestStoreOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "settings.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	settings := domain.DefaultSettings()
	settings.AgentName = "Lara"
	require.NoError(t, s.Save(settings))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "Lara", got.AgentName)
}
