// Package store persists the configuration surface in a local sqlite
// database, implementing ports.SettingsStore.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sqliteDriver "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"laraconsole/internal/domain"
)

type settingsRow struct {
	ID                   uint `gorm:"primaryKey"`
	BackendURL           string
	AuthToken            string
	AgentName            string
	WakePhrase           string
	AutoScrollTranscript bool
	ConfirmBeforeSpeak   bool
	AutoRaiseHandHint    bool
	TaskAutoRun          bool
	CallIDMode           bool
	CallID               string
}

func (settingsRow) TableName() string {
	return "settings"
}

// SettingsStore holds the single settings row.
type SettingsStore struct {
	db *gorm.DB
}

// Open opens (and migrates) the sqlite database at path; ":memory:" is
// accepted for tests.
func Open(path string) (*SettingsStore, error) {
	if err := ensureDirectory(path); err != nil {
		return nil, err
	}
	db, err := gorm.Open(sqliteDriver.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}
	if err := db.AutoMigrate(&settingsRow{}); err != nil {
		return nil, fmt.Errorf("migrate settings db: %w", err)
	}
	return &SettingsStore{db: db}, nil
}

// Load returns the stored settings, or defaults when none were saved yet.
func (s *SettingsStore) Load() (domain.Settings, error) {
	var row settingsRow
	err := s.db.First(&row, 1).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DefaultSettings(), nil
		}
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return domain.Settings{
		BackendURL:           row.BackendURL,
		AuthToken:            row.AuthToken,
		AgentName:            row.AgentName,
		WakePhrase:           row.WakePhrase,
		AutoScrollTranscript: row.AutoScrollTranscript,
		ConfirmBeforeSpeak:   row.ConfirmBeforeSpeak,
		AutoRaiseHandHint:    row.AutoRaiseHandHint,
		TaskAutoRun:          row.TaskAutoRun,
		CallIDMode:           row.CallIDMode,
		CallID:               row.CallID,
	}, nil
}

// Save upserts the single settings row.
func (s *SettingsStore) Save(settings domain.Settings) error {
	row := settingsRow{
		ID:                   1,
		BackendURL:           settings.BackendURL,
		AuthToken:            settings.AuthToken,
		AgentName:            settings.AgentName,
		WakePhrase:           settings.WakePhrase,
		AutoScrollTranscript: settings.AutoScrollTranscript,
		ConfirmBeforeSpeak:   settings.ConfirmBeforeSpeak,
		AutoRaiseHandHint:    settings.AutoRaiseHandHint,
		TaskAutoRun:          settings.TaskAutoRun,
		CallIDMode:           settings.CallIDMode,
		CallID:               settings.CallID,
	}
	if err := s.db.Save(&row).Error; err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SettingsStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func ensureDirectory(path string) error {
	if strings.EqualFold(strings.TrimSpace(path), ":memory:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings db dir: %w", err)
	}
	return nil
}
