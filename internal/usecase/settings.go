package usecase

import (
	"fmt"
	"log/slog"

	"laraconsole/internal/domain"
	"laraconsole/internal/ports"
	"laraconsole/internal/protocol"
)

// SettingsService applies operator settings changes: persist locally, then
// push the backend-relevant subset over the wire.
type SettingsService struct {
	store      ports.SettingsStore
	dispatcher *Dispatcher
	log        *slog.Logger
}

func NewSettingsService(store ports.SettingsStore, dispatcher *Dispatcher, log *slog.Logger) *SettingsService {
	return &SettingsService{store: store, dispatcher: dispatcher, log: log}
}

// Update persists the settings and notifies the backend. A persistence
// failure is returned; the wire push is best effort like any other command.
func (s *SettingsService) Update(settings domain.Settings) error {
	if err := s.store.Save(settings); err != nil {
		return fmt.Errorf("persist settings: %w", err)
	}

	confirm := settings.ConfirmBeforeSpeak
	raise := settings.AutoRaiseHandHint
	s.dispatcher.SetSettings(protocol.ClientSettings{
		WakePhrase:         settings.WakePhrase,
		ConfirmBeforeSpeak: &confirm,
		AutoRaiseHandHint:  &raise,
	})
	return nil
}

// Load reads the persisted settings.
func (s *SettingsService) Load() (domain.Settings, error) {
	return s.store.Load()
}
