// Package bootstrap assembles the runtime graph.
package bootstrap

import (
	"log/slog"

	"laraconsole/internal/config"
	"laraconsole/internal/domain"
	"laraconsole/internal/state"
	"laraconsole/internal/store"
	"laraconsole/internal/transport"
	"laraconsole/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Config   config.Config
	Settings domain.Settings

	Session       *state.SessionState
	Transcript    *state.TranscriptLog
	Answers       *state.AnswerBoard
	Tasks         *state.TaskList
	Notifications *state.NotificationRing

	Router     *usecase.Router
	Dispatcher *usecase.Dispatcher
	SettingsSv *usecase.SettingsService
	Transport  *transport.Client
	Store      *store.SettingsStore
}

// Build wires persistence, state, transport and the usecase layer.
func Build(cfg config.Config, log *slog.Logger) (Services, error) {
	settingsStore, err := store.Open(cfg.DBPath)
	if err != nil {
		return Services{}, err
	}

	settings, err := settingsStore.Load()
	if err != nil {
		return Services{}, err
	}
	settings = applyOverrides(settings, cfg)

	session := state.NewSessionState(settings.AgentName)
	transcript := state.NewTranscriptLog(cfg.MaxTranscriptLines)
	answers := state.NewAnswerBoard()
	tasks := state.NewTaskList(settings.TaskAutoRun)
	notifications := state.NewNotificationRing()

	router := usecase.NewRouter(session, transcript, answers, tasks, notifications, log)

	client := transport.NewClient(transport.Config{
		URL:        settings.BackendURL,
		Token:      settings.AuthToken,
		Supports:   []string{"transcript", "answer", "task", "call"},
		CallIDMode: settings.CallIDMode,
		CallID:     settings.CallID,
	}, router, router, log)

	dispatcher := usecase.NewDispatcher(client, session, log)
	settingsSv := usecase.NewSettingsService(settingsStore, dispatcher, log)

	return Services{
		Config:        cfg,
		Settings:      settings,
		Session:       session,
		Transcript:    transcript,
		Answers:       answers,
		Tasks:         tasks,
		Notifications: notifications,
		Router:        router,
		Dispatcher:    dispatcher,
		SettingsSv:    settingsSv,
		Transport:     client,
		Store:         settingsStore,
	}, nil
}

func applyOverrides(settings domain.Settings, cfg config.Config) domain.Settings {
	if cfg.BackendURL != "" {
		settings.BackendURL = cfg.BackendURL
	}
	if cfg.AuthToken != "" {
		settings.AuthToken = cfg.AuthToken
	}
	if cfg.AgentName != "" {
		settings.AgentName = cfg.AgentName
	}
	if cfg.WakePhrase != "" {
		settings.WakePhrase = cfg.WakePhrase
	}
	if cfg.CallID != "" {
		settings.CallID = cfg.CallID
	}
	if cfg.CallIDMode != nil {
		settings.CallIDMode = *cfg.CallIDMode
	}
	if cfg.TaskAutoRun != nil {
		settings.TaskAutoRun = *cfg.TaskAutoRun
	}
	return settings
}
