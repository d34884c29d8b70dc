package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"laraconsole/internal/bootstrap"
	"laraconsole/internal/config"
	"laraconsole/internal/tui"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger, closeLog, err := buildLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal error", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	services, err := bootstrap.Build(cfg, logger)
	if err != nil {
		return err
	}
	defer services.Store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	services.Transport.Connect(ctx)
	defer services.Transport.Close()

	go services.Router.RunSweeper(ctx)

	logger.Info("laraconsole starting", "backend", services.Settings.BackendURL, "callIdMode", services.Settings.CallIDMode)

	program := tea.NewProgram(tui.New(services), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// buildLogger writes JSON logs to the configured file, or swallows them when
// no file is set; stdout belongs to the TUI.
func buildLogger(cfg config.Config) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	var w io.Writer = io.Discard
	closeFn := func() {}
	if cfg.LogPath != "" {
		f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), closeFn, nil
}
