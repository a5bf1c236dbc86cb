package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea/v2"

	"weather-picker/internal/config"
	"weather-picker/internal/providers/geoservice"
	"weather-picker/internal/sentinel"
	"weather-picker/internal/session"
	"weather-picker/internal/tui"
)

var _ session.Fetcher = (*geoservice.Client)(nil)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// The terminal belongs to the UI, so logs go to a file
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer func() {
		_ = logFile.Close()
	}()

	logger := cfg.NewLoggerTo(logFile)
	slog.SetDefault(logger)

	alerts := tui.NewAlertBox()
	client := geoservice.NewClient(cfg.Client.BackendURL, logger)
	ctrl := session.NewController(client, sentinel.NewDetector(alerts, logger), logger)

	logger.Info("starting picker", "backend", cfg.Client.BackendURL)
	p := tea.NewProgram(tui.New(context.Background(), ctrl, alerts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("picker failed", "error", err)
		log.Fatal(err)
	}
}
