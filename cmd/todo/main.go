package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sandeepkv93/todo/internal/config"
	"github.com/sandeepkv93/todo/internal/logging"
	"github.com/sandeepkv93/todo/internal/storage"
	"github.com/sandeepkv93/todo/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "todo failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load(".env")

	logger, closeLog, err := logging.New(logging.Config{
		Level:    cfg.Log.Level,
		Encoding: cfg.Log.Encoding,
		Path:     cfg.Log.Path,
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = closeLog() }()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
	store, err := storage.Open(ctx, storage.Options{Path: cfg.DBPath, Logger: logger})
	cancel()
	if err != nil {
		logger.Error("open store", zap.String("path", cfg.DBPath), zap.Error(err))
		if errors.Is(err, storage.ErrInit) {
			return fmt.Errorf("cannot open task database %s: %w", cfg.DBPath, err)
		}
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}()

	program := tea.NewProgram(update.NewModel(store, cfg, logger), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	logger.Info("todo exited")
	return nil
}
