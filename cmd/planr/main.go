package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/planr/internal/api"
	"github.com/sandeepkv93/planr/internal/config"
	"github.com/sandeepkv93/planr/internal/live"
	"github.com/sandeepkv93/planr/internal/session"
	"github.com/sandeepkv93/planr/internal/storage"
	"github.com/sandeepkv93/planr/internal/store"
	"github.com/sandeepkv93/planr/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "planr failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if err := os.MkdirAll(filepath.Dir(cfg.VaultPath), 0o755); err != nil {
		return fmt.Errorf("create vault directory: %w", err)
	}
	vault, err := storage.Open(cfg.VaultPath)
	if err != nil {
		return fmt.Errorf("open vault: %w", err)
	}
	defer vault.Close()

	feed := live.NewFeed(cfg.LiveFeedBuffer)

	// Without a server URL the client runs against the built-in
	// simulated backend, useful for trying planr out offline.
	var svc api.Service
	if cfg.ServerURL != "" {
		svc = api.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout)
	} else {
		svc = api.NewMemory(feed, time.Now)
	}

	st := store.New(svc, logger, time.Now)
	sess := session.NewManager(svc, st, vault, feed, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	if err := sess.CheckAuth(ctx); err != nil {
		logger.Warn("restore session", "error", err)
	}
	cancel()

	model := update.NewModel(st, sess, update.Options{
		DefaultTimerMinutes: cfg.DefaultTimerMinutes,
		RequestTimeout:      cfg.RequestTimeout,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

func configPath() string {
	if path := os.Getenv("PLANR_CONFIG"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".planr", "config.yaml")
}
