// Command taskhubd runs the task-assignment HTTP service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/taskhub/taskhub/internal/auth"
	"github.com/taskhub/taskhub/internal/config"
	"github.com/taskhub/taskhub/internal/credential"
	"github.com/taskhub/taskhub/internal/httpapi"
	"github.com/taskhub/taskhub/internal/notify"
	"github.com/taskhub/taskhub/internal/store"
	"github.com/taskhub/taskhub/internal/task"
	"github.com/taskhub/taskhub/internal/user"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", config.DefaultConfigPath(), "server configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	log := mustMakeLogger(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	log.Info("starting taskhub server")

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Error("failed to close store", "error", err)
		}
	}()

	secret := cfg.TokenSecret
	if secret == "" {
		secret, err = credential.EnsureTokenSecret()
		if err != nil {
			return fmt.Errorf("loading token secret: %w", err)
		}
	}

	tokens := auth.NewTokens([]byte(secret), cfg.TokenTTL)
	dispatcher := notify.NewDispatcher(st, log)

	deps := httpapi.Deps{
		Resolver: auth.NewResolver(st, tokens),
		Users:    user.NewService(st, tokens, cfg.BcryptCost),
		Tasks:    task.NewService(st, dispatcher),
		Inbox:    notify.NewInbox(st),
		TokenTTL: tokens.TTL(),
	}

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: httpapi.Handler(log, deps, cfg.RequestTimeout),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("taskhub http server", "address", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped unexpectedly: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func mustMakeLogger(levelStr, format string) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(levelStr) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
