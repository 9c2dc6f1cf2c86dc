// ABOUTME: Development backend for exercising the widget end to end
// ABOUTME: Usage: fake-backend [-config botd.yaml] [-addr localhost:8000] [-key abc123]

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/embedchat/embedchat/internal/botd"
	"github.com/embedchat/embedchat/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	key := flag.String("key", "abc123", "Webhook key when no config file is given")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := run(*configPath, *addr, *key); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, addr, key string) error {
	cfg := botd.DefaultConfig()
	if configPath != "" {
		loaded, err := botd.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = *loaded
	} else {
		cfg.Bots = []botd.BotConfig{{Name: "Echo Bot", WebhookKey: key}}
	}
	if addr != "" {
		cfg.Addr = addr
	}

	st, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	srv, err := botd.NewServer(cfg, st, nil)
	if err != nil {
		return err
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("fake-backend listening", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return httpServer.Shutdown(shutdownCtx)
}
