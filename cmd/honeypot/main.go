package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GandhamRajaReddy/honeypot-api/internal/agent"
	"github.com/GandhamRajaReddy/honeypot-api/internal/anthropic"
	"github.com/GandhamRajaReddy/honeypot-api/internal/api"
	"github.com/GandhamRajaReddy/honeypot-api/internal/config"
	"github.com/GandhamRajaReddy/honeypot-api/internal/engine"
	"github.com/GandhamRajaReddy/honeypot-api/internal/events"
	"github.com/GandhamRajaReddy/honeypot-api/internal/report"
	"github.com/GandhamRajaReddy/honeypot-api/internal/session"
	"github.com/GandhamRajaReddy/honeypot-api/internal/storage"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("honeypot starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Generative delegate (optional — fallback replies work without it)
	var llm *anthropic.Client
	if cfg.AnthropicAPIKey != "" {
		llm = anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		slog.Info("anthropic client ready", "model", cfg.AnthropicModel)
	} else {
		slog.Warn("ANTHROPIC_API_KEY not set — using fallback responses only")
	}

	// Report archive (optional)
	var archive *storage.Store
	if cfg.DatabaseURL != "" {
		db, err := storage.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		archive = db
		slog.Info("report archive connected")
	} else {
		slog.Warn("DATABASE_URL not set — reports will not be archived")
	}

	// Event bus (optional)
	var bus *events.Client
	if cfg.NatsURL != "" {
		c, err := events.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer c.Close()
		bus = c
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS_URL not set — running without event signals")
	}

	decoy := agent.New(llm, time.Duration(cfg.DelegateTimeoutS)*time.Second, slog.Default())
	collector := report.NewClient(cfg.CallbackURL, slog.Default())
	sessions := session.NewStore()

	eng := engine.New(sessions, decoy, collector, bus, archive, slog.Default())

	srv := api.NewServer(cfg.Port, cfg.APIKey, eng, sessions, archive, llm != nil)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	if bus != nil {
		if err := bus.Publish(events.SubjectRegistered, map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"port":      cfg.Port,
		}); err != nil {
			slog.Warn("failed to publish registration", "error", err)
		}
	}

	slog.Info("honeypot ready", "port", cfg.Port, "ai_enabled", llm != nil)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("honeypot stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
