package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/ocrbot/internal/discord"
	"github.com/user/ocrbot/internal/dispatch"
	"github.com/user/ocrbot/internal/handlers"
	"github.com/user/ocrbot/internal/scheduler"
	"github.com/user/ocrbot/internal/webhook"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to Discord and answer interactions",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)
	if err := cfg.RequireDiscord(); err != nil {
		return err
	}

	pipeline := newPipeline(cfg)
	registry, err := handlers.All(pipeline).Registry()
	if err != nil {
		return fmt.Errorf("build command registry: %w", err)
	}
	router := dispatch.NewRouter(registry)

	adapter, err := discord.New(cfg.Discord.Token, router)
	if err != nil {
		return fmt.Errorf("create discord adapter: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- adapter.Start(ctx) }()

	activities := cfg.Presence.Activities
	if len(activities) == 0 {
		activities = discord.DefaultActivities
	}
	updatePresence := func() {
		if err := adapter.UpdatePresence(activities); err != nil {
			slog.Warn("update presence failed", "error", err)
		}
	}
	go func() {
		select {
		case <-adapter.Ready():
			updatePresence()
		case <-ctx.Done():
		}
	}()

	sched := scheduler.New()
	if err := sched.Every("presence", cfg.Presence.Interval, updatePresence); err != nil {
		return fmt.Errorf("schedule presence: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	if cfg.Webhook.Enabled {
		webhookSrv := webhook.NewServer(pipeline,
			webhook.WithToken(cfg.Webhook.Token),
			webhook.WithMaxURLs(cfg.Webhook.MaxURLs),
			webhook.WithRegistry(registry),
		)
		httpServer := &http.Server{
			Addr:              cfg.Webhook.Addr,
			Handler:           webhookSrv,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			slog.Info("webhook server started", "listen", cfg.Webhook.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("webhook server error", "error", err)
			}
		}()
		go func() {
			<-ctx.Done()
			httpServer.Close()
		}()
	}

	slog.Info("ocrbot started",
		"log_level", cfg.LogLevel,
		"commands", len(registry.Definitions()),
		"languages", cfg.OCR.Languages,
		"presence_interval", cfg.Presence.Interval,
		"webhook", cfg.Webhook.Enabled,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		slog.Info("shutting down", "signal", sig)
		cancel()
		return <-done
	case err := <-done:
		return err
	}
}
