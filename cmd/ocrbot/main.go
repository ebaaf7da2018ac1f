package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/ocrbot/internal/config"
	"github.com/user/ocrbot/internal/fetch"
	"github.com/user/ocrbot/internal/ocr"
	"github.com/user/ocrbot/internal/ocr/tesseract"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "ocrbot",
	Short:         "Discord bot that reads text out of images",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load(cfgPath)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func setupLogging(cfg *config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// newPipeline wires the downloader and the Tesseract engine from cfg.
func newPipeline(cfg *config.Config) *ocr.Pipeline {
	fetcher := fetch.New(
		fetch.WithClient(&http.Client{Timeout: cfg.Fetch.Timeout}),
		fetch.WithRetryPolicy(fetch.RetryPolicy{
			MaxAttempts: cfg.Fetch.RetryLimit,
			Delay:       cfg.Fetch.RetryDelay,
		}),
		fetch.WithMaxBodyBytes(cfg.Fetch.MaxBodyBytes),
		fetch.WithUserAgent(cfg.Fetch.UserAgent),
	)
	engine := tesseract.New(cfg.OCR.Languages, cfg.OCR.TessdataDir)
	return ocr.NewPipeline(fetcher, engine, ocr.WithConcurrency(cfg.Fetch.Concurrency))
}
