package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
)

var recognizeOut string

func init() {
	recognizeCmd.Flags().StringVar(&recognizeOut, "out", "", "write one text file per image into this directory")
	rootCmd.AddCommand(recognizeCmd)
}

var recognizeCmd = &cobra.Command{
	Use:   "recognize <url>...",
	Short: "Recognize text in images without connecting to Discord",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		results, err := newPipeline(cfg).RecognizeAll(ctx, args)
		if err != nil {
			return err
		}

		if recognizeOut != "" {
			if err := os.MkdirAll(recognizeOut, 0755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}
		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "%s: %v\n", r.Name, r.Err)
				continue
			}
			if recognizeOut == "" {
				fmt.Fprintf(os.Stdout, "==> %s <==\n%s\n", r.Name, r.Text)
				continue
			}
			path := filepath.Join(recognizeOut, r.Name)
			if err := os.WriteFile(path, []byte(r.Text), 0644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintln(os.Stdout, path)
		}
		if failed == len(results) {
			return fmt.Errorf("could not recognize any of %d image(s)", len(results))
		}
		return nil
	},
}
