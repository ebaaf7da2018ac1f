package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/ocrbot/internal/discord"
	"github.com/user/ocrbot/internal/handlers"
)

func init() {
	rootCmd.AddCommand(deployCmd)
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Register the bot's commands with Discord",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)
		if err := cfg.RequireDiscord(); err != nil {
			return err
		}

		// Command definitions never call the recognizer.
		registry, err := handlers.All(nil).Registry()
		if err != nil {
			return fmt.Errorf("build command registry: %w", err)
		}
		adapter, err := discord.New(cfg.Discord.Token, nil)
		if err != nil {
			return fmt.Errorf("create discord session: %w", err)
		}

		deployed, err := discord.Deploy(context.Background(), adapter.Session(), cfg.Discord.ClientID, registry.Definitions())
		if err != nil {
			return err
		}
		for _, c := range deployed {
			fmt.Fprintf(os.Stdout, "Deployed %s (%s)\n", c.Name, c.ID)
		}
		return nil
	},
}
