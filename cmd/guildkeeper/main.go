package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/guildkeeper/guildkeeper/internal/interfaces/cli/analytics"
	"github.com/guildkeeper/guildkeeper/internal/interfaces/cli/events"
	"github.com/guildkeeper/guildkeeper/internal/interfaces/cli/migrate"
	"github.com/guildkeeper/guildkeeper/internal/interfaces/cli/settings"
	"github.com/guildkeeper/guildkeeper/internal/interfaces/cli/tickets"
	"github.com/guildkeeper/guildkeeper/internal/interfaces/cli/worker"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "guildkeeper",
		Short:        "Guildkeeper - ticket and analytics core of a Discord bot",
		Long:         `Guildkeeper stores support tickets and server analytics for Discord guilds, with a background worker, migration tools and administrative commands.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	rootCmd.AddCommand(
		worker.NewCommand(&configPath),
		migrate.NewCommand(&configPath),
		analytics.NewCommand(&configPath),
		tickets.NewCommand(&configPath),
		settings.NewCommand(&configPath),
		events.NewCommand(&configPath),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
