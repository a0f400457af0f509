package analytics

import (
	"github.com/spf13/cobra"

	"github.com/guildkeeper/guildkeeper/internal/interfaces/app"
	"github.com/guildkeeper/guildkeeper/internal/interfaces/cli/render"
)

// NewCommand returns the analytics command tree.
func NewCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Analytics reports and maintenance",
	}

	cmd.AddCommand(
		newExportCommand(configPath),
		newOverviewCommand(configPath),
		newCleanupCommand(configPath),
	)

	return cmd
}

func newExportCommand(configPath *string) *cobra.Command {
	var (
		guildID string
		days    int
		format  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every analytics report of a guild",
		Long:  `Export overview, hourly activity, top channels, command stats, member engagement and health history for the last N days.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Bootstrap(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer c.Close()

			export, err := c.UseCases.Export.Execute(cmd.Context(), guildID, days)
			return render.Result(cmd.OutOrStdout(), format, export, err)
		},
	}

	cmd.Flags().StringVar(&guildID, "guild", "", "Guild ID (required)")
	cmd.Flags().IntVar(&days, "days", 30, "Number of days to export (1-365)")
	cmd.Flags().StringVar(&format, "format", render.FormatJSON, "Output format: json or yaml")
	_ = cmd.MarkFlagRequired("guild")

	return cmd
}

func newOverviewCommand(configPath *string) *cobra.Command {
	var (
		guildID string
		days    int
	)

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Show the server overview of a guild",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Bootstrap(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer c.Close()

			overview, err := c.UseCases.Queries.GetServerOverview(cmd.Context(), guildID, days)
			return render.Result(cmd.OutOrStdout(), render.FormatJSON, overview, err)
		},
	}

	cmd.Flags().StringVar(&guildID, "guild", "", "Guild ID (required)")
	cmd.Flags().IntVar(&days, "days", 7, "Number of days to summarize (1-365)")
	_ = cmd.MarkFlagRequired("guild")

	return cmd
}

func newCleanupCommand(configPath *string) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete analytics data older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Bootstrap(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer c.Close()

			if !cmd.Flags().Changed("days") {
				days = c.Config.Analytics.RetentionDays
			}
			result, err := c.UseCases.Cleanup.Execute(cmd.Context(), days)
			return render.Result(cmd.OutOrStdout(), render.FormatJSON, result, err)
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Days to keep (default: analytics.retention_days)")

	return cmd
}
