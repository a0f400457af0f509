package settings

import (
	"github.com/spf13/cobra"

	"github.com/guildkeeper/guildkeeper/internal/application/setting/dto"
	"github.com/guildkeeper/guildkeeper/internal/interfaces/app"
	"github.com/guildkeeper/guildkeeper/internal/interfaces/cli/render"
)

// NewCommand returns the settings command tree.
func NewCommand(configPath *string) *cobra.Command {
	var guildID string

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and update guild settings",
	}
	cmd.PersistentFlags().StringVar(&guildID, "guild", "", "Guild ID (required)")
	_ = cmd.MarkPersistentFlagRequired("guild")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Show a guild's settings, defaults included",
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := app.Bootstrap(cmd.Context(), *configPath)
				if err != nil {
					return err
				}
				defer c.Close()

				s, err := c.UseCases.GetSettings.Execute(cmd.Context(), guildID)
				return render.Result(cmd.OutOrStdout(), render.FormatJSON, s, err)
			},
		},
		newSetStaffRolesCommand(configPath, &guildID),
		newSetCommand(configPath, &guildID),
	)

	return cmd
}

func newSetStaffRolesCommand(configPath *string, guildID *string) *cobra.Command {
	var roles []string

	cmd := &cobra.Command{
		Use:   "set-staff-roles",
		Short: "Replace the roles treated as ticket staff",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Bootstrap(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer c.Close()

			s, err := c.UseCases.UpdateSettings.Execute(cmd.Context(), *guildID, dto.UpdateGuildSettingsRequest{
				StaffRoleIDs: &roles,
			})
			return render.Result(cmd.OutOrStdout(), render.FormatJSON, s, err)
		},
	}

	cmd.Flags().StringSliceVar(&roles, "roles", nil, "Comma-separated role IDs; empty clears the list")

	return cmd
}

func newSetCommand(configPath *string, guildID *string) *cobra.Command {
	var (
		maxOpen   int
		analytics bool
		leveling  bool
		category  string
		logChan   string
		archive   string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update individual settings; only the flags given are changed",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Bootstrap(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer c.Close()

			var req dto.UpdateGuildSettingsRequest
			flags := cmd.Flags()
			if flags.Changed("max-open-tickets") {
				req.MaxOpenTicketsPerUser = &maxOpen
			}
			if flags.Changed("analytics") {
				req.AnalyticsEnabled = &analytics
			}
			if flags.Changed("leveling") {
				req.LevelingEnabled = &leveling
			}
			if flags.Changed("ticket-category") {
				req.TicketCategoryID = &category
			}
			if flags.Changed("log-channel") {
				req.LogChannelID = &logChan
			}
			if flags.Changed("transcript-channel") {
				req.TranscriptChannelID = &archive
			}

			s, err := c.UseCases.UpdateSettings.Execute(cmd.Context(), *guildID, req)
			return render.Result(cmd.OutOrStdout(), render.FormatJSON, s, err)
		},
	}

	cmd.Flags().IntVar(&maxOpen, "max-open-tickets", 1, "Open tickets allowed per user (1-10)")
	cmd.Flags().BoolVar(&analytics, "analytics", true, "Record analytics for this guild")
	cmd.Flags().BoolVar(&leveling, "leveling", false, "Enable leveling")
	cmd.Flags().StringVar(&category, "ticket-category", "", "Category channel ID for new tickets")
	cmd.Flags().StringVar(&logChan, "log-channel", "", "Channel ID for ticket logs")
	cmd.Flags().StringVar(&archive, "transcript-channel", "", "Channel ID for transcripts")

	return cmd
}
