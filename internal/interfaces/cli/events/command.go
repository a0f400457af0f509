package events

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/guildkeeper/guildkeeper/internal/interfaces/app"
	"github.com/guildkeeper/guildkeeper/internal/interfaces/cli/render"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

// NewCommand returns the events command tree.
func NewCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Feed gateway events into the trackers",
	}

	cmd.AddCommand(newIngestCommand(configPath))

	return cmd
}

func newIngestCommand(configPath *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest newline-delimited JSON events",
		Long: `Read one JSON event per line and route it by "type":
message, command, reaction, voice, member_join, member_leave or activity.
Messages in ticket channels also update ticket activity and the transcript log.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			c, err := app.Bootstrap(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer c.Close()

			d := NewDispatcher(c.UseCases.RecordActivity, c.UseCases.Tracker, logger.WithComponent("events.ingest"))
			summary, err := d.Ingest(cmd.Context(), in)
			return render.Result(cmd.OutOrStdout(), render.FormatJSON, summary, err)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "Events file; - reads stdin")

	return cmd
}
