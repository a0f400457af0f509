package tickets

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/guildkeeper/guildkeeper/internal/application/ticket/usecases"
	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	"github.com/guildkeeper/guildkeeper/internal/interfaces/app"
	"github.com/guildkeeper/guildkeeper/internal/interfaces/cli/render"
	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
)

const defaultActor = "cli"

// NewCommand returns the tickets command tree.
func NewCommand(configPath *string) *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "Manage support tickets",
	}
	cmd.PersistentFlags().StringVar(&actor, "actor", defaultActor, "User ID recorded as the actor of lifecycle changes")

	run := func(fn func(cmd *cobra.Command, c *app.Container) (interface{}, error)) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			c, err := app.Bootstrap(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer c.Close()

			data, err := fn(cmd, c)
			return render.Result(cmd.OutOrStdout(), render.FormatJSON, data, err)
		}
	}

	cmd.AddCommand(
		newOpenCommand(run),
		newGetCommand(run),
		newListCommand(run),
		newCloseCommand(run, &actor),
		newReopenCommand(run, &actor),
		newDeleteCommand(run, &actor),
		newBulkDeleteCommand(run, &actor),
		newRateCommand(run, &actor),
		newTranscriptCommand(configPath),
		newSaveTranscriptCommand(run),
	)

	return cmd
}

type runner func(fn func(cmd *cobra.Command, c *app.Container) (interface{}, error)) func(cmd *cobra.Command, args []string) error

func newOpenCommand(run runner) *cobra.Command {
	var input usecases.OpenTicketCommand

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open a ticket",
		RunE: run(func(cmd *cobra.Command, c *app.Container) (interface{}, error) {
			return c.UseCases.OpenTicket.Execute(cmd.Context(), input)
		}),
	}

	cmd.Flags().StringVar(&input.GuildID, "guild", "", "Guild ID (required)")
	cmd.Flags().StringVar(&input.UserID, "user", "", "Opening user ID (required)")
	cmd.Flags().StringVar(&input.Subject, "subject", "", "Ticket subject (required)")
	_ = cmd.MarkFlagRequired("guild")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func newGetCommand(run runner) *cobra.Command {
	var query usecases.GetTicketQuery

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show one ticket by id, or by guild and number",
		RunE: run(func(cmd *cobra.Command, c *app.Container) (interface{}, error) {
			return c.UseCases.GetTicket.Execute(cmd.Context(), query)
		}),
	}

	cmd.Flags().UintVar(&query.TicketID, "id", 0, "Ticket ID")
	cmd.Flags().StringVar(&query.GuildID, "guild", "", "Guild ID, used with --number")
	cmd.Flags().IntVar(&query.Number, "number", 0, "Per-guild ticket number")

	return cmd
}

func newListCommand(run runner) *cobra.Command {
	var query usecases.ListTicketsQuery

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tickets of a guild",
		RunE: run(func(cmd *cobra.Command, c *app.Container) (interface{}, error) {
			return c.UseCases.ListTickets.Execute(cmd.Context(), query)
		}),
	}

	cmd.Flags().StringVar(&query.GuildID, "guild", "", "Guild ID (required)")
	cmd.Flags().StringVar(&query.Status, "status", "", "Filter by status: open, closed or deleted")
	cmd.Flags().StringVar(&query.UserID, "user", "", "Filter by opening user")
	cmd.Flags().IntVar(&query.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&query.PageSize, "page-size", 20, "Page size")
	cmd.Flags().StringVar(&query.SortBy, "sort-by", "number", "Sort field")
	cmd.Flags().StringVar(&query.SortOrder, "sort-order", "desc", "Sort order: asc or desc")
	_ = cmd.MarkFlagRequired("guild")

	return cmd
}

func newCloseCommand(run runner, actor *string) *cobra.Command {
	var input usecases.CloseTicketCommand

	cmd := &cobra.Command{
		Use:   "close",
		Short: "Close an open ticket",
		RunE: run(func(cmd *cobra.Command, c *app.Container) (interface{}, error) {
			input.ClosedBy = *actor
			return c.UseCases.CloseTicket.Execute(cmd.Context(), input)
		}),
	}

	cmd.Flags().UintVar(&input.TicketID, "id", 0, "Ticket ID (required)")
	cmd.Flags().StringVar(&input.Reason, "reason", "", "Close reason (required)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}

func newReopenCommand(run runner, actor *string) *cobra.Command {
	var input usecases.ReopenTicketCommand

	cmd := &cobra.Command{
		Use:   "reopen",
		Short: "Reopen a closed ticket",
		RunE: run(func(cmd *cobra.Command, c *app.Container) (interface{}, error) {
			input.ReopenedBy = *actor
			return c.UseCases.ReopenTicket.Execute(cmd.Context(), input)
		}),
	}

	cmd.Flags().UintVar(&input.TicketID, "id", 0, "Ticket ID (required)")
	cmd.Flags().StringVar(&input.Reason, "reason", "", "Reopen reason (required)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}

func newDeleteCommand(run runner, actor *string) *cobra.Command {
	var input usecases.DeleteTicketCommand

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Soft-delete a ticket after capturing its transcript",
		RunE: run(func(cmd *cobra.Command, c *app.Container) (interface{}, error) {
			input.DeletedBy = *actor
			return c.UseCases.DeleteTicket.Execute(cmd.Context(), input)
		}),
	}

	cmd.Flags().UintVar(&input.TicketID, "id", 0, "Ticket ID (required)")
	cmd.Flags().StringVar(&input.Reason, "reason", "", "Delete reason (required)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}

func newBulkDeleteCommand(run runner, actor *string) *cobra.Command {
	var input usecases.BulkDeleteCommand

	cmd := &cobra.Command{
		Use:   "bulk-delete",
		Short: "Delete many tickets, reporting the outcome of each",
		RunE: run(func(cmd *cobra.Command, c *app.Container) (interface{}, error) {
			input.DeletedBy = *actor
			return c.UseCases.BulkDelete.Execute(cmd.Context(), input)
		}),
	}

	cmd.Flags().UintSliceVar(&input.TicketIDs, "ids", nil, "Comma-separated ticket IDs (required)")
	cmd.Flags().StringVar(&input.Reason, "reason", "", "Delete reason (required)")
	_ = cmd.MarkFlagRequired("ids")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}

func newRateCommand(run runner, actor *string) *cobra.Command {
	var input usecases.RateTicketCommand

	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Rate a closed ticket from 1 to 5",
		RunE: run(func(cmd *cobra.Command, c *app.Container) (interface{}, error) {
			input.RatedBy = *actor
			return c.UseCases.RateTicket.Execute(cmd.Context(), input)
		}),
	}

	cmd.Flags().UintVar(&input.TicketID, "id", 0, "Ticket ID (required)")
	cmd.Flags().IntVar(&input.Rating, "rating", 0, "Rating, 1 to 5 (required)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("rating")

	return cmd
}

func newTranscriptCommand(configPath *string) *cobra.Command {
	var (
		ticketID uint
		html     bool
	)

	cmd := &cobra.Command{
		Use:   "transcript",
		Short: "Print a ticket's stored transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Bootstrap(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer c.Close()

			if !html {
				transcript, err := c.UseCases.GetTranscript.Execute(cmd.Context(), ticketID)
				return render.Result(cmd.OutOrStdout(), render.FormatJSON, transcript, err)
			}

			page, err := c.UseCases.RenderTranscript.Execute(cmd.Context(), ticketID)
			if err != nil {
				return render.Result(cmd.OutOrStdout(), render.FormatJSON, nil, err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), page)
			return err
		},
	}

	cmd.Flags().UintVar(&ticketID, "id", 0, "Ticket ID (required)")
	cmd.Flags().BoolVar(&html, "html", false, "Render as sanitized HTML instead of JSON")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newSaveTranscriptCommand(run runner) *cobra.Command {
	var (
		input usecases.SaveTranscriptCommand
		file  string
	)

	cmd := &cobra.Command{
		Use:   "save-transcript",
		Short: "Store a transcript from a JSON array of messages, replacing any saved one",
		RunE: run(func(cmd *cobra.Command, c *app.Container) (interface{}, error) {
			data, err := os.ReadFile(file)
			if err != nil {
				return nil, errors.NewValidationError("cannot read transcript file", err.Error())
			}
			var messages []ticket.TranscriptMessage
			if err := json.Unmarshal(data, &messages); err != nil {
				return nil, errors.NewValidationError("transcript file is not a JSON message array", err.Error())
			}
			input.Messages = messages
			return c.UseCases.SaveTranscript.Execute(cmd.Context(), input)
		}),
	}

	cmd.Flags().UintVar(&input.TicketID, "id", 0, "Ticket ID (required)")
	cmd.Flags().StringVar(&file, "file", "", "JSON file holding the messages (required)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
