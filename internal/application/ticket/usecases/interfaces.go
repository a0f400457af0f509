package usecases

import (
	"context"

	"github.com/guildkeeper/guildkeeper/internal/application/ticket/dto"
	"github.com/guildkeeper/guildkeeper/internal/domain/setting"
	"github.com/guildkeeper/guildkeeper/internal/shared/utils"
)

// GuildSettingsProvider resolves a guild's settings, defaults included.
type GuildSettingsProvider interface {
	GetGuildSettings(ctx context.Context, guildID string) (*setting.GuildSettings, error)
}

// TransactionRunner runs fn inside one database transaction carried on ctx.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type OpenTicketExecutor interface {
	Execute(ctx context.Context, cmd OpenTicketCommand) (*dto.TicketDTO, error)
}

type CloseTicketExecutor interface {
	Execute(ctx context.Context, cmd CloseTicketCommand) (*CloseTicketResult, error)
}

type ReopenTicketExecutor interface {
	Execute(ctx context.Context, cmd ReopenTicketCommand) (*ReopenTicketResult, error)
}

type DeleteTicketExecutor interface {
	Execute(ctx context.Context, cmd DeleteTicketCommand) (*DeleteTicketResult, error)
}

type BulkDeleteExecutor interface {
	Execute(ctx context.Context, cmd BulkDeleteCommand) (*BulkDeleteResult, error)
}

type GetTicketExecutor interface {
	Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDTO, error)
}

type ListTicketsExecutor interface {
	Execute(ctx context.Context, query ListTicketsQuery) (*utils.ListResult, error)
}

type RateTicketExecutor interface {
	Execute(ctx context.Context, cmd RateTicketCommand) (*dto.TicketDTO, error)
}

type GetTranscriptExecutor interface {
	Execute(ctx context.Context, ticketID uint) (*dto.TranscriptDTO, error)
}

type SaveTranscriptExecutor interface {
	Execute(ctx context.Context, cmd SaveTranscriptCommand) (*dto.TranscriptDTO, error)
}

type RenderTranscriptExecutor interface {
	Execute(ctx context.Context, ticketID uint) (string, error)
}

type RecordActivityExecutor interface {
	Execute(ctx context.Context, cmd RecordActivityCommand) *RecordActivityResult
}
