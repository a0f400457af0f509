package usecases

import (
	"context"
	"fmt"

	"github.com/guildkeeper/guildkeeper/internal/application/ticket/dto"
	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
	"github.com/guildkeeper/guildkeeper/internal/shared/metrics"
	"github.com/guildkeeper/guildkeeper/internal/shared/utils"
)

type OpenTicketCommand struct {
	GuildID string `json:"guild_id" validate:"required"`
	UserID  string `json:"user_id" validate:"required"`
	Subject string `json:"subject" validate:"required,max=200"`
}

type OpenTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	settings   GuildSettingsProvider
	notifier   lifecycleNotifier
	logger     logger.Interface
}

func NewOpenTicketUseCase(
	ticketRepo ticket.TicketRepository,
	settings GuildSettingsProvider,
	publisher ticket.EventPublisher,
	logger logger.Interface,
) *OpenTicketUseCase {
	return &OpenTicketUseCase{
		ticketRepo: ticketRepo,
		settings:   settings,
		notifier:   lifecycleNotifier{publisher: publisher, logger: logger},
		logger:     logger,
	}
}

func (uc *OpenTicketUseCase) Execute(ctx context.Context, cmd OpenTicketCommand) (result *dto.TicketDTO, err error) {
	defer func() {
		metrics.TicketTransitions.WithLabelValues("open", metrics.Outcome(err)).Inc()
	}()

	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	settings, err := uc.settings.GetGuildSettings(ctx, cmd.GuildID)
	if err != nil {
		return nil, err
	}

	openCount, err := uc.ticketRepo.CountOpenByUser(ctx, cmd.GuildID, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to count open tickets", "guild_id", cmd.GuildID, "user_id", cmd.UserID, "error", err)
		return nil, errors.NewInternalError("failed to open ticket").WithCause(err)
	}
	if openCount >= int64(settings.MaxOpenTicketsPerUser()) {
		return nil, errors.NewConflictError(
			fmt.Sprintf("you already have %d open ticket(s)", openCount),
			fmt.Sprintf("limit is %d per member", settings.MaxOpenTicketsPerUser()),
		)
	}

	t, err := ticket.NewTicket(cmd.GuildID, cmd.UserID, cmd.Subject)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.ticketRepo.Create(ctx, t); err != nil {
		uc.logger.Errorw("failed to create ticket", "guild_id", cmd.GuildID, "error", err)
		return nil, errors.NewInternalError("failed to open ticket").WithCause(err)
	}

	uc.notifier.notify(ctx, ticket.ActionOpened, t, cmd.UserID, "")

	uc.logger.Infow("ticket opened", "ticket_id", t.ID(), "guild_id", t.GuildID(), "number", t.Number())
	return dto.ToTicketDTO(t), nil
}
