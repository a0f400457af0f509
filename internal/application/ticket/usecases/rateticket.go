package usecases

import (
	"context"

	"github.com/guildkeeper/guildkeeper/internal/application/ticket/dto"
	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

type RateTicketCommand struct {
	TicketID uint
	Rating   int
	RatedBy  string
}

type RateTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewRateTicketUseCase(ticketRepo ticket.TicketRepository, logger logger.Interface) *RateTicketUseCase {
	return &RateTicketUseCase{ticketRepo: ticketRepo, logger: logger}
}

func (uc *RateTicketUseCase) Execute(ctx context.Context, cmd RateTicketCommand) (*dto.TicketDTO, error) {
	if cmd.TicketID == 0 {
		return nil, errors.NewValidationError("ticket ID is required")
	}
	if cmd.Rating < 1 || cmd.Rating > 5 {
		return nil, errors.NewValidationError("rating must be between 1 and 5")
	}

	t, err := loadTicket(ctx, uc.ticketRepo, cmd.TicketID, uc.logger)
	if err != nil {
		return nil, err
	}

	if t.UserID() != cmd.RatedBy {
		return nil, errors.NewValidationError("only the member who opened the ticket can rate it")
	}

	if err := t.Rate(cmd.Rating); err != nil {
		return nil, transitionError(err)
	}

	if err := uc.ticketRepo.Update(ctx, t); err != nil {
		uc.logger.Errorw("failed to update ticket", "ticket_id", cmd.TicketID, "error", err)
		return nil, errors.NewInternalError("failed to rate ticket").WithCause(err)
	}

	uc.logger.Infow("ticket rated", "ticket_id", cmd.TicketID, "rating", cmd.Rating)
	return dto.ToTicketDTO(t), nil
}
