package usecases

import (
	"context"

	"github.com/guildkeeper/guildkeeper/internal/application/ticket/dto"
	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

// GetTicketQuery selects a ticket by id, or by guild and number when ID is 0.
type GetTicketQuery struct {
	TicketID uint
	GuildID  string
	Number   int
}

// GetTicketUseCase returns a ticket together with the staff who have posted
// in it, most recent first.
type GetTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	staffRepo  ticket.StaffActivityRepository
	logger     logger.Interface
}

func NewGetTicketUseCase(ticketRepo ticket.TicketRepository, staffRepo ticket.StaffActivityRepository, logger logger.Interface) *GetTicketUseCase {
	return &GetTicketUseCase{ticketRepo: ticketRepo, staffRepo: staffRepo, logger: logger}
}

func (uc *GetTicketUseCase) Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDTO, error) {
	t, err := uc.find(ctx, query)
	if err != nil {
		return nil, err
	}

	result := dto.ToTicketDTO(t)
	if uc.staffRepo == nil {
		return result, nil
	}
	activity, err := uc.staffRepo.ListByTicket(ctx, t.ID())
	if err != nil {
		uc.logger.Errorw("failed to list staff activity", "ticket_id", t.ID(), "error", err)
		return nil, errors.NewInternalError("failed to get ticket").WithCause(err)
	}
	result.StaffActivity = dto.ToStaffActivityDTOList(activity)
	return result, nil
}

func (uc *GetTicketUseCase) find(ctx context.Context, query GetTicketQuery) (*ticket.Ticket, error) {
	if query.TicketID != 0 {
		return loadTicket(ctx, uc.ticketRepo, query.TicketID, uc.logger)
	}

	if query.GuildID == "" || query.Number <= 0 {
		return nil, errors.NewValidationError("ticket ID or guild and number are required")
	}

	t, err := uc.ticketRepo.GetByGuildAndNumber(ctx, query.GuildID, query.Number)
	if err != nil {
		if isTicketNotFound(err) {
			return nil, errors.NewNotFoundError("ticket not found", ticket.FormatChannelName(query.Number))
		}
		uc.logger.Errorw("failed to get ticket", "guild_id", query.GuildID, "number", query.Number, "error", err)
		return nil, errors.NewInternalError("failed to get ticket").WithCause(err)
	}
	return t, nil
}
