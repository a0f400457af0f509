package usecases

import (
	"context"

	"github.com/guildkeeper/guildkeeper/internal/application/ticket/dto"
	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	vo "github.com/guildkeeper/guildkeeper/internal/domain/ticket/valueobjects"
	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
	"github.com/guildkeeper/guildkeeper/internal/shared/utils"
)

type ListTicketsQuery struct {
	GuildID   string
	Status    string
	UserID    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

type ListTicketsUseCase struct {
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewListTicketsUseCase(ticketRepo ticket.TicketRepository, logger logger.Interface) *ListTicketsUseCase {
	return &ListTicketsUseCase{ticketRepo: ticketRepo, logger: logger}
}

func (uc *ListTicketsUseCase) Execute(ctx context.Context, query ListTicketsQuery) (*utils.ListResult, error) {
	if query.GuildID == "" {
		return nil, errors.NewValidationError("guild ID is required")
	}

	page := utils.NormalizePage(query.Page, query.PageSize)
	filter := ticket.TicketFilter{
		GuildID:   query.GuildID,
		Page:      page.Number,
		PageSize:  page.Size,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	}

	if query.Status != "" {
		status, err := vo.NewTicketStatus(query.Status)
		if err != nil {
			return nil, errors.NewValidationError("invalid status filter", query.Status)
		}
		filter.Status = &status
	}
	if query.UserID != "" {
		userID := query.UserID
		filter.UserID = &userID
	}

	tickets, total, err := uc.ticketRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list tickets", "guild_id", query.GuildID, "error", err)
		return nil, errors.NewInternalError("failed to list tickets").WithCause(err)
	}

	result := utils.NewListResult(dto.ToTicketDTOList(tickets), total, page.Number, page.Size)
	return &result, nil
}
