package usecases

import (
	"context"

	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
	"github.com/guildkeeper/guildkeeper/internal/shared/metrics"
	"github.com/guildkeeper/guildkeeper/internal/shared/utils"
)

type ReopenTicketCommand struct {
	TicketID   uint
	Reason     string
	ReopenedBy string
}

type ReopenTicketResult struct {
	TicketID uint   `json:"ticket_id"`
	Number   int    `json:"number"`
	Status   string `json:"status"`
	Reason   string `json:"reason"`
}

type ReopenTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	notifier   lifecycleNotifier
	logger     logger.Interface
}

func NewReopenTicketUseCase(
	ticketRepo ticket.TicketRepository,
	publisher ticket.EventPublisher,
	logger logger.Interface,
) *ReopenTicketUseCase {
	return &ReopenTicketUseCase{
		ticketRepo: ticketRepo,
		notifier:   lifecycleNotifier{publisher: publisher, logger: logger},
		logger:     logger,
	}
}

func (uc *ReopenTicketUseCase) Execute(ctx context.Context, cmd ReopenTicketCommand) (result *ReopenTicketResult, err error) {
	defer func() {
		metrics.TicketTransitions.WithLabelValues("reopen", metrics.Outcome(err)).Inc()
	}()

	if cmd.TicketID == 0 {
		return nil, errors.NewValidationError("ticket ID is required")
	}
	reason, err := utils.ValidateReason(cmd.Reason)
	if err != nil {
		return nil, err
	}

	t, err := loadTicket(ctx, uc.ticketRepo, cmd.TicketID, uc.logger)
	if err != nil {
		return nil, err
	}

	if err := t.Reopen(reason, cmd.ReopenedBy); err != nil {
		uc.logger.Warnw("ticket cannot be reopened", "ticket_id", cmd.TicketID, "status", t.Status().String(), "error", err)
		return nil, transitionError(err)
	}

	if err := uc.ticketRepo.Update(ctx, t); err != nil {
		uc.logger.Errorw("failed to update ticket", "ticket_id", cmd.TicketID, "error", err)
		return nil, errors.NewInternalError("failed to update ticket").WithCause(err)
	}

	uc.notifier.notify(ctx, ticket.ActionReopened, t, cmd.ReopenedBy, reason)

	uc.logger.Infow("ticket reopened", "ticket_id", cmd.TicketID, "number", t.Number())

	return &ReopenTicketResult{
		TicketID: t.ID(),
		Number:   t.Number(),
		Status:   t.Status().String(),
		Reason:   reason,
	}, nil
}
