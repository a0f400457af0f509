package usecases

import (
	"context"
	"time"

	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
	"github.com/guildkeeper/guildkeeper/internal/shared/goroutine"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
	"github.com/guildkeeper/guildkeeper/internal/shared/metrics"
	"github.com/guildkeeper/guildkeeper/internal/shared/utils"
)

type CloseTicketCommand struct {
	TicketID uint
	Reason   string
	ClosedBy string
}

type CloseTicketResult struct {
	TicketID           uint   `json:"ticket_id"`
	Number             int    `json:"number"`
	Status             string `json:"status"`
	Reason             string `json:"reason"`
	ClosedAt           string `json:"closed_at"`
	TranscriptCaptured bool   `json:"transcript_captured"`
}

type CloseTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	capturer   transcriptCapturer
	notifier   lifecycleNotifier
	logger     logger.Interface
}

func NewCloseTicketUseCase(
	ticketRepo ticket.TicketRepository,
	transcriptRepo ticket.TranscriptRepository,
	history ticket.MessageHistory,
	publisher ticket.EventPublisher,
	logger logger.Interface,
) *CloseTicketUseCase {
	return &CloseTicketUseCase{
		ticketRepo: ticketRepo,
		capturer:   transcriptCapturer{history: history, repo: transcriptRepo},
		notifier:   lifecycleNotifier{publisher: publisher, logger: logger},
		logger:     logger,
	}
}

func (uc *CloseTicketUseCase) Execute(ctx context.Context, cmd CloseTicketCommand) (result *CloseTicketResult, err error) {
	defer func() {
		metrics.TicketTransitions.WithLabelValues("close", metrics.Outcome(err)).Inc()
	}()

	uc.logger.Infow("executing close ticket use case", "ticket_id", cmd.TicketID)

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

	if err := t.Close(reason, cmd.ClosedBy); err != nil {
		uc.logger.Warnw("ticket cannot be closed", "ticket_id", cmd.TicketID, "status", t.Status().String(), "error", err)
		return nil, transitionError(err)
	}

	if err := uc.ticketRepo.Update(ctx, t); err != nil {
		uc.logger.Errorw("failed to update ticket", "ticket_id", cmd.TicketID, "error", err)
		return nil, errors.NewInternalError("failed to update ticket").WithCause(err)
	}

	captured := goroutine.BestEffort(ctx, uc.logger, "close_transcript", func(ctx context.Context) error {
		_, err := uc.capturer.capture(ctx, t.ID())
		return err
	}, "ticket_id", t.ID())

	uc.notifier.notify(ctx, ticket.ActionClosed, t, cmd.ClosedBy, reason)

	closedAt := ""
	if t.ClosedAt() != nil {
		closedAt = t.ClosedAt().Format(time.RFC3339)
	}

	uc.logger.Infow("ticket closed successfully", "ticket_id", cmd.TicketID, "number", t.Number())

	return &CloseTicketResult{
		TicketID:           t.ID(),
		Number:             t.Number(),
		Status:             t.Status().String(),
		Reason:             reason,
		ClosedAt:           closedAt,
		TranscriptCaptured: captured,
	}, nil
}
