package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
	"github.com/guildkeeper/guildkeeper/internal/shared/metrics"
	"github.com/guildkeeper/guildkeeper/internal/shared/utils"
)

type DeleteTicketCommand struct {
	TicketID  uint
	Reason    string
	DeletedBy string
}

type DeleteTicketResult struct {
	TicketID           uint   `json:"ticket_id"`
	Number             int    `json:"number"`
	Status             string `json:"status"`
	TranscriptMessages int    `json:"transcript_messages"`
	DeletedAt          string `json:"deleted_at"`
}

// DeleteTicketUseCase soft-deletes a ticket. The transcript is captured and
// saved first, in the same transaction as the status change; if either step
// fails nothing is changed.
type DeleteTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	tx         TransactionRunner
	capturer   transcriptCapturer
	notifier   lifecycleNotifier
	logger     logger.Interface
}

func NewDeleteTicketUseCase(
	ticketRepo ticket.TicketRepository,
	transcriptRepo ticket.TranscriptRepository,
	history ticket.MessageHistory,
	publisher ticket.EventPublisher,
	tx TransactionRunner,
	logger logger.Interface,
) *DeleteTicketUseCase {
	return &DeleteTicketUseCase{
		ticketRepo: ticketRepo,
		tx:         tx,
		capturer:   transcriptCapturer{history: history, repo: transcriptRepo},
		notifier:   lifecycleNotifier{publisher: publisher, logger: logger},
		logger:     logger,
	}
}

func (uc *DeleteTicketUseCase) Execute(ctx context.Context, cmd DeleteTicketCommand) (result *DeleteTicketResult, err error) {
	defer func() {
		metrics.TicketTransitions.WithLabelValues("delete", metrics.Outcome(err)).Inc()
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
	if t.Status().IsDeleted() {
		return nil, errors.NewInvalidStateError(fmt.Sprintf("ticket %d is already deleted", cmd.TicketID))
	}

	var transcript *ticket.Transcript
	err = runInTransaction(ctx, uc.tx, func(ctx context.Context) error {
		captured, err := uc.capturer.capture(ctx, t.ID())
		if err != nil {
			uc.logger.Errorw("refusing to delete ticket without transcript", "ticket_id", cmd.TicketID, "error", err)
			return errors.NewTranscriptUnavailableError(
				fmt.Sprintf("transcript for ticket %d could not be saved, ticket was not deleted", cmd.TicketID),
				err.Error(),
			).WithCause(err)
		}
		transcript = captured

		if err := t.MarkDeleted(reason, cmd.DeletedBy, transcript); err != nil {
			return transitionError(err)
		}

		if err := uc.ticketRepo.Update(ctx, t); err != nil {
			uc.logger.Errorw("failed to update ticket", "ticket_id", cmd.TicketID, "error", err)
			return errors.NewInternalError("failed to delete ticket").WithCause(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.capturer.clear(ctx, t.ID(), uc.logger)
	uc.notifier.notify(ctx, ticket.ActionDeleted, t, cmd.DeletedBy, reason)

	uc.logger.Infow("ticket deleted",
		"ticket_id", cmd.TicketID,
		"number", t.Number(),
		"transcript_messages", transcript.MessageCount(),
	)

	deletedAt := ""
	if t.DeletedAt() != nil {
		deletedAt = t.DeletedAt().Format(time.RFC3339)
	}

	return &DeleteTicketResult{
		TicketID:           t.ID(),
		Number:             t.Number(),
		Status:             t.Status().String(),
		TranscriptMessages: transcript.MessageCount(),
		DeletedAt:          deletedAt,
	}, nil
}
