package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
	"github.com/guildkeeper/guildkeeper/internal/shared/goroutine"
	"github.com/guildkeeper/guildkeeper/internal/shared/id"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

// loadTicket fetches a ticket and translates repository errors.
func loadTicket(ctx context.Context, repo ticket.TicketRepository, ticketID uint, log logger.Interface) (*ticket.Ticket, error) {
	t, err := repo.GetByID(ctx, ticketID)
	if err != nil {
		if isTicketNotFound(err) {
			return nil, errors.NewNotFoundError(fmt.Sprintf("ticket %d not found", ticketID))
		}
		log.Errorw("failed to get ticket", "ticket_id", ticketID, "error", err)
		return nil, errors.NewInternalError("failed to get ticket").WithCause(err)
	}
	return t, nil
}

// transitionError maps a refused domain transition to an AppError.
func transitionError(err error) error {
	switch {
	case stderrors.Is(err, ticket.ErrInvalidTransition):
		return errors.NewInvalidStateError(err.Error())
	case stderrors.Is(err, ticket.ErrTranscriptRequired):
		return errors.NewTranscriptUnavailableError(err.Error())
	default:
		return errors.NewValidationError(err.Error())
	}
}

// lifecycleNotifier publishes lifecycle events as a best-effort side effect.
type lifecycleNotifier struct {
	publisher ticket.EventPublisher
	logger    logger.Interface
}

func (n lifecycleNotifier) notify(ctx context.Context, action ticket.LifecycleAction, t *ticket.Ticket, actorID, reason string) {
	if n.publisher == nil {
		return
	}
	goroutine.BestEffort(ctx, n.logger, "publish_lifecycle", func(ctx context.Context) error {
		event := ticket.NewLifecycleEvent(action, t, actorID, reason)
		eventID, err := id.NewEventID()
		if err != nil {
			return err
		}
		event.EventID = eventID
		return n.publisher.PublishLifecycle(ctx, event)
	}, "ticket_id", t.ID(), "action", string(action))
}

// transcriptCapturer snapshots a ticket's message history into its transcript.
type transcriptCapturer struct {
	history ticket.MessageHistory
	repo    ticket.TranscriptRepository
}

// capture fetches history and upserts the transcript. An empty history does
// not replace a transcript that already has messages. Without a history
// source only a transcript already on file can be returned.
func (c transcriptCapturer) capture(ctx context.Context, ticketID uint) (*ticket.Transcript, error) {
	var messages []ticket.TranscriptMessage
	if c.history != nil {
		fetched, err := c.history.Fetch(ctx, ticketID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch message history: %w", err)
		}
		messages = fetched
	}

	if len(messages) == 0 {
		existing, err := c.repo.GetByTicketID(ctx, ticketID)
		if err != nil && !stderrors.Is(err, ticket.ErrTranscriptNotFound) {
			return nil, fmt.Errorf("failed to read existing transcript: %w", err)
		}
		if err == nil && (existing.MessageCount() > 0 || c.history == nil) {
			return existing, nil
		}
		if c.history == nil {
			return nil, fmt.Errorf("no message history source configured and no transcript on file")
		}
	}

	transcript, err := ticket.NewTranscript(ticketID, messages)
	if err != nil {
		return nil, err
	}
	if err := c.repo.Save(ctx, transcript); err != nil {
		return nil, fmt.Errorf("failed to save transcript: %w", err)
	}
	return transcript, nil
}

// clear drops the ticket's message log once its transcript is final.
func (c transcriptCapturer) clear(ctx context.Context, ticketID uint, log logger.Interface) {
	if c.history == nil {
		return
	}
	if err := c.history.Clear(ctx, ticketID); err != nil {
		log.Warnw("failed to clear message history", "ticket_id", ticketID, "error", err)
	}
}

// runInTransaction runs fn in tx when one is configured, otherwise directly.
func runInTransaction(ctx context.Context, tx TransactionRunner, fn func(ctx context.Context) error) error {
	if tx == nil {
		return fn(ctx)
	}
	return tx.RunInTransaction(ctx, fn)
}

func isTicketNotFound(err error) bool {
	return stderrors.Is(err, ticket.ErrTicketNotFound)
}

func isTranscriptNotFound(err error) bool {
	return stderrors.Is(err, ticket.ErrTranscriptNotFound)
}
