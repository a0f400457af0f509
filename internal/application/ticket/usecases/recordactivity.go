package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
	"github.com/guildkeeper/guildkeeper/internal/shared/goroutine"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
	"github.com/guildkeeper/guildkeeper/internal/shared/metrics"
)

// RecordActivityCommand describes one message seen in a guild channel.
type RecordActivityCommand struct {
	ChannelName   string
	GuildID       string
	AuthorID      string
	AuthorName    string
	AuthorRoleIDs []string
	AuthorIsStaff bool
	MessageID     string
	Content       string
	Attachments   []ticket.Attachment
	Timestamp     time.Time
}

type RecordActivityResult struct {
	Matched       bool   `json:"matched"`
	TicketNumber  int    `json:"ticket_number,omitempty"`
	Column        string `json:"column,omitempty"`
	StaffRecorded bool   `json:"staff_recorded"`
	MessageLogged bool   `json:"message_logged"`
}

// activityCandidate is one column the tracker may write the activity
// timestamp to. next decides whether a failure moves on to the following
// candidate.
type activityCandidate struct {
	column string
	next   func(err error) bool
}

// activityCandidates is the fallback order for the ticket activity
// timestamp. Older schemas lack last_activity_at; updated_at always exists.
var activityCandidates = []activityCandidate{
	{column: ticket.ColumnLastActivityAt, next: errors.IsMissingColumnError},
	{column: ticket.ColumnLastMessageAt, next: func(error) bool { return true }},
	{column: ticket.ColumnUpdatedAt, next: func(error) bool { return false }},
}

// RecordActivityUseCase keeps ticket activity timestamps current. Nothing it
// does can fail the caller: every write is logged and swallowed.
type RecordActivityUseCase struct {
	ticketRepo ticket.TicketRepository
	staffRepo  ticket.StaffActivityRepository
	history    ticket.MessageHistory
	settings   GuildSettingsProvider
	logger     logger.Interface
}

func NewRecordActivityUseCase(
	ticketRepo ticket.TicketRepository,
	staffRepo ticket.StaffActivityRepository,
	history ticket.MessageHistory,
	settings GuildSettingsProvider,
	logger logger.Interface,
) *RecordActivityUseCase {
	return &RecordActivityUseCase{
		ticketRepo: ticketRepo,
		staffRepo:  staffRepo,
		history:    history,
		settings:   settings,
		logger:     logger,
	}
}

func (uc *RecordActivityUseCase) Execute(ctx context.Context, cmd RecordActivityCommand) *RecordActivityResult {
	result := &RecordActivityResult{}

	number, ok := ticket.ParseChannelName(cmd.ChannelName)
	if !ok || cmd.GuildID == "" {
		return result
	}
	result.Matched = true
	result.TicketNumber = number

	at := cmd.Timestamp
	if at.IsZero() {
		at = time.Now()
	}
	at = at.UTC()

	goroutine.BestEffort(ctx, uc.logger, "touch_ticket_activity", func(ctx context.Context) error {
		column, err := uc.touch(ctx, cmd.GuildID, number, at)
		result.Column = column
		return err
	}, "guild_id", cmd.GuildID, "ticket_number", number)

	staff := cmd.AuthorIsStaff || uc.isStaff(ctx, cmd.GuildID, cmd.AuthorRoleIDs)
	hasContent := strings.TrimSpace(cmd.Content) != "" || len(cmd.Attachments) > 0
	if !staff && !hasContent {
		return result
	}

	t, err := uc.ticketRepo.GetByGuildAndNumber(ctx, cmd.GuildID, number)
	if err != nil {
		uc.logger.Warnw("activity for unknown ticket",
			"guild_id", cmd.GuildID,
			"ticket_number", number,
			"error", err,
		)
		return result
	}

	if staff && cmd.AuthorID != "" {
		result.StaffRecorded = goroutine.BestEffort(ctx, uc.logger, "record_staff_activity", func(ctx context.Context) error {
			return uc.recordStaff(ctx, t, cmd.AuthorID, at)
		}, "ticket_id", t.ID(), "staff_id", cmd.AuthorID)
	}

	if hasContent && uc.history != nil {
		msg := ticket.TranscriptMessage{
			ID:          cmd.MessageID,
			AuthorID:    cmd.AuthorID,
			AuthorName:  cmd.AuthorName,
			Content:     cmd.Content,
			Timestamp:   at,
			Attachments: cmd.Attachments,
		}
		result.MessageLogged = goroutine.BestEffort(ctx, uc.logger, "append_message_history", func(ctx context.Context) error {
			return uc.history.Append(ctx, t.ID(), msg)
		}, "ticket_id", t.ID())
	}

	return result
}

// touch walks activityCandidates until one write succeeds. It returns the
// column that accepted the write.
func (uc *RecordActivityUseCase) touch(ctx context.Context, guildID string, number int, at time.Time) (string, error) {
	var lastErr error
	for _, candidate := range activityCandidates {
		rows, err := uc.ticketRepo.TouchActivity(ctx, guildID, number, candidate.column, at)
		if err == nil {
			metrics.ActivityColumn.WithLabelValues(candidate.column).Inc()
			if rows == 0 {
				uc.logger.Debugw("no ticket matched activity update", "guild_id", guildID, "ticket_number", number)
			}
			return candidate.column, nil
		}

		lastErr = err
		if !candidate.next(err) {
			break
		}
		uc.logger.Debugw("activity column rejected, trying next",
			"column", candidate.column,
			"error", err,
		)
	}
	return "", fmt.Errorf("no activity column accepted the update: %w", lastErr)
}

func (uc *RecordActivityUseCase) isStaff(ctx context.Context, guildID string, roleIDs []string) bool {
	if uc.settings == nil || len(roleIDs) == 0 {
		return false
	}
	settings, err := uc.settings.GetGuildSettings(ctx, guildID)
	if err != nil {
		uc.logger.Warnw("failed to load guild settings for staff check", "guild_id", guildID, "error", err)
		return false
	}
	return settings.IsStaff(roleIDs)
}

// recordStaff updates the (ticket, staff) row, inserting it when absent. A
// concurrent insert that wins the race is resolved with one more update.
func (uc *RecordActivityUseCase) recordStaff(ctx context.Context, t *ticket.Ticket, staffID string, at time.Time) error {
	rows, err := uc.staffRepo.UpdateLastActivity(ctx, t.ID(), staffID, at)
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	activity, err := ticket.NewStaffActivity(t.ID(), t.GuildID(), staffID, at)
	if err != nil {
		return err
	}
	if err := uc.staffRepo.Create(ctx, activity); err != nil {
		if !errors.IsDuplicateError(err) {
			return err
		}
		_, err = uc.staffRepo.UpdateLastActivity(ctx, t.ID(), staffID, at)
		return err
	}
	return nil
}
