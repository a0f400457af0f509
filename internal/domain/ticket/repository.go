package ticket

import (
	"context"
	"time"

	vo "github.com/guildkeeper/guildkeeper/internal/domain/ticket/valueobjects"
)

// Activity columns on the tickets table, in the order the activity tracker
// tries them.
const (
	ColumnLastActivityAt = "last_activity_at"
	ColumnLastMessageAt  = "last_message_at"
	ColumnUpdatedAt      = "updated_at"
)

type TicketRepository interface {
	// Create assigns the next per-guild ticket number and persists t.
	Create(ctx context.Context, t *Ticket) error
	// Update writes status, reason, rating and lifecycle timestamps. Activity
	// columns are left alone.
	Update(ctx context.Context, t *Ticket) error
	GetByID(ctx context.Context, id uint) (*Ticket, error)
	GetByGuildAndNumber(ctx context.Context, guildID string, number int) (*Ticket, error)
	// GetStatuses returns the status of every id that exists.
	GetStatuses(ctx context.Context, ids []uint) (map[uint]vo.TicketStatus, error)
	List(ctx context.Context, filter TicketFilter) ([]*Ticket, int64, error)
	CountOpenByUser(ctx context.Context, guildID, userID string) (int64, error)
	// TouchActivity sets column (and updated_at) to at for the ticket
	// identified by guild and number, returning rows affected.
	TouchActivity(ctx context.Context, guildID string, number int, column string, at time.Time) (int64, error)
}

type TicketFilter struct {
	GuildID   string
	Status    *vo.TicketStatus
	UserID    *string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

type TranscriptRepository interface {
	// Save inserts or replaces the transcript of its ticket.
	Save(ctx context.Context, transcript *Transcript) error
	GetByTicketID(ctx context.Context, ticketID uint) (*Transcript, error)
}

type StaffActivityRepository interface {
	// UpdateLastActivity returns rows affected; zero means no row exists yet.
	UpdateLastActivity(ctx context.Context, ticketID uint, staffID string, at time.Time) (int64, error)
	Create(ctx context.Context, activity *StaffActivity) error
	ListByTicket(ctx context.Context, ticketID uint) ([]*StaffActivity, error)
}

// MessageHistory is the source of transcript messages for a ticket.
type MessageHistory interface {
	Append(ctx context.Context, ticketID uint, msg TranscriptMessage) error
	Fetch(ctx context.Context, ticketID uint) ([]TranscriptMessage, error)
	Clear(ctx context.Context, ticketID uint) error
}

// EventPublisher announces lifecycle changes to other processes.
type EventPublisher interface {
	PublishLifecycle(ctx context.Context, event LifecycleEvent) error
}
