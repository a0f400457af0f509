package ticket

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	vo "github.com/guildkeeper/guildkeeper/internal/domain/ticket/valueobjects"
	"github.com/guildkeeper/guildkeeper/internal/shared/constants"
)

type Ticket struct {
	id             uint
	guildID        string
	userID         string
	number         int
	subject        string
	status         vo.TicketStatus
	rating         *int
	closeReason    string
	closedBy       string
	createdAt      time.Time
	updatedAt      time.Time
	lastMessageAt  *time.Time
	lastActivityAt *time.Time
	closedAt       *time.Time
	deletedAt      *time.Time
}

func NewTicket(guildID, userID, subject string) (*Ticket, error) {
	subject = strings.TrimSpace(subject)
	if guildID == "" {
		return nil, fmt.Errorf("guild ID is required")
	}
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}
	if utf8.RuneCountInString(subject) > constants.MaxSubjectLength {
		return nil, fmt.Errorf("subject exceeds maximum length of %d characters", constants.MaxSubjectLength)
	}

	now := time.Now().UTC()
	return &Ticket{
		guildID:   guildID,
		userID:    userID,
		subject:   subject,
		status:    vo.StatusOpen,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructTicket rebuilds a persisted ticket. Used by the persistence mapper.
func ReconstructTicket(
	id uint,
	guildID string,
	userID string,
	number int,
	subject string,
	status vo.TicketStatus,
	rating *int,
	closeReason string,
	closedBy string,
	createdAt, updatedAt time.Time,
	lastMessageAt, lastActivityAt, closedAt, deletedAt *time.Time,
) (*Ticket, error) {
	if id == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if guildID == "" {
		return nil, fmt.Errorf("guild ID is required")
	}
	if number <= 0 {
		return nil, fmt.Errorf("ticket number must be positive")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", status)
	}

	return &Ticket{
		id:             id,
		guildID:        guildID,
		userID:         userID,
		number:         number,
		subject:        subject,
		status:         status,
		rating:         rating,
		closeReason:    closeReason,
		closedBy:       closedBy,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
		lastMessageAt:  lastMessageAt,
		lastActivityAt: lastActivityAt,
		closedAt:       closedAt,
		deletedAt:      deletedAt,
	}, nil
}

func (t *Ticket) ID() uint {
	return t.id
}

func (t *Ticket) GuildID() string {
	return t.guildID
}

func (t *Ticket) UserID() string {
	return t.userID
}

func (t *Ticket) Number() int {
	return t.number
}

// ChannelName is the Discord channel name the ticket lives in.
func (t *Ticket) ChannelName() string {
	return FormatChannelName(t.number)
}

func (t *Ticket) Subject() string {
	return t.subject
}

func (t *Ticket) Status() vo.TicketStatus {
	return t.status
}

func (t *Ticket) Rating() *int {
	return t.rating
}

func (t *Ticket) CloseReason() string {
	return t.closeReason
}

func (t *Ticket) ClosedBy() string {
	return t.closedBy
}

func (t *Ticket) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Ticket) UpdatedAt() time.Time {
	return t.updatedAt
}

func (t *Ticket) LastMessageAt() *time.Time {
	return t.lastMessageAt
}

func (t *Ticket) LastActivityAt() *time.Time {
	return t.lastActivityAt
}

func (t *Ticket) ClosedAt() *time.Time {
	return t.closedAt
}

func (t *Ticket) DeletedAt() *time.Time {
	return t.deletedAt
}

func (t *Ticket) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("ticket ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	return nil
}

func (t *Ticket) SetNumber(number int) error {
	if t.number != 0 {
		return fmt.Errorf("ticket number is already set")
	}
	if number <= 0 {
		return fmt.Errorf("ticket number must be positive")
	}
	t.number = number
	return nil
}

func (t *Ticket) transition(to vo.TicketStatus) error {
	if !t.status.CanTransitionTo(to) {
		return fmt.Errorf("%w: cannot move ticket %d from %s to %s", ErrInvalidTransition, t.number, t.status, to)
	}
	t.status = to
	t.updatedAt = time.Now().UTC()
	return nil
}

// Close moves an open ticket to closed and stamps closed_at.
func (t *Ticket) Close(reason string, closedBy string) error {
	if reason == "" {
		return fmt.Errorf("close reason is required")
	}
	if !t.status.IsOpen() {
		return fmt.Errorf("%w: ticket %d is %s, only open tickets can be closed", ErrInvalidTransition, t.number, t.status)
	}
	if err := t.transition(vo.StatusClosed); err != nil {
		return err
	}

	now := t.updatedAt
	t.closedAt = &now
	t.closeReason = reason
	t.closedBy = closedBy
	return nil
}

// Reopen moves a closed ticket back to open. closed_at keeps the last close time.
func (t *Ticket) Reopen(reason string, reopenedBy string) error {
	if reason == "" {
		return fmt.Errorf("reopen reason is required")
	}
	if !t.status.IsClosed() {
		return fmt.Errorf("%w: ticket %d is %s, only closed tickets can be reopened", ErrInvalidTransition, t.number, t.status)
	}
	return t.transition(vo.StatusOpen)
}

// MarkDeleted soft-deletes the ticket. transcript must be the saved
// transcript of this ticket.
func (t *Ticket) MarkDeleted(reason string, deletedBy string, transcript *Transcript) error {
	if reason == "" {
		return fmt.Errorf("delete reason is required")
	}
	if transcript == nil || transcript.TicketID() != t.id {
		return ErrTranscriptRequired
	}
	if err := t.transition(vo.StatusDeleted); err != nil {
		return err
	}

	now := t.updatedAt
	t.deletedAt = &now
	if t.closeReason == "" {
		t.closeReason = reason
	}
	if t.closedBy == "" {
		t.closedBy = deletedBy
	}
	return nil
}

// Rate records the opener's 1..5 satisfaction score once the ticket is no
// longer open.
func (t *Ticket) Rate(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	if t.status.IsOpen() {
		return fmt.Errorf("%w: open tickets cannot be rated", ErrInvalidTransition)
	}
	t.rating = &rating
	t.updatedAt = time.Now().UTC()
	return nil
}
