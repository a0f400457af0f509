package dto

import (
	"time"

	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	"github.com/guildkeeper/guildkeeper/internal/shared/mapper"
)

type TicketDTO struct {
	ID             uint       `json:"id" yaml:"id"`
	GuildID        string     `json:"guild_id" yaml:"guild_id"`
	UserID         string     `json:"user_id" yaml:"user_id"`
	Number         int        `json:"number" yaml:"number"`
	Channel        string     `json:"channel" yaml:"channel"`
	Subject        string     `json:"subject" yaml:"subject"`
	Status         string     `json:"status" yaml:"status"`
	Rating         *int       `json:"rating,omitempty" yaml:"rating,omitempty"`
	CloseReason    string     `json:"close_reason,omitempty" yaml:"close_reason,omitempty"`
	ClosedBy       string     `json:"closed_by,omitempty" yaml:"closed_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" yaml:"updated_at"`
	LastMessageAt  *time.Time `json:"last_message_at,omitempty" yaml:"last_message_at,omitempty"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty" yaml:"last_activity_at,omitempty"`
	ClosedAt       *time.Time `json:"closed_at,omitempty" yaml:"closed_at,omitempty"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty" yaml:"deleted_at,omitempty"`

	StaffActivity []*StaffActivityDTO `json:"staff_activity,omitempty" yaml:"staff_activity,omitempty"`
}

// StaffActivityDTO is one staff member's latest message in a ticket.
type StaffActivityDTO struct {
	StaffID      string    `json:"staff_id" yaml:"staff_id"`
	LastActivity time.Time `json:"last_activity" yaml:"last_activity"`
}

type TranscriptDTO struct {
	TicketID  uint                       `json:"ticket_id" yaml:"ticket_id"`
	Messages  []ticket.TranscriptMessage `json:"messages" yaml:"messages"`
	CreatedAt time.Time                  `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time                  `json:"updated_at" yaml:"updated_at"`
}

func ToTicketDTO(t *ticket.Ticket) *TicketDTO {
	if t == nil {
		return nil
	}
	return &TicketDTO{
		ID:             t.ID(),
		GuildID:        t.GuildID(),
		UserID:         t.UserID(),
		Number:         t.Number(),
		Channel:        t.ChannelName(),
		Subject:        t.Subject(),
		Status:         t.Status().String(),
		Rating:         t.Rating(),
		CloseReason:    t.CloseReason(),
		ClosedBy:       t.ClosedBy(),
		CreatedAt:      t.CreatedAt(),
		UpdatedAt:      t.UpdatedAt(),
		LastMessageAt:  t.LastMessageAt(),
		LastActivityAt: t.LastActivityAt(),
		ClosedAt:       t.ClosedAt(),
		DeletedAt:      t.DeletedAt(),
	}
}

func ToTicketDTOList(tickets []*ticket.Ticket) []*TicketDTO {
	return mapper.MapSlice(tickets, ToTicketDTO)
}

func ToStaffActivityDTO(a *ticket.StaffActivity) *StaffActivityDTO {
	return &StaffActivityDTO{StaffID: a.StaffID(), LastActivity: a.LastActivity()}
}

func ToStaffActivityDTOList(activity []*ticket.StaffActivity) []*StaffActivityDTO {
	return mapper.MapSlice(activity, ToStaffActivityDTO)
}

func ToTranscriptDTO(t *ticket.Transcript) *TranscriptDTO {
	if t == nil {
		return nil
	}
	return &TranscriptDTO{
		TicketID:  t.TicketID(),
		Messages:  t.Messages(),
		CreatedAt: t.CreatedAt(),
		UpdatedAt: t.UpdatedAt(),
	}
}
