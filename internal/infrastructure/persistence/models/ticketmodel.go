package models

import (
	"gorm.io/datatypes"
)

// TicketModel is a ticket row. Activity columns are written only through
// targeted updates so a lifecycle save never rewinds them.
type TicketModel struct {
	ID             uint   `gorm:"primaryKey"`
	GuildID        string `gorm:"size:32;not null;uniqueIndex:idx_tickets_guild_number,priority:1;index:idx_tickets_guild_user_status,priority:1"`
	UserID         string `gorm:"size:32;not null;index:idx_tickets_guild_user_status,priority:2"`
	Number         int    `gorm:"not null;uniqueIndex:idx_tickets_guild_number,priority:2"`
	Subject        string `gorm:"size:200;not null"`
	Status         string `gorm:"size:20;not null;index:idx_tickets_guild_user_status,priority:3"`
	Rating         *int
	CloseReason    string `gorm:"size:500"`
	ClosedBy       string `gorm:"size:32"`
	CreatedAt      int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt      int64  `gorm:"autoUpdateTime:milli;not null"`
	LastMessageAt  *int64
	LastActivityAt *int64
	ClosedAt       *int64
	DeletedAt      *int64
}

func (TicketModel) TableName() string {
	return "tickets"
}

// TicketTranscriptModel holds one transcript per ticket as a JSON array.
type TicketTranscriptModel struct {
	ID           uint           `gorm:"primaryKey"`
	TicketID     uint           `gorm:"not null;uniqueIndex"`
	Messages     datatypes.JSON `gorm:"not null"`
	MessageCount int            `gorm:"not null;default:0"`
	CreatedAt    int64          `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt    int64          `gorm:"autoUpdateTime:milli;not null"`
}

func (TicketTranscriptModel) TableName() string {
	return "ticket_transcripts"
}

type TicketStaffActivityModel struct {
	ID           uint   `gorm:"primaryKey"`
	TicketID     uint   `gorm:"not null;uniqueIndex:idx_staff_activity_ticket_staff,priority:1"`
	StaffID      string `gorm:"size:32;not null;uniqueIndex:idx_staff_activity_ticket_staff,priority:2"`
	GuildID      string `gorm:"size:32;not null;index"`
	LastActivity int64  `gorm:"not null"`
	CreatedAt    int64  `gorm:"autoCreateTime:milli;not null"`
}

func (TicketStaffActivityModel) TableName() string {
	return "ticket_staff_activity"
}
