package models

import (
	"gorm.io/datatypes"
)

type GuildSettingsModel struct {
	GuildID               string         `gorm:"primaryKey;size:32"`
	StaffRoleIDs          datatypes.JSON `gorm:"column:staff_role_ids"`
	TicketCategoryID      string         `gorm:"size:32"`
	TranscriptChannelID   string         `gorm:"size:32"`
	LogChannelID          string         `gorm:"size:32"`
	VerifiedRoleID        string         `gorm:"size:32"`
	MaxOpenTicketsPerUser int            `gorm:"not null;default:1"`
	AnalyticsEnabled      bool           `gorm:"not null"`
	LevelingEnabled       bool           `gorm:"not null;default:false"`
	CreatedAt             int64          `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt             int64          `gorm:"autoUpdateTime:milli;not null"`
}

func (GuildSettingsModel) TableName() string {
	return "guild_settings"
}
