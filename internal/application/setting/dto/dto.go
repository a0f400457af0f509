package dto

import (
	"time"

	"github.com/guildkeeper/guildkeeper/internal/domain/setting"
)

// GuildSettingsResponse is the settings view returned to callers.
type GuildSettingsResponse struct {
	GuildID               string    `json:"guild_id" yaml:"guild_id"`
	StaffRoleIDs          []string  `json:"staff_role_ids" yaml:"staff_role_ids"`
	TicketCategoryID      string    `json:"ticket_category_id,omitempty" yaml:"ticket_category_id,omitempty"`
	TranscriptChannelID   string    `json:"transcript_channel_id,omitempty" yaml:"transcript_channel_id,omitempty"`
	LogChannelID          string    `json:"log_channel_id,omitempty" yaml:"log_channel_id,omitempty"`
	VerifiedRoleID        string    `json:"verified_role_id,omitempty" yaml:"verified_role_id,omitempty"`
	MaxOpenTicketsPerUser int       `json:"max_open_tickets_per_user" yaml:"max_open_tickets_per_user"`
	AnalyticsEnabled      bool      `json:"analytics_enabled" yaml:"analytics_enabled"`
	LevelingEnabled       bool      `json:"leveling_enabled" yaml:"leveling_enabled"`
	UpdatedAt             time.Time `json:"updated_at" yaml:"updated_at"`
}

// UpdateGuildSettingsRequest carries a partial update; omitted fields are kept.
type UpdateGuildSettingsRequest struct {
	StaffRoleIDs          *[]string `json:"staff_role_ids" validate:"omitempty,max=25,dive,snowflake"`
	TicketCategoryID      *string   `json:"ticket_category_id" validate:"omitempty,snowflake"`
	TranscriptChannelID   *string   `json:"transcript_channel_id" validate:"omitempty,snowflake"`
	LogChannelID          *string   `json:"log_channel_id" validate:"omitempty,snowflake"`
	VerifiedRoleID        *string   `json:"verified_role_id" validate:"omitempty,snowflake"`
	MaxOpenTicketsPerUser *int      `json:"max_open_tickets_per_user" validate:"omitempty,gte=1,lte=10"`
	AnalyticsEnabled      *bool     `json:"analytics_enabled"`
	LevelingEnabled       *bool     `json:"leveling_enabled"`
}

func (r UpdateGuildSettingsRequest) ToPatch() setting.Patch {
	return setting.Patch{
		StaffRoleIDs:          r.StaffRoleIDs,
		TicketCategoryID:      r.TicketCategoryID,
		TranscriptChannelID:   r.TranscriptChannelID,
		LogChannelID:          r.LogChannelID,
		VerifiedRoleID:        r.VerifiedRoleID,
		MaxOpenTicketsPerUser: r.MaxOpenTicketsPerUser,
		AnalyticsEnabled:      r.AnalyticsEnabled,
		LevelingEnabled:       r.LevelingEnabled,
	}
}

func ToGuildSettingsResponse(s *setting.GuildSettings) *GuildSettingsResponse {
	if s == nil {
		return nil
	}
	return &GuildSettingsResponse{
		GuildID:               s.GuildID(),
		StaffRoleIDs:          s.StaffRoleIDs(),
		TicketCategoryID:      s.TicketCategoryID(),
		TranscriptChannelID:   s.TranscriptChannelID(),
		LogChannelID:          s.LogChannelID(),
		VerifiedRoleID:        s.VerifiedRoleID(),
		MaxOpenTicketsPerUser: s.MaxOpenTicketsPerUser(),
		AnalyticsEnabled:      s.AnalyticsEnabled(),
		LevelingEnabled:       s.LevelingEnabled(),
		UpdatedAt:             s.UpdatedAt(),
	}
}
