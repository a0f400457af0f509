package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/guildkeeper/guildkeeper/internal/domain/setting"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/persistence/models"
)

type GuildSettingsMapper interface {
	ToModel(s *setting.GuildSettings) (*models.GuildSettingsModel, error)
	ToDomain(model *models.GuildSettingsModel) (*setting.GuildSettings, error)
}

type guildSettingsMapper struct{}

func NewGuildSettingsMapper() GuildSettingsMapper {
	return &guildSettingsMapper{}
}

func (m *guildSettingsMapper) ToModel(s *setting.GuildSettings) (*models.GuildSettingsModel, error) {
	roles, err := json.Marshal(s.StaffRoleIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal staff roles: %w", err)
	}
	return &models.GuildSettingsModel{
		GuildID:               s.GuildID(),
		StaffRoleIDs:          datatypes.JSON(roles),
		TicketCategoryID:      s.TicketCategoryID(),
		TranscriptChannelID:   s.TranscriptChannelID(),
		LogChannelID:          s.LogChannelID(),
		VerifiedRoleID:        s.VerifiedRoleID(),
		MaxOpenTicketsPerUser: s.MaxOpenTicketsPerUser(),
		AnalyticsEnabled:      s.AnalyticsEnabled(),
		LevelingEnabled:       s.LevelingEnabled(),
		CreatedAt:             s.CreatedAt().UnixMilli(),
		UpdatedAt:             s.UpdatedAt().UnixMilli(),
	}, nil
}

func (m *guildSettingsMapper) ToDomain(model *models.GuildSettingsModel) (*setting.GuildSettings, error) {
	var roles []string
	if len(model.StaffRoleIDs) > 0 {
		if err := json.Unmarshal(model.StaffRoleIDs, &roles); err != nil {
			return nil, fmt.Errorf("failed to unmarshal staff roles (guild_id=%s): %w", model.GuildID, err)
		}
	}
	return setting.ReconstructGuildSettings(
		model.GuildID,
		roles,
		model.TicketCategoryID,
		model.TranscriptChannelID,
		model.LogChannelID,
		model.VerifiedRoleID,
		model.MaxOpenTicketsPerUser,
		model.AnalyticsEnabled,
		model.LevelingEnabled,
		millisToTime(model.CreatedAt),
		millisToTime(model.UpdatedAt),
	), nil
}
