package mappers

import (
	"gorm.io/datatypes"

	"github.com/guildkeeper/guildkeeper/internal/domain/analytics"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/persistence/models"
)

func EventToModel(e *analytics.Event) *models.ServerAnalyticsModel {
	model := &models.ServerAnalyticsModel{
		GuildID:     e.GuildID,
		MetricType:  e.MetricType.String(),
		ChannelID:   e.ChannelID,
		UserID:      e.UserID,
		CommandName: e.CommandName,
		Value:       e.Value,
		CreatedAt:   e.CreatedAt.UnixMilli(),
	}
	if e.Metadata != "" {
		model.Metadata = datatypes.JSON(e.Metadata)
	}
	return model
}

func CommandToModel(c *analytics.CommandExecution) *models.CommandAnalyticsModel {
	return &models.CommandAnalyticsModel{
		GuildID:         c.GuildID,
		CommandName:     c.CommandName,
		UserID:          c.UserID,
		ChannelID:       c.ChannelID,
		Success:         c.Success,
		ExecutionTimeMs: c.ExecutionTimeMs,
		ErrorMessage:    c.ErrorMessage,
		CreatedAt:       c.CreatedAt.UnixMilli(),
	}
}

func HealthToModel(h *analytics.HealthSnapshot) *models.ServerHealthModel {
	return &models.ServerHealthModel{
		GuildID:           h.GuildID,
		MemberCount:       h.MemberCount,
		OnlineCount:       h.OnlineCount,
		BotLatencyMs:      h.BotLatencyMs,
		APIResponseTimeMs: h.APIResponseTimeMs,
		MemoryUsageMB:     h.MemoryUsageMB,
		CPUUsage:          h.CPUUsage,
		UptimeSeconds:     h.UptimeSeconds,
		ErrorCount:        h.ErrorCount,
		CreatedAt:         h.CreatedAt.UnixMilli(),
	}
}

func HealthToDomain(m *models.ServerHealthModel) analytics.HealthSnapshot {
	return analytics.HealthSnapshot{
		ID:                m.ID,
		GuildID:           m.GuildID,
		MemberCount:       m.MemberCount,
		OnlineCount:       m.OnlineCount,
		BotLatencyMs:      m.BotLatencyMs,
		APIResponseTimeMs: m.APIResponseTimeMs,
		MemoryUsageMB:     m.MemoryUsageMB,
		CPUUsage:          m.CPUUsage,
		UptimeSeconds:     m.UptimeSeconds,
		ErrorCount:        m.ErrorCount,
		CreatedAt:         millisToTime(m.CreatedAt),
	}
}
