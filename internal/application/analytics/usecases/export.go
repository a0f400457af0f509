package usecases

import (
	"context"

	"github.com/guildkeeper/guildkeeper/internal/domain/analytics"
	"github.com/guildkeeper/guildkeeper/internal/shared/biztime"
	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
	"github.com/guildkeeper/guildkeeper/internal/shared/id"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

// ExportDataUseCase composes every read model of a guild into one snapshot.
type ExportDataUseCase struct {
	queries *QueryUseCase
	logger  logger.Interface
}

func NewExportDataUseCase(queries *QueryUseCase, logger logger.Interface) *ExportDataUseCase {
	return &ExportDataUseCase{queries: queries, logger: logger}
}

func (uc *ExportDataUseCase) Execute(ctx context.Context, guildID string, days int) (*analytics.Export, error) {
	days, err := normalizeDays(days)
	if err != nil {
		return nil, err
	}

	overview, err := uc.queries.GetServerOverview(ctx, guildID, days)
	if err != nil {
		return nil, err
	}
	hourly, err := uc.queries.GetHourlyActivity(ctx, guildID, min(days*24, maxWindowHours))
	if err != nil {
		return nil, err
	}
	channels, err := uc.queries.GetTopChannels(ctx, guildID, days, maxTopLimit)
	if err != nil {
		return nil, err
	}
	commands, err := uc.queries.GetCommandStats(ctx, guildID, days, maxTopLimit)
	if err != nil {
		return nil, err
	}
	members, err := uc.queries.GetMemberEngagement(ctx, guildID, days, maxTopLimit)
	if err != nil {
		return nil, err
	}
	health, err := uc.queries.GetServerHealthHistory(ctx, guildID, days, 0)
	if err != nil {
		return nil, err
	}

	exportID, err := id.NewExportID()
	if err != nil {
		return nil, errors.NewInternalError("failed to generate export ID").WithCause(err)
	}

	uc.logger.Infow("analytics exported", "guild_id", guildID, "days", days, "export_id", exportID)

	return &analytics.Export{
		ExportID:    exportID,
		GuildID:     guildID,
		Days:        days,
		ExportedAt:  biztime.NowUTC(),
		Overview:    overview,
		Hourly:      hourly,
		TopChannels: channels,
		Commands:    commands,
		Members:     members,
		Health:      health,
	}, nil
}
