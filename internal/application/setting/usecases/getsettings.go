package usecases

import (
	"context"
	stderrors "errors"

	"github.com/guildkeeper/guildkeeper/internal/application/setting/dto"
	"github.com/guildkeeper/guildkeeper/internal/domain/setting"
	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

// GetSettingsUseCase reads guild settings, falling back to defaults for
// guilds that never saved any. It is also the settings provider handed to
// the ticket and analytics use cases.
type GetSettingsUseCase struct {
	settingRepo setting.Repository
	logger      logger.Interface
}

func NewGetSettingsUseCase(settingRepo setting.Repository, logger logger.Interface) *GetSettingsUseCase {
	return &GetSettingsUseCase{
		settingRepo: settingRepo,
		logger:      logger,
	}
}

// Execute returns the settings view for guildID.
func (uc *GetSettingsUseCase) Execute(ctx context.Context, guildID string) (*dto.GuildSettingsResponse, error) {
	s, err := uc.GetGuildSettings(ctx, guildID)
	if err != nil {
		return nil, err
	}
	return dto.ToGuildSettingsResponse(s), nil
}

// GetGuildSettings returns the stored settings or defaults when none exist.
func (uc *GetSettingsUseCase) GetGuildSettings(ctx context.Context, guildID string) (*setting.GuildSettings, error) {
	if guildID == "" {
		return nil, errors.NewValidationError("guild ID is required")
	}

	s, err := uc.settingRepo.GetByGuildID(ctx, guildID)
	if err != nil {
		if stderrors.Is(err, setting.ErrSettingsNotFound) {
			return setting.DefaultGuildSettings(guildID), nil
		}
		uc.logger.Errorw("failed to get guild settings", "guild_id", guildID, "error", err)
		return nil, errors.NewInternalError("failed to load guild settings").WithCause(err)
	}
	return s, nil
}
