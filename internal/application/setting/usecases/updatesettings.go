package usecases

import (
	"context"
	stderrors "errors"

	"github.com/guildkeeper/guildkeeper/internal/application/setting/dto"
	"github.com/guildkeeper/guildkeeper/internal/domain/setting"
	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
	"github.com/guildkeeper/guildkeeper/internal/shared/utils"
)

// UpdateSettingsUseCase applies a partial update to a guild's settings
type UpdateSettingsUseCase struct {
	settingRepo setting.Repository
	logger      logger.Interface
}

func NewUpdateSettingsUseCase(settingRepo setting.Repository, logger logger.Interface) *UpdateSettingsUseCase {
	return &UpdateSettingsUseCase{
		settingRepo: settingRepo,
		logger:      logger,
	}
}

func (uc *UpdateSettingsUseCase) Execute(
	ctx context.Context,
	guildID string,
	request dto.UpdateGuildSettingsRequest,
) (*dto.GuildSettingsResponse, error) {
	if guildID == "" {
		return nil, errors.NewValidationError("guild ID is required")
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	current, err := uc.settingRepo.GetByGuildID(ctx, guildID)
	if err != nil {
		if !stderrors.Is(err, setting.ErrSettingsNotFound) {
			uc.logger.Errorw("failed to get guild settings", "guild_id", guildID, "error", err)
			return nil, errors.NewInternalError("failed to load guild settings").WithCause(err)
		}
		current = setting.DefaultGuildSettings(guildID)
	}

	if err := current.Apply(request.ToPatch()); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.settingRepo.Upsert(ctx, current); err != nil {
		uc.logger.Errorw("failed to save guild settings", "guild_id", guildID, "error", err)
		return nil, errors.NewInternalError("failed to save guild settings").WithCause(err)
	}

	uc.logger.Infow("guild settings updated", "guild_id", guildID, "staff_roles", len(current.StaffRoleIDs()))
	return dto.ToGuildSettingsResponse(current), nil
}
