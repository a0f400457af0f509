package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/guildkeeper/guildkeeper/internal/domain/setting"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/persistence/mappers"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/persistence/models"
	db "github.com/guildkeeper/guildkeeper/internal/shared/db"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

// guildSettingsUpdateColumns is every column an upsert overwrites; created_at
// keeps its first value.
var guildSettingsUpdateColumns = []string{
	"staff_role_ids",
	"ticket_category_id",
	"transcript_channel_id",
	"log_channel_id",
	"verified_role_id",
	"max_open_tickets_per_user",
	"analytics_enabled",
	"leveling_enabled",
	"updated_at",
}

// GuildSettingsRepository implements setting.Repository
type GuildSettingsRepository struct {
	db     *gorm.DB
	logger logger.Interface
	mapper mappers.GuildSettingsMapper
}

// NewGuildSettingsRepository creates a new GuildSettingsRepository
func NewGuildSettingsRepository(db *gorm.DB, logger logger.Interface) setting.Repository {
	return &GuildSettingsRepository{
		db:     db,
		logger: logger,
		mapper: mappers.NewGuildSettingsMapper(),
	}
}

// GetByGuildID retrieves the settings row of one guild
func (r *GuildSettingsRepository) GetByGuildID(ctx context.Context, guildID string) (*setting.GuildSettings, error) {
	var model models.GuildSettingsModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("guild_id = ?", guildID).
		First(&model).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, setting.ErrSettingsNotFound
		}
		r.logger.Errorw("failed to get guild settings", "guild_id", guildID, "error", err)
		return nil, fmt.Errorf("failed to get guild settings: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

// Upsert creates or replaces the guild's row
func (r *GuildSettingsRepository) Upsert(ctx context.Context, s *setting.GuildSettings) error {
	model, err := r.mapper.ToModel(s)
	if err != nil {
		return err
	}

	err = db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "guild_id"}},
			DoUpdates: clause.AssignmentColumns(guildSettingsUpdateColumns),
		}).
		Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to upsert guild settings", "guild_id", s.GuildID(), "error", err)
		return fmt.Errorf("failed to upsert guild settings: %w", err)
	}
	return nil
}

// ListGuildIDs returns every configured guild in guild_id order
func (r *GuildSettingsRepository) ListGuildIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.GuildSettingsModel{}).
		Order("guild_id").
		Pluck("guild_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list guild ids: %w", err)
	}
	return ids, nil
}
