package usecases

import (
	"context"

	"github.com/guildkeeper/guildkeeper/internal/domain/setting"
)

type mockSettingRepository struct {
	GetByGuildIDFunc func(ctx context.Context, guildID string) (*setting.GuildSettings, error)
	UpsertFunc       func(ctx context.Context, s *setting.GuildSettings) error
	ListGuildIDsFunc func(ctx context.Context) ([]string, error)
}

func (m *mockSettingRepository) GetByGuildID(ctx context.Context, guildID string) (*setting.GuildSettings, error) {
	if m.GetByGuildIDFunc != nil {
		return m.GetByGuildIDFunc(ctx, guildID)
	}
	return nil, setting.ErrSettingsNotFound
}

func (m *mockSettingRepository) Upsert(ctx context.Context, s *setting.GuildSettings) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, s)
	}
	return nil
}

func (m *mockSettingRepository) ListGuildIDs(ctx context.Context) ([]string, error) {
	if m.ListGuildIDsFunc != nil {
		return m.ListGuildIDsFunc(ctx)
	}
	return nil, nil
}
