package setting

import (
	"context"
)

// Repository defines the interface for guild settings persistence
type Repository interface {
	// GetByGuildID returns ErrSettingsNotFound when the guild has no row
	GetByGuildID(ctx context.Context, guildID string) (*GuildSettings, error)

	// Upsert creates or replaces the guild's row
	Upsert(ctx context.Context, settings *GuildSettings) error

	// ListGuildIDs returns every guild that has a settings row
	ListGuildIDs(ctx context.Context) ([]string, error)
}
