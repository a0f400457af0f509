package app

import (
	"gorm.io/gorm"

	"github.com/guildkeeper/guildkeeper/internal/domain/setting"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/repository"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

// Repositories holds all repository instances used by the application.
// Types match the return types of the repository constructors.
type Repositories struct {
	Tickets       *repository.TicketRepository
	Transcripts   *repository.TranscriptRepository
	StaffActivity *repository.StaffActivityRepository
	Settings      setting.Repository
	Analytics     *repository.AnalyticsRepository
}

func newRepositories(db *gorm.DB, log logger.Interface) *Repositories {
	return &Repositories{
		Tickets:       repository.NewTicketRepository(db, log),
		Transcripts:   repository.NewTranscriptRepository(db, log),
		StaffActivity: repository.NewStaffActivityRepository(db),
		Settings:      repository.NewGuildSettingsRepository(db, log),
		Analytics:     repository.NewAnalyticsRepository(db, log),
	}
}
