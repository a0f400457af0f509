package app

import (
	analyticsUsecases "github.com/guildkeeper/guildkeeper/internal/application/analytics/usecases"
	settingUsecases "github.com/guildkeeper/guildkeeper/internal/application/setting/usecases"
	ticketUsecases "github.com/guildkeeper/guildkeeper/internal/application/ticket/usecases"
	"github.com/guildkeeper/guildkeeper/internal/shared/db"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
	"github.com/guildkeeper/guildkeeper/internal/shared/services/markdown"
)

// UseCases holds every use case the entry points call.
type UseCases struct {
	// Settings
	GetSettings    *settingUsecases.GetSettingsUseCase
	UpdateSettings *settingUsecases.UpdateSettingsUseCase

	// Tickets
	OpenTicket       *ticketUsecases.OpenTicketUseCase
	CloseTicket      *ticketUsecases.CloseTicketUseCase
	ReopenTicket     *ticketUsecases.ReopenTicketUseCase
	DeleteTicket     *ticketUsecases.DeleteTicketUseCase
	BulkDelete       *ticketUsecases.BulkDeleteUseCase
	GetTicket        *ticketUsecases.GetTicketUseCase
	ListTickets      *ticketUsecases.ListTicketsUseCase
	RateTicket       *ticketUsecases.RateTicketUseCase
	GetTranscript    *ticketUsecases.GetTranscriptUseCase
	SaveTranscript   *ticketUsecases.SaveTranscriptUseCase
	RenderTranscript *ticketUsecases.RenderTranscriptUseCase
	RecordActivity   *ticketUsecases.RecordActivityUseCase

	// Analytics
	Tracker      *analyticsUsecases.Tracker
	Queries      *analyticsUsecases.QueryUseCase
	Export       *analyticsUsecases.ExportDataUseCase
	Cleanup      *analyticsUsecases.CleanOldDataUseCase
	RecordHealth *analyticsUsecases.RecordServerHealthUseCase
}

func newUseCases(repos *Repositories, c *Container, log logger.Interface) *UseCases {
	uc := &UseCases{}

	uc.GetSettings = settingUsecases.NewGetSettingsUseCase(repos.Settings, logger.WithComponent("usecase.settings"))
	uc.UpdateSettings = settingUsecases.NewUpdateSettingsUseCase(repos.Settings, logger.WithComponent("usecase.settings"))

	ticketLog := logger.WithComponent("usecase.ticket")
	uc.OpenTicket = ticketUsecases.NewOpenTicketUseCase(repos.Tickets, uc.GetSettings, c.EventBus, ticketLog)
	uc.CloseTicket = ticketUsecases.NewCloseTicketUseCase(repos.Tickets, repos.Transcripts, c.History, c.EventBus, ticketLog)
	uc.ReopenTicket = ticketUsecases.NewReopenTicketUseCase(repos.Tickets, c.EventBus, ticketLog)
	uc.DeleteTicket = ticketUsecases.NewDeleteTicketUseCase(repos.Tickets, repos.Transcripts, c.History, c.EventBus, db.NewTransactionManager(c.DB), ticketLog)
	uc.BulkDelete = ticketUsecases.NewBulkDeleteUseCase(repos.Tickets, uc.DeleteTicket, c.Config.Tickets.BulkDeleteConcurrency, ticketLog)
	uc.GetTicket = ticketUsecases.NewGetTicketUseCase(repos.Tickets, repos.StaffActivity, ticketLog)
	uc.ListTickets = ticketUsecases.NewListTicketsUseCase(repos.Tickets, ticketLog)
	uc.RateTicket = ticketUsecases.NewRateTicketUseCase(repos.Tickets, ticketLog)
	uc.GetTranscript = ticketUsecases.NewGetTranscriptUseCase(repos.Transcripts, ticketLog)
	uc.SaveTranscript = ticketUsecases.NewSaveTranscriptUseCase(repos.Tickets, repos.Transcripts, ticketLog)
	uc.RenderTranscript = ticketUsecases.NewRenderTranscriptUseCase(repos.Tickets, repos.Transcripts, markdown.NewMarkdownService(), ticketLog)
	uc.RecordActivity = ticketUsecases.NewRecordActivityUseCase(repos.Tickets, repos.StaffActivity, c.History, uc.GetSettings, logger.WithComponent("usecase.activity"))

	analyticsLog := logger.WithComponent("usecase.analytics")
	uc.Tracker = analyticsUsecases.NewTracker(repos.Analytics, uc.GetSettings, c.Sink, analyticsLog)
	uc.Queries = analyticsUsecases.NewQueryUseCase(repos.Analytics, analyticsLog)
	uc.Export = analyticsUsecases.NewExportDataUseCase(uc.Queries, analyticsLog)
	uc.Cleanup = analyticsUsecases.NewCleanOldDataUseCase(repos.Analytics, analyticsLog)
	uc.RecordHealth = analyticsUsecases.NewRecordServerHealthUseCase(repos.Analytics, analyticsLog)

	log.Debugw("use cases wired")
	return uc
}
