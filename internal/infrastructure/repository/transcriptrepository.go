package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/persistence/mappers"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/persistence/models"
	db "github.com/guildkeeper/guildkeeper/internal/shared/db"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

type TranscriptRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
	logger logger.Interface
}

func NewTranscriptRepository(db *gorm.DB, logger logger.Interface) *TranscriptRepository {
	return &TranscriptRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
		logger: logger,
	}
}

// Save replaces the messages of an existing transcript and keeps its created_at.
func (r *TranscriptRepository) Save(ctx context.Context, transcript *ticket.Transcript) error {
	model, err := r.mapper.TranscriptToModel(transcript)
	if err != nil {
		return err
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticket_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"messages", "message_count", "updated_at"}),
	}).Create(model).Error; err != nil {
		r.logger.Errorw("failed to save transcript", "ticket_id", transcript.TicketID(), "error", err)
		return fmt.Errorf("failed to save transcript: %w", err)
	}
	return nil
}

func (r *TranscriptRepository) GetByTicketID(ctx context.Context, ticketID uint) (*ticket.Transcript, error) {
	var model models.TicketTranscriptModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("ticket_id = ?", ticketID).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ticket.ErrTranscriptNotFound
		}
		return nil, fmt.Errorf("failed to find transcript: %w", err)
	}

	return r.mapper.TranscriptToDomain(&model)
}

var _ ticket.TranscriptRepository = (*TranscriptRepository)(nil)
