package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/persistence/mappers"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/persistence/models"
	db "github.com/guildkeeper/guildkeeper/internal/shared/db"
)

type StaffActivityRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewStaffActivityRepository(db *gorm.DB) *StaffActivityRepository {
	return &StaffActivityRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *StaffActivityRepository) UpdateLastActivity(ctx context.Context, ticketID uint, staffID string, at time.Time) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.TicketStaffActivityModel{}).
		Where("ticket_id = ? AND staff_id = ?", ticketID, staffID).
		UpdateColumn("last_activity", at.UnixMilli())
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update staff activity: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Create returns the raw driver error on a duplicate so callers can detect
// a concurrent insert with IsDuplicateError.
func (r *StaffActivityRepository) Create(ctx context.Context, activity *ticket.StaffActivity) error {
	model := &models.TicketStaffActivityModel{
		TicketID:     activity.TicketID(),
		StaffID:      activity.StaffID(),
		GuildID:      activity.GuildID(),
		LastActivity: activity.LastActivity().UnixMilli(),
	}
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create staff activity: %w", err)
	}
	return nil
}

func (r *StaffActivityRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.StaffActivity, error) {
	var rows []models.TicketStaffActivityModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("ticket_id = ?", ticketID).
		Order("last_activity DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list staff activity: %w", err)
	}

	out := make([]*ticket.StaffActivity, 0, len(rows))
	for i := range rows {
		a, err := r.mapper.StaffActivityToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

var _ ticket.StaffActivityRepository = (*StaffActivityRepository)(nil)
