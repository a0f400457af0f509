package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	vo "github.com/guildkeeper/guildkeeper/internal/domain/ticket/valueobjects"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/persistence/mappers"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/persistence/models"
	db "github.com/guildkeeper/guildkeeper/internal/shared/db"
	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
	"github.com/guildkeeper/guildkeeper/internal/shared/query"
)

// allowedTicketOrderByFields maps sort keys accepted from callers to columns.
var allowedTicketOrderByFields = map[string]string{
	"id":         "id",
	"number":     "number",
	"status":     "status",
	"created_at": "created_at",
	"updated_at": "updated_at",
	"closed_at":  "closed_at",
}

// ticketActivityColumns are the only columns TouchActivity may write.
var ticketActivityColumns = map[string]bool{
	ticket.ColumnLastActivityAt: true,
	ticket.ColumnLastMessageAt:  true,
	ticket.ColumnUpdatedAt:      true,
}

// ticketLifecycleColumns is everything Update writes. Activity columns are
// owned by TouchActivity.
var ticketLifecycleColumns = []string{
	"subject",
	"status",
	"rating",
	"close_reason",
	"closed_by",
	"updated_at",
	"closed_at",
	"deleted_at",
}

const maxNumberAllocationAttempts = 5

type TicketRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
	logger logger.Interface
}

func NewTicketRepository(db *gorm.DB, logger logger.Interface) *TicketRepository {
	return &TicketRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
		logger: logger,
	}
}

// Create allocates max(number)+1 within the guild. Two writers racing for the
// same number collide on idx_tickets_guild_number and the loser retries.
func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	var lastErr error
	for attempt := 1; attempt <= maxNumberAllocationAttempts; attempt++ {
		model := r.mapper.ToModel(t)
		err := db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
			var maxNumber int
			if err := tx.Model(&models.TicketModel{}).
				Scopes(db.ForGuild(model.GuildID)).
				Select("COALESCE(MAX(number), 0)").
				Scan(&maxNumber).Error; err != nil {
				return err
			}
			model.Number = maxNumber + 1
			return tx.Create(model).Error
		})
		if err == nil {
			if err := t.SetID(model.ID); err != nil {
				return err
			}
			return t.SetNumber(model.Number)
		}
		if !errors.IsDuplicateError(err) {
			return fmt.Errorf("failed to create ticket: %w", err)
		}
		r.logger.Debugw("ticket number taken, retrying", "guild_id", model.GuildID, "number", model.Number, "attempt", attempt)
		lastErr = err
	}
	return fmt.Errorf("failed to allocate ticket number after %d attempts: %w", maxNumberAllocationAttempts, lastErr)
}

func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.TicketModel{}).
		Where("id = ?", model.ID).
		Select(ticketLifecycleColumns).
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update ticket: %w", result.Error)
	}

	// Note: RowsAffected may be 0 when updated values are identical to existing values.

	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	var model models.TicketModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ticket.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) GetByGuildAndNumber(ctx context.Context, guildID string, number int) (*ticket.Ticket, error) {
	var model models.TicketModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Scopes(db.ForGuild(guildID)).
		Where("number = ?", number).
		First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ticket.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) GetStatuses(ctx context.Context, ids []uint) (map[uint]vo.TicketStatus, error) {
	statuses := make(map[uint]vo.TicketStatus, len(ids))
	if len(ids) == 0 {
		return statuses, nil
	}

	var rows []struct {
		ID     uint
		Status string
	}
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Model(&models.TicketModel{}).
		Select("id", "status").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load ticket statuses: %w", err)
	}

	for _, row := range rows {
		status, err := vo.NewTicketStatus(row.Status)
		if err != nil {
			return nil, fmt.Errorf("ticket %d: %w", row.ID, err)
		}
		statuses[row.ID] = status
	}
	return statuses, nil
}

func (r *TicketRepository) List(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	q := tx.Model(&models.TicketModel{}).Scopes(db.ForGuild(filter.GuildID))

	if filter.Status != nil {
		q = q.Where("status = ?", filter.Status.String())
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	sort := query.SortFilter{SortBy: filter.SortBy, SortOrder: filter.SortOrder}
	page := query.PageFilter{Page: filter.Page, PageSize: filter.PageSize}
	var ticketModels []models.TicketModel
	if err := q.
		Order(sort.OrderClause(allowedTicketOrderByFields, "number DESC")).
		Limit(page.Limit()).
		Offset(page.Offset()).
		Find(&ticketModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}

	tickets := make([]*ticket.Ticket, 0, len(ticketModels))
	for i := range ticketModels {
		t, err := r.mapper.ToDomain(&ticketModels[i])
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, t)
	}

	return tickets, total, nil
}

func (r *TicketRepository) CountOpenByUser(ctx context.Context, guildID, userID string) (int64, error) {
	var count int64
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Model(&models.TicketModel{}).
		Scopes(db.ForGuild(guildID)).
		Where("user_id = ? AND status = ?", userID, vo.StatusOpen.String()).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count open tickets: %w", err)
	}
	return count, nil
}

// TouchActivity writes column and updated_at without running gorm hooks. The
// driver error is wrapped with %w so IsMissingColumnError still sees it.
func (r *TicketRepository) TouchActivity(ctx context.Context, guildID string, number int, column string, at time.Time) (int64, error) {
	if !ticketActivityColumns[column] {
		return 0, fmt.Errorf("column %q is not an activity column", column)
	}

	ms := at.UnixMilli()
	updates := map[string]interface{}{column: ms}
	if column != ticket.ColumnUpdatedAt {
		updates[ticket.ColumnUpdatedAt] = ms
	}

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.TicketModel{}).
		Scopes(db.ForGuild(guildID)).
		Where("number = ?", number).
		UpdateColumns(updates)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to touch %s: %w", column, result.Error)
	}
	return result.RowsAffected, nil
}

var _ ticket.TicketRepository = (*TicketRepository)(nil)
