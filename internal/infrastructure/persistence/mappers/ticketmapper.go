package mappers

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	vo "github.com/guildkeeper/guildkeeper/internal/domain/ticket/valueobjects"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/persistence/models"
)

// TicketMapper handles the conversion between Ticket domain entities and persistence models.
type TicketMapper interface {
	// ToModel converts a ticket domain entity to a persistence model.
	ToModel(t *ticket.Ticket) *models.TicketModel

	// ToDomain converts a ticket persistence model to a domain entity.
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)

	TranscriptToModel(t *ticket.Transcript) (*models.TicketTranscriptModel, error)
	TranscriptToDomain(model *models.TicketTranscriptModel) (*ticket.Transcript, error)

	StaffActivityToDomain(model *models.TicketStaffActivityModel) (*ticket.StaffActivity, error)
}

// TicketMapperImpl is the concrete implementation of TicketMapper.
type TicketMapperImpl struct{}

// NewTicketMapper creates a new TicketMapper.
func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

// ToModel converts a ticket domain entity to a persistence model.
func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	return &models.TicketModel{
		ID:             t.ID(),
		GuildID:        t.GuildID(),
		UserID:         t.UserID(),
		Number:         t.Number(),
		Subject:        t.Subject(),
		Status:         t.Status().String(),
		Rating:         t.Rating(),
		CloseReason:    t.CloseReason(),
		ClosedBy:       t.ClosedBy(),
		CreatedAt:      t.CreatedAt().UnixMilli(),
		UpdatedAt:      t.UpdatedAt().UnixMilli(),
		LastMessageAt:  timeToMillis(t.LastMessageAt()),
		LastActivityAt: timeToMillis(t.LastActivityAt()),
		ClosedAt:       timeToMillis(t.ClosedAt()),
		DeletedAt:      timeToMillis(t.DeletedAt()),
	}
}

// ToDomain converts a ticket persistence model to a domain entity.
func (m *TicketMapperImpl) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	status, err := vo.NewTicketStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("ticket %d: %w", model.ID, err)
	}

	return ticket.ReconstructTicket(
		model.ID,
		model.GuildID,
		model.UserID,
		model.Number,
		model.Subject,
		status,
		model.Rating,
		model.CloseReason,
		model.ClosedBy,
		millisToTime(model.CreatedAt),
		millisToTime(model.UpdatedAt),
		millisPtrToTime(model.LastMessageAt),
		millisPtrToTime(model.LastActivityAt),
		millisPtrToTime(model.ClosedAt),
		millisPtrToTime(model.DeletedAt),
	)
}

func (m *TicketMapperImpl) TranscriptToModel(t *ticket.Transcript) (*models.TicketTranscriptModel, error) {
	raw, err := json.Marshal(t.Messages())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transcript (ticket_id=%d): %w", t.TicketID(), err)
	}
	return &models.TicketTranscriptModel{
		TicketID:     t.TicketID(),
		Messages:     datatypes.JSON(raw),
		MessageCount: t.MessageCount(),
		CreatedAt:    t.CreatedAt().UnixMilli(),
		UpdatedAt:    t.UpdatedAt().UnixMilli(),
	}, nil
}

func (m *TicketMapperImpl) TranscriptToDomain(model *models.TicketTranscriptModel) (*ticket.Transcript, error) {
	var messages []ticket.TranscriptMessage
	if len(model.Messages) > 0 {
		if err := json.Unmarshal(model.Messages, &messages); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transcript (ticket_id=%d): %w", model.TicketID, err)
		}
	}
	return ticket.ReconstructTranscript(
		model.TicketID,
		messages,
		millisToTime(model.CreatedAt),
		millisToTime(model.UpdatedAt),
	), nil
}

func (m *TicketMapperImpl) StaffActivityToDomain(model *models.TicketStaffActivityModel) (*ticket.StaffActivity, error) {
	return ticket.NewStaffActivity(model.TicketID, model.GuildID, model.StaffID, millisToTime(model.LastActivity))
}

func millisToTime(millis int64) time.Time {
	return time.UnixMilli(millis).UTC()
}

func millisPtrToTime(millis *int64) *time.Time {
	if millis == nil {
		return nil
	}
	t := millisToTime(*millis)
	return &t
}

func timeToMillis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}
