package usecases

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildkeeper/guildkeeper/internal/domain/setting"
	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	vo "github.com/guildkeeper/guildkeeper/internal/domain/ticket/valueobjects"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

var errMissingLastActivity = stderrors.New("no such column: last_activity_at")

func TestRecordActivityUseCase_NonTicketChannelIsNoop(t *testing.T) {
	for _, name := range []string{"general", "ticket-", "ticket-abc", "old-ticket-12", "ticket-12-archive"} {
		t.Run(name, func(t *testing.T) {
			repo := &mockTicketRepository{}
			staff := &mockStaffActivityRepository{}
			history := &mockMessageHistory{}
			uc := NewRecordActivityUseCase(repo, staff, history, &mockSettingsProvider{}, logger.NewNopLogger())

			result := uc.Execute(context.Background(), RecordActivityCommand{
				ChannelName:   name,
				GuildID:       "G1",
				AuthorID:      "S1",
				AuthorIsStaff: true,
				Content:       "hello",
			})

			assert.False(t, result.Matched)
			assert.Empty(t, repo.Calls())
			assert.Zero(t, staff.updates)
			assert.Empty(t, history.appended)
		})
	}
}

func TestRecordActivityUseCase_ColumnFallback(t *testing.T) {
	tests := []struct {
		name       string
		failures   map[string]error
		wantColumn string
		wantCalls  []string
		wantWarn   bool
	}{
		{
			name:       "primary column accepted",
			wantColumn: ticket.ColumnLastActivityAt,
			wantCalls:  []string{"TouchActivity:last_activity_at"},
		},
		{
			name:       "missing primary column falls back to last_message_at",
			failures:   map[string]error{ticket.ColumnLastActivityAt: errMissingLastActivity},
			wantColumn: ticket.ColumnLastMessageAt,
			wantCalls:  []string{"TouchActivity:last_activity_at", "TouchActivity:last_message_at"},
		},
		{
			name: "second failure falls back to updated_at",
			failures: map[string]error{
				ticket.ColumnLastActivityAt: errMissingLastActivity,
				ticket.ColumnLastMessageAt:  stderrors.New("database is locked"),
			},
			wantColumn: ticket.ColumnUpdatedAt,
			wantCalls:  []string{"TouchActivity:last_activity_at", "TouchActivity:last_message_at", "TouchActivity:updated_at"},
		},
		{
			name:      "other primary error does not fall back",
			failures:  map[string]error{ticket.ColumnLastActivityAt: stderrors.New("database is locked")},
			wantCalls: []string{"TouchActivity:last_activity_at"},
			wantWarn:  true,
		},
		{
			name: "every column fails",
			failures: map[string]error{
				ticket.ColumnLastActivityAt: errMissingLastActivity,
				ticket.ColumnLastMessageAt:  errMissingLastActivity,
				ticket.ColumnUpdatedAt:      stderrors.New("no such table: tickets"),
			},
			wantCalls: []string{"TouchActivity:last_activity_at", "TouchActivity:last_message_at", "TouchActivity:updated_at"},
			wantWarn:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTicketRepository{
				TouchActivityFunc: func(ctx context.Context, guildID string, number int, column string, at time.Time) (int64, error) {
					assert.Equal(t, "G1", guildID)
					assert.Equal(t, 12, number)
					if err := tt.failures[column]; err != nil {
						return 0, err
					}
					return 1, nil
				},
			}
			log := newMockLogger()
			uc := NewRecordActivityUseCase(repo, &mockStaffActivityRepository{}, nil, &mockSettingsProvider{}, log)

			result := uc.Execute(context.Background(), RecordActivityCommand{ChannelName: "ticket-12", GuildID: "G1", AuthorID: "U1"})

			assert.True(t, result.Matched)
			assert.Equal(t, 12, result.TicketNumber)
			assert.Equal(t, tt.wantColumn, result.Column)
			assert.Equal(t, tt.wantCalls, repo.Calls())
			assert.Equal(t, tt.wantWarn, len(log.Warnings()) > 0)
		})
	}
}

func TestRecordActivityUseCase_StaffActivity(t *testing.T) {
	tk := newTestTicket(30, "G1", 12, vo.StatusOpen)
	lookup := func(ctx context.Context, guildID string, number int) (*ticket.Ticket, error) {
		return tk, nil
	}

	t.Run("inserts when no row exists", func(t *testing.T) {
		staff := &mockStaffActivityRepository{
			UpdateLastActivityFunc: func(ctx context.Context, ticketID uint, staffID string, at time.Time) (int64, error) {
				return 0, nil
			},
		}
		repo := &mockTicketRepository{GetByGuildAndNumberFunc: lookup}
		uc := NewRecordActivityUseCase(repo, staff, nil, &mockSettingsProvider{}, logger.NewNopLogger())

		result := uc.Execute(context.Background(), RecordActivityCommand{ChannelName: "ticket-12", GuildID: "G1", AuthorID: "S1", AuthorIsStaff: true})

		assert.True(t, result.StaffRecorded)
		require.Len(t, staff.created, 1)
		assert.Equal(t, uint(30), staff.created[0].TicketID())
		assert.Equal(t, "S1", staff.created[0].StaffID())
	})

	t.Run("updates existing row", func(t *testing.T) {
		staff := &mockStaffActivityRepository{}
		repo := &mockTicketRepository{GetByGuildAndNumberFunc: lookup}
		uc := NewRecordActivityUseCase(repo, staff, nil, &mockSettingsProvider{}, logger.NewNopLogger())

		result := uc.Execute(context.Background(), RecordActivityCommand{ChannelName: "ticket-12", GuildID: "G1", AuthorID: "S1", AuthorIsStaff: true})

		assert.True(t, result.StaffRecorded)
		assert.Equal(t, 1, staff.updates)
		assert.Empty(t, staff.created)
	})

	t.Run("lost insert race retries update", func(t *testing.T) {
		staff := &mockStaffActivityRepository{
			UpdateLastActivityFunc: func(ctx context.Context, ticketID uint, staffID string, at time.Time) (int64, error) {
				return 0, nil
			},
			CreateFunc: func(ctx context.Context, activity *ticket.StaffActivity) error {
				return stderrors.New("UNIQUE constraint failed: ticket_staff_activity.ticket_id, ticket_staff_activity.staff_id")
			},
		}
		repo := &mockTicketRepository{GetByGuildAndNumberFunc: lookup}
		uc := NewRecordActivityUseCase(repo, staff, nil, &mockSettingsProvider{}, logger.NewNopLogger())

		result := uc.Execute(context.Background(), RecordActivityCommand{ChannelName: "ticket-12", GuildID: "G1", AuthorID: "S1", AuthorIsStaff: true})

		assert.True(t, result.StaffRecorded)
		assert.Equal(t, 2, staff.updates)
	})

	t.Run("staff role from guild settings", func(t *testing.T) {
		staff := &mockStaffActivityRepository{}
		settings := &mockSettingsProvider{
			GetGuildSettingsFunc: func(ctx context.Context, guildID string) (*setting.GuildSettings, error) {
				s := setting.DefaultGuildSettings(guildID)
				roles := []string{"R-support"}
				require.NoError(t, s.Apply(setting.Patch{StaffRoleIDs: &roles}))
				return s, nil
			},
		}
		repo := &mockTicketRepository{GetByGuildAndNumberFunc: lookup}
		uc := NewRecordActivityUseCase(repo, staff, nil, settings, logger.NewNopLogger())

		result := uc.Execute(context.Background(), RecordActivityCommand{
			ChannelName:   "ticket-12",
			GuildID:       "G1",
			AuthorID:      "S2",
			AuthorRoleIDs: []string{"R-member", "R-support"},
		})

		assert.True(t, result.StaffRecorded)
		assert.Equal(t, 1, staff.updates)
	})

	t.Run("settings failure treats author as member", func(t *testing.T) {
		staff := &mockStaffActivityRepository{}
		settings := &mockSettingsProvider{
			GetGuildSettingsFunc: func(ctx context.Context, guildID string) (*setting.GuildSettings, error) {
				return nil, stderrors.New("database is locked")
			},
		}
		repo := &mockTicketRepository{GetByGuildAndNumberFunc: lookup}
		uc := NewRecordActivityUseCase(repo, staff, nil, settings, logger.NewNopLogger())

		result := uc.Execute(context.Background(), RecordActivityCommand{
			ChannelName:   "ticket-12",
			GuildID:       "G1",
			AuthorID:      "S2",
			AuthorRoleIDs: []string{"R-support"},
		})

		assert.False(t, result.StaffRecorded)
		assert.Zero(t, staff.updates)
		assert.NotContains(t, repo.Calls(), "GetByGuildAndNumber")
	})

	t.Run("staff write failure is swallowed", func(t *testing.T) {
		staff := &mockStaffActivityRepository{
			UpdateLastActivityFunc: func(ctx context.Context, ticketID uint, staffID string, at time.Time) (int64, error) {
				return 0, stderrors.New("no such table: ticket_staff_activity")
			},
		}
		repo := &mockTicketRepository{GetByGuildAndNumberFunc: lookup}
		log := newMockLogger()
		uc := NewRecordActivityUseCase(repo, staff, nil, &mockSettingsProvider{}, log)

		result := uc.Execute(context.Background(), RecordActivityCommand{ChannelName: "ticket-12", GuildID: "G1", AuthorID: "S1", AuthorIsStaff: true})

		assert.True(t, result.Matched)
		assert.Equal(t, ticket.ColumnLastActivityAt, result.Column)
		assert.False(t, result.StaffRecorded)
		assert.Len(t, log.Warnings(), 1)
	})
}

func TestRecordActivityUseCase_LogsMessageContent(t *testing.T) {
	tk := newTestTicket(30, "G1", 12, vo.StatusOpen)
	repo := &mockTicketRepository{
		GetByGuildAndNumberFunc: func(ctx context.Context, guildID string, number int) (*ticket.Ticket, error) {
			return tk, nil
		},
	}
	history := &mockMessageHistory{}
	uc := NewRecordActivityUseCase(repo, &mockStaffActivityRepository{}, history, &mockSettingsProvider{}, logger.NewNopLogger())
	sent := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

	result := uc.Execute(context.Background(), RecordActivityCommand{
		ChannelName: "ticket-12",
		GuildID:     "G1",
		AuthorID:    "U1",
		AuthorName:  "member",
		MessageID:   "M1",
		Content:     "my payment failed",
		Timestamp:   sent,
	})

	assert.True(t, result.MessageLogged)
	assert.False(t, result.StaffRecorded)
	require.Len(t, history.appended, 1)
	assert.Equal(t, "my payment failed", history.appended[0].Content)
	assert.Equal(t, sent, history.appended[0].Timestamp)
}

func TestRecordActivityUseCase_UnknownTicketStillTouches(t *testing.T) {
	repo := &mockTicketRepository{}
	history := &mockMessageHistory{}
	uc := NewRecordActivityUseCase(repo, &mockStaffActivityRepository{}, history, &mockSettingsProvider{}, logger.NewNopLogger())

	result := uc.Execute(context.Background(), RecordActivityCommand{ChannelName: "ticket-99", GuildID: "G1", AuthorID: "U1", Content: "hi"})

	assert.True(t, result.Matched)
	assert.Equal(t, []string{"TouchActivity:last_activity_at", "GetByGuildAndNumber"}, repo.Calls())
	assert.False(t, result.MessageLogged)
	assert.Empty(t, history.appended)
}
