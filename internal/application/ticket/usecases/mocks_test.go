package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/guildkeeper/guildkeeper/internal/domain/setting"
	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	vo "github.com/guildkeeper/guildkeeper/internal/domain/ticket/valueobjects"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

// mockTicketRepository is a mock implementation of ticket.TicketRepository
type mockTicketRepository struct {
	mu sync.Mutex

	CreateFunc              func(ctx context.Context, t *ticket.Ticket) error
	UpdateFunc              func(ctx context.Context, t *ticket.Ticket) error
	GetByIDFunc             func(ctx context.Context, id uint) (*ticket.Ticket, error)
	GetByGuildAndNumberFunc func(ctx context.Context, guildID string, number int) (*ticket.Ticket, error)
	GetStatusesFunc         func(ctx context.Context, ids []uint) (map[uint]vo.TicketStatus, error)
	ListFunc                func(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error)
	CountOpenByUserFunc     func(ctx context.Context, guildID, userID string) (int64, error)
	TouchActivityFunc       func(ctx context.Context, guildID string, number int, column string, at time.Time) (int64, error)

	calls []string
}

func (m *mockTicketRepository) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockTicketRepository) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *mockTicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	m.record("Create")
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	return nil
}

func (m *mockTicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	m.record("Update")
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	return nil
}

func (m *mockTicketRepository) GetByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	m.record("GetByID")
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ticket.ErrTicketNotFound
}

func (m *mockTicketRepository) GetByGuildAndNumber(ctx context.Context, guildID string, number int) (*ticket.Ticket, error) {
	m.record("GetByGuildAndNumber")
	if m.GetByGuildAndNumberFunc != nil {
		return m.GetByGuildAndNumberFunc(ctx, guildID, number)
	}
	return nil, ticket.ErrTicketNotFound
}

func (m *mockTicketRepository) GetStatuses(ctx context.Context, ids []uint) (map[uint]vo.TicketStatus, error) {
	m.record("GetStatuses")
	if m.GetStatusesFunc != nil {
		return m.GetStatusesFunc(ctx, ids)
	}
	return map[uint]vo.TicketStatus{}, nil
}

func (m *mockTicketRepository) List(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	m.record("List")
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockTicketRepository) CountOpenByUser(ctx context.Context, guildID, userID string) (int64, error) {
	m.record("CountOpenByUser")
	if m.CountOpenByUserFunc != nil {
		return m.CountOpenByUserFunc(ctx, guildID, userID)
	}
	return 0, nil
}

func (m *mockTicketRepository) TouchActivity(ctx context.Context, guildID string, number int, column string, at time.Time) (int64, error) {
	m.record("TouchActivity:" + column)
	if m.TouchActivityFunc != nil {
		return m.TouchActivityFunc(ctx, guildID, number, column, at)
	}
	return 1, nil
}

type mockTranscriptRepository struct {
	SaveFunc          func(ctx context.Context, transcript *ticket.Transcript) error
	GetByTicketIDFunc func(ctx context.Context, ticketID uint) (*ticket.Transcript, error)

	saved []*ticket.Transcript
}

func (m *mockTranscriptRepository) Save(ctx context.Context, transcript *ticket.Transcript) error {
	if m.SaveFunc != nil {
		if err := m.SaveFunc(ctx, transcript); err != nil {
			return err
		}
	}
	m.saved = append(m.saved, transcript)
	return nil
}

func (m *mockTranscriptRepository) GetByTicketID(ctx context.Context, ticketID uint) (*ticket.Transcript, error) {
	if m.GetByTicketIDFunc != nil {
		return m.GetByTicketIDFunc(ctx, ticketID)
	}
	return nil, ticket.ErrTranscriptNotFound
}

type mockStaffActivityRepository struct {
	UpdateLastActivityFunc func(ctx context.Context, ticketID uint, staffID string, at time.Time) (int64, error)
	CreateFunc             func(ctx context.Context, activity *ticket.StaffActivity) error
	ListByTicketFunc       func(ctx context.Context, ticketID uint) ([]*ticket.StaffActivity, error)

	updates int
	created []*ticket.StaffActivity
}

func (m *mockStaffActivityRepository) UpdateLastActivity(ctx context.Context, ticketID uint, staffID string, at time.Time) (int64, error) {
	m.updates++
	if m.UpdateLastActivityFunc != nil {
		return m.UpdateLastActivityFunc(ctx, ticketID, staffID, at)
	}
	return 1, nil
}

func (m *mockStaffActivityRepository) Create(ctx context.Context, activity *ticket.StaffActivity) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, activity); err != nil {
			return err
		}
	}
	m.created = append(m.created, activity)
	return nil
}

func (m *mockStaffActivityRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.StaffActivity, error) {
	if m.ListByTicketFunc != nil {
		return m.ListByTicketFunc(ctx, ticketID)
	}
	return m.created, nil
}

type mockMessageHistory struct {
	mu sync.Mutex

	AppendFunc func(ctx context.Context, ticketID uint, msg ticket.TranscriptMessage) error
	FetchFunc  func(ctx context.Context, ticketID uint) ([]ticket.TranscriptMessage, error)
	ClearFunc  func(ctx context.Context, ticketID uint) error

	appended []ticket.TranscriptMessage
	cleared  []uint
}

func (m *mockMessageHistory) Append(ctx context.Context, ticketID uint, msg ticket.TranscriptMessage) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, ticketID, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appended = append(m.appended, msg)
	return nil
}

func (m *mockMessageHistory) Fetch(ctx context.Context, ticketID uint) ([]ticket.TranscriptMessage, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, ticketID)
	}
	return []ticket.TranscriptMessage{{AuthorID: "U1", AuthorName: "member", Content: "hello", Timestamp: time.Now()}}, nil
}

func (m *mockMessageHistory) Clear(ctx context.Context, ticketID uint) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx, ticketID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared = append(m.cleared, ticketID)
	return nil
}

func (m *mockMessageHistory) Cleared() []uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]uint, len(m.cleared))
	copy(out, m.cleared)
	return out
}

// mockTransactionRunner runs fn inline and records its outcome.
type mockTransactionRunner struct {
	runs    int
	lastErr error
}

func (m *mockTransactionRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.runs++
	m.lastErr = fn(ctx)
	return m.lastErr
}

type mockEventPublisher struct {
	mu     sync.Mutex
	err    error
	events []ticket.LifecycleEvent
}

func (m *mockEventPublisher) PublishLifecycle(ctx context.Context, event ticket.LifecycleEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventPublisher) Actions() []ticket.LifecycleAction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ticket.LifecycleAction, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Action)
	}
	return out
}

type mockSettingsProvider struct {
	GetGuildSettingsFunc func(ctx context.Context, guildID string) (*setting.GuildSettings, error)
}

func (m *mockSettingsProvider) GetGuildSettings(ctx context.Context, guildID string) (*setting.GuildSettings, error) {
	if m.GetGuildSettingsFunc != nil {
		return m.GetGuildSettingsFunc(ctx, guildID)
	}
	return setting.DefaultGuildSettings(guildID), nil
}

// mockLogger is a mock implementation of logger.Interface
type mockLogger struct {
	mu    sync.Mutex
	warns []string
}

func newMockLogger() *mockLogger {
	return &mockLogger{}
}

func (m *mockLogger) Debug(msg string, args ...any) {}
func (m *mockLogger) Info(msg string, args ...any) {}
func (m *mockLogger) Warn(msg string, args ...any) { m.addWarn(msg) }
func (m *mockLogger) Error(msg string, args ...any) {}
func (m *mockLogger) With(args ...any) logger.Interface { return m }
func (m *mockLogger) Named(name string) logger.Interface { return m }
func (m *mockLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Infow(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Warnw(msg string, keysAndValues ...interface{}) { m.addWarn(msg) }
func (m *mockLogger) Errorw(msg string, keysAndValues ...interface{}) {}

func (m *mockLogger) addWarn(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns = append(m.warns, msg)
}

func (m *mockLogger) Warnings() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.warns))
	copy(out, m.warns)
	return out
}

// newTestTicket builds a persisted-looking ticket in the given status.
func newTestTicket(id uint, guildID string, number int, status vo.TicketStatus) *ticket.Ticket {
	now := time.Now().UTC().Add(-time.Hour)
	t, err := ticket.ReconstructTicket(
		id, guildID, "U1", number, "billing question", status,
		nil, "", "", now, now, nil, nil, nil, nil,
	)
	if err != nil {
		panic(err)
	}
	return t
}
