package usecases

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	vo "github.com/guildkeeper/guildkeeper/internal/domain/ticket/valueobjects"
	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

// fakeDeleter records which ids reached the single-ticket delete.
type fakeDeleter struct {
	mu       sync.Mutex
	failures map[uint]error
	seen     []uint
}

func (f *fakeDeleter) Execute(ctx context.Context, cmd DeleteTicketCommand) (*DeleteTicketResult, error) {
	f.mu.Lock()
	f.seen = append(f.seen, cmd.TicketID)
	f.mu.Unlock()
	if err := f.failures[cmd.TicketID]; err != nil {
		return nil, err
	}
	return &DeleteTicketResult{TicketID: cmd.TicketID, Status: "deleted"}, nil
}

func (f *fakeDeleter) Seen() []uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]uint(nil), f.seen...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func statusRepo(statuses map[uint]vo.TicketStatus) *mockTicketRepository {
	return &mockTicketRepository{
		GetStatusesFunc: func(ctx context.Context, ids []uint) (map[uint]vo.TicketStatus, error) {
			out := make(map[uint]vo.TicketStatus)
			for _, id := range ids {
				if s, ok := statuses[id]; ok {
					out[id] = s
				}
			}
			return out, nil
		},
	}
}

func TestBulkDeleteUseCase_SkipsAlreadyDeleted(t *testing.T) {
	repo := statusRepo(map[uint]vo.TicketStatus{1: vo.StatusOpen, 2: vo.StatusDeleted, 3: vo.StatusClosed})
	deleter := &fakeDeleter{}
	uc := NewBulkDeleteUseCase(repo, deleter, 2, logger.NewNopLogger())

	result, err := uc.Execute(context.Background(), BulkDeleteCommand{TicketIDs: []uint{1, 2, 3}, Reason: "cleanup after event"})

	require.NoError(t, err)
	assert.Equal(t, []uint{1, 3}, deleter.Seen())
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 0, result.ErrorCount)
	assert.Equal(t, 1, result.AlreadyDeletedCount)
	assert.True(t, result.Success)
	assert.Equal(t, "Deleted 2 ticket(s), 1 already deleted", result.Message)

	require.Len(t, result.Items, 3)
	assert.Equal(t, uint(1), result.Items[0].TicketID)
	assert.Equal(t, BulkOutcomeAlreadyDeleted, result.Items[1].Outcome)
	assert.Equal(t, uint(3), result.Items[2].TicketID)
}

func TestBulkDeleteUseCase_CountsAddUpToDistinctInput(t *testing.T) {
	repo := statusRepo(map[uint]vo.TicketStatus{
		1: vo.StatusOpen, 2: vo.StatusDeleted, 3: vo.StatusOpen, 4: vo.StatusDeleted,
	})
	deleter := &fakeDeleter{failures: map[uint]error{
		3: errors.NewTranscriptUnavailableError("transcript for ticket 3 could not be saved"),
		// 5 is unknown to the repository
		5: errors.NewNotFoundError("ticket 5 not found"),
	}}
	uc := NewBulkDeleteUseCase(repo, deleter, 0, logger.NewNopLogger())

	result, err := uc.Execute(context.Background(), BulkDeleteCommand{
		TicketIDs: []uint{1, 2, 2, 3, 4, 5, 1},
		Reason:    "cleanup after event",
	})

	require.NoError(t, err)
	assert.Equal(t, 5, result.SuccessCount+result.ErrorCount+result.AlreadyDeletedCount)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 2, result.ErrorCount)
	assert.Equal(t, 2, result.AlreadyDeletedCount)
	assert.Equal(t, []uint{1, 3, 5}, deleter.Seen())
	assert.False(t, result.Success)
	assert.Equal(t, "Failed to delete 2 ticket(s); 1 deleted, 2 already deleted", result.Message)
}

func TestBulkDeleteUseCase_Validation(t *testing.T) {
	tests := []struct {
		name string
		cmd  BulkDeleteCommand
	}{
		{name: "no ids", cmd: BulkDeleteCommand{Reason: "cleanup"}},
		{name: "short reason", cmd: BulkDeleteCommand{TicketIDs: []uint{1}, Reason: "ok"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTicketRepository{}
			deleter := &fakeDeleter{}
			uc := NewBulkDeleteUseCase(repo, deleter, 2, logger.NewNopLogger())

			_, err := uc.Execute(context.Background(), tt.cmd)

			assert.True(t, errors.IsValidationError(err))
			assert.Empty(t, repo.Calls())
			assert.Empty(t, deleter.Seen())
		})
	}
}

func TestBulkDeleteUseCase_ZeroIDsFail(t *testing.T) {
	var looked []uint
	repo := statusRepo(map[uint]vo.TicketStatus{1: vo.StatusClosed})
	lookup := repo.GetStatusesFunc
	repo.GetStatusesFunc = func(ctx context.Context, ids []uint) (map[uint]vo.TicketStatus, error) {
		looked = append(looked, ids...)
		return lookup(ctx, ids)
	}
	deleter := &fakeDeleter{}
	uc := NewBulkDeleteUseCase(repo, deleter, 2, logger.NewNopLogger())

	result, err := uc.Execute(context.Background(), BulkDeleteCommand{TicketIDs: []uint{0, 1}, Reason: "cleanup"})

	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount+result.ErrorCount+result.AlreadyDeletedCount)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
	assert.False(t, result.Success)
	assert.Equal(t, []uint{1}, looked)
	assert.Equal(t, []uint{1}, deleter.Seen())

	require.Len(t, result.Items, 2)
	assert.Equal(t, uint(0), result.Items[0].TicketID)
	assert.Equal(t, BulkOutcomeFailed, result.Items[0].Outcome)
	assert.Equal(t, "ticket ID is required", result.Items[0].Error)
}

func TestBulkDeleteUseCase_OnlyZeroIDs(t *testing.T) {
	repo := &mockTicketRepository{}
	deleter := &fakeDeleter{}
	uc := NewBulkDeleteUseCase(repo, deleter, 2, logger.NewNopLogger())

	result, err := uc.Execute(context.Background(), BulkDeleteCommand{TicketIDs: []uint{0, 0}, Reason: "cleanup"})

	require.NoError(t, err)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Empty(t, repo.Calls())
	assert.Empty(t, deleter.Seen())
}

func TestBulkDeleteUseCase_StatusLookupFailure(t *testing.T) {
	repo := &mockTicketRepository{
		GetStatusesFunc: func(ctx context.Context, ids []uint) (map[uint]vo.TicketStatus, error) {
			return nil, assert.AnError
		},
	}
	deleter := &fakeDeleter{}
	uc := NewBulkDeleteUseCase(repo, deleter, 2, logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), BulkDeleteCommand{TicketIDs: []uint{1, 2}, Reason: "cleanup"})

	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeInternal, errors.GetAppError(err).Type)
	assert.Empty(t, deleter.Seen())
}

func TestBulkDeleteUseCase_WithRealDeleteKeepsTranscriptRule(t *testing.T) {
	tickets := map[uint]vo.TicketStatus{1: vo.StatusClosed, 2: vo.StatusClosed}
	repo := statusRepo(tickets)
	repo.GetByIDFunc = func(ctx context.Context, id uint) (*ticket.Ticket, error) {
		return newTestTicket(id, "G1", int(id), tickets[id]), nil
	}
	transcripts := &mockTranscriptRepository{}
	deleter := NewDeleteTicketUseCase(repo, transcripts, &mockMessageHistory{}, nil, nil, logger.NewNopLogger())
	uc := NewBulkDeleteUseCase(repo, deleter, 1, logger.NewNopLogger())

	result, err := uc.Execute(context.Background(), BulkDeleteCommand{TicketIDs: []uint{1, 2}, Reason: "cleanup"})

	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Len(t, transcripts.saved, 2)
}
