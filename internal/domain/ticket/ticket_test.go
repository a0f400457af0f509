package ticket

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/guildkeeper/guildkeeper/internal/domain/ticket/valueobjects"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// reconstructedTicket builds a persisted-style ticket #42 in guild G1.
func reconstructedTicket(t *testing.T, status vo.TicketStatus) *Ticket {
	t.Helper()
	now := time.Now().UTC()
	tk, err := ReconstructTicket(
		7, "G1", "U1", 42,
		"Cannot verify",
		status,
		nil, "", "",
		now, now,
		nil, nil, nil, nil,
	)
	require.NoError(t, err)
	return tk
}

func savedTranscript(t *testing.T, ticketID uint) *Transcript {
	t.Helper()
	tr, err := NewTranscript(ticketID, []TranscriptMessage{{AuthorID: "U1", Content: "hello"}})
	require.NoError(t, err)
	return tr
}

// ---------------------------------------------------------------------------
// Constructor Tests
// ---------------------------------------------------------------------------

func TestNewTicket(t *testing.T) {
	tests := []struct {
		name    string
		guildID string
		userID  string
		subject string
		wantErr string
	}{
		{name: "valid", guildID: "G1", userID: "U1", subject: "Need help"},
		{name: "boundary subject length", guildID: "G1", userID: "U1", subject: strings.Repeat("a", 200)},
		{name: "missing guild", userID: "U1", subject: "x", wantErr: "guild ID is required"},
		{name: "missing user", guildID: "G1", subject: "x", wantErr: "user ID is required"},
		{name: "blank subject", guildID: "G1", userID: "U1", subject: "   ", wantErr: "subject is required"},
		{name: "subject too long", guildID: "G1", userID: "U1", subject: strings.Repeat("a", 201), wantErr: "maximum length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk, err := NewTicket(tt.guildID, tt.userID, tt.subject)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, vo.StatusOpen, tk.Status())
			assert.Zero(t, tk.ID())
			assert.Zero(t, tk.Number())
			assert.False(t, tk.CreatedAt().IsZero())
		})
	}
}

func TestReconstructTicket_RejectsInvalid(t *testing.T) {
	now := time.Now()
	_, err := ReconstructTicket(0, "G1", "U1", 1, "s", vo.StatusOpen, nil, "", "", now, now, nil, nil, nil, nil)
	assert.Error(t, err)
	_, err = ReconstructTicket(1, "G1", "U1", 0, "s", vo.StatusOpen, nil, "", "", now, now, nil, nil, nil, nil)
	assert.Error(t, err)
	_, err = ReconstructTicket(1, "G1", "U1", 1, "s", vo.TicketStatus("reopened"), nil, "", "", now, now, nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestTicket_SetNumber(t *testing.T) {
	tk, err := NewTicket("G1", "U1", "subject")
	require.NoError(t, err)

	require.NoError(t, tk.SetNumber(3))
	assert.Equal(t, "ticket-3", tk.ChannelName())
	assert.Error(t, tk.SetNumber(4))
}

// ---------------------------------------------------------------------------
// Lifecycle Tests
// ---------------------------------------------------------------------------

func TestTicket_CloseThenReopen(t *testing.T) {
	tk := reconstructedTicket(t, vo.StatusOpen)

	require.NoError(t, tk.Close("resolved by staff", "S1"))
	assert.Equal(t, vo.StatusClosed, tk.Status())
	require.NotNil(t, tk.ClosedAt())
	closedAt := *tk.ClosedAt()
	assert.Equal(t, "resolved by staff", tk.CloseReason())
	assert.Equal(t, "S1", tk.ClosedBy())

	require.NoError(t, tk.Reopen("customer had follow-up", "S1"))
	assert.Equal(t, vo.StatusOpen, tk.Status())
	require.NotNil(t, tk.ClosedAt(), "closed_at is kept on reopen")
	assert.Equal(t, closedAt, *tk.ClosedAt())
}

func TestTicket_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name   string
		status vo.TicketStatus
		action func(*Ticket) error
	}{
		{"close closed", vo.StatusClosed, func(tk *Ticket) error { return tk.Close("again please", "S1") }},
		{"close deleted", vo.StatusDeleted, func(tk *Ticket) error { return tk.Close("again please", "S1") }},
		{"reopen open", vo.StatusOpen, func(tk *Ticket) error { return tk.Reopen("why not", "S1") }},
		{"reopen deleted", vo.StatusDeleted, func(tk *Ticket) error { return tk.Reopen("why not", "S1") }},
		{"delete deleted", vo.StatusDeleted, func(tk *Ticket) error { return tk.MarkDeleted("cleanup", "S1", savedTranscript(t, 7)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := reconstructedTicket(t, tt.status)
			err := tt.action(tk)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTransition))
			assert.Equal(t, tt.status, tk.Status())
		})
	}
}

func TestTicket_MarkDeleted(t *testing.T) {
	t.Run("requires transcript", func(t *testing.T) {
		tk := reconstructedTicket(t, vo.StatusOpen)
		err := tk.MarkDeleted("spam", "S1", nil)
		assert.ErrorIs(t, err, ErrTranscriptRequired)
		assert.Equal(t, vo.StatusOpen, tk.Status())
	})

	t.Run("rejects another ticket's transcript", func(t *testing.T) {
		tk := reconstructedTicket(t, vo.StatusOpen)
		err := tk.MarkDeleted("spam", "S1", savedTranscript(t, 99))
		assert.ErrorIs(t, err, ErrTranscriptRequired)
	})

	t.Run("from open", func(t *testing.T) {
		tk := reconstructedTicket(t, vo.StatusOpen)
		require.NoError(t, tk.MarkDeleted("spam", "S1", savedTranscript(t, 7)))
		assert.Equal(t, vo.StatusDeleted, tk.Status())
		assert.NotNil(t, tk.DeletedAt())
		assert.Equal(t, "spam", tk.CloseReason())
	})

	t.Run("from closed keeps close reason", func(t *testing.T) {
		tk := reconstructedTicket(t, vo.StatusOpen)
		require.NoError(t, tk.Close("resolved", "S1"))
		require.NoError(t, tk.MarkDeleted("cleanup", "S2", savedTranscript(t, 7)))
		assert.Equal(t, "resolved", tk.CloseReason())
		assert.Equal(t, "S1", tk.ClosedBy())
	})
}

func TestTicket_Rate(t *testing.T) {
	open := reconstructedTicket(t, vo.StatusOpen)
	assert.ErrorIs(t, open.Rate(5), ErrInvalidTransition)

	closed := reconstructedTicket(t, vo.StatusClosed)
	assert.Error(t, closed.Rate(0))
	assert.Error(t, closed.Rate(6))
	require.NoError(t, closed.Rate(4))
	require.NotNil(t, closed.Rating())
	assert.Equal(t, 4, *closed.Rating())
}

// ---------------------------------------------------------------------------
// Channel name parsing
// ---------------------------------------------------------------------------

func TestParseChannelName(t *testing.T) {
	tests := []struct {
		name   string
		want   int
		wantOK bool
	}{
		{"ticket-42", 42, true},
		{"ticket-1", 1, true},
		{"ticket-0", 0, false},
		{"ticket-", 0, false},
		{"ticket-42-archived", 0, false},
		{"general", 0, false},
		{"Ticket-42", 0, false},
		{"my-ticket-42", 0, false},
		{"ticket-99999999999999999999999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseChannelName(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranscript_MessagesIsCopy(t *testing.T) {
	tr := savedTranscript(t, 7)
	msgs := tr.Messages()
	msgs[0].Content = "changed"
	assert.Equal(t, "hello", tr.Messages()[0].Content)
	assert.Equal(t, 1, tr.MessageCount())
}
