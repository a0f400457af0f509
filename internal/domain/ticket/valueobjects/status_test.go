package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTicketStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TicketStatus
		wantErr bool
	}{
		{name: "open", input: "open", want: StatusOpen},
		{name: "closed", input: "closed", want: StatusClosed},
		{name: "deleted", input: "deleted", want: StatusDeleted},
		{name: "reopened is not a stored status", input: "reopened", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "wrong case", input: "OPEN", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTicketStatus(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid ticket status")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTicketStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from TicketStatus
		to   TicketStatus
		want bool
	}{
		{StatusOpen, StatusClosed, true},
		{StatusOpen, StatusDeleted, true},
		{StatusOpen, StatusOpen, false},
		{StatusClosed, StatusOpen, true},
		{StatusClosed, StatusDeleted, true},
		{StatusClosed, StatusClosed, false},
		{StatusDeleted, StatusOpen, false},
		{StatusDeleted, StatusClosed, false},
		{StatusDeleted, StatusDeleted, false},
		{TicketStatus("bogus"), StatusOpen, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}
