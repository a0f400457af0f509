package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	vo "github.com/guildkeeper/guildkeeper/internal/domain/ticket/valueobjects"
	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
	"github.com/guildkeeper/guildkeeper/internal/shared/services/markdown"
)

// memoryTranscripts keeps the last saved transcript per ticket.
func memoryTranscripts() *mockTranscriptRepository {
	repo := &mockTranscriptRepository{}
	repo.GetByTicketIDFunc = func(ctx context.Context, ticketID uint) (*ticket.Transcript, error) {
		for i := len(repo.saved) - 1; i >= 0; i-- {
			if repo.saved[i].TicketID() == ticketID {
				return repo.saved[i], nil
			}
		}
		return nil, ticket.ErrTranscriptNotFound
	}
	return repo
}

func TestSaveThenGetTranscript(t *testing.T) {
	tickets := storedTicketRepo(newTestTicket(4, "G1", 4, vo.StatusOpen))
	transcripts := memoryTranscripts()
	messages := []ticket.TranscriptMessage{
		{ID: "M1", AuthorID: "U1", AuthorName: "member", Content: "hi", Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		{ID: "M2", AuthorID: "S1", AuthorName: "staff", Content: "hello", Attachments: []ticket.Attachment{{Name: "log.txt", URL: "https://cdn.example/log.txt", Size: 12}}},
	}

	saved, err := NewSaveTranscriptUseCase(tickets, transcripts, logger.NewNopLogger()).
		Execute(context.Background(), SaveTranscriptCommand{TicketID: 4, Messages: messages})
	require.NoError(t, err)
	assert.Equal(t, messages, saved.Messages)

	got, err := NewGetTranscriptUseCase(transcripts, logger.NewNopLogger()).Execute(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, messages, got.Messages)
}

func TestSaveTranscript_UnknownTicket(t *testing.T) {
	transcripts := memoryTranscripts()
	_, err := NewSaveTranscriptUseCase(&mockTicketRepository{}, transcripts, logger.NewNopLogger()).
		Execute(context.Background(), SaveTranscriptCommand{TicketID: 4})

	assert.True(t, errors.IsNotFoundError(err))
	assert.Empty(t, transcripts.saved)
}

func TestGetTranscript_NotFound(t *testing.T) {
	_, err := NewGetTranscriptUseCase(memoryTranscripts(), logger.NewNopLogger()).Execute(context.Background(), 4)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestRenderTranscriptUseCase(t *testing.T) {
	tickets := storedTicketRepo(newTestTicket(4, "G1", 4, vo.StatusClosed))
	transcripts := memoryTranscripts()
	tr, err := ticket.NewTranscript(4, []ticket.TranscriptMessage{
		{ID: "M1", AuthorID: "U1", AuthorName: "<b>member</b>", Content: "**urgent** <@123456789012345678> ||secret||", Timestamp: time.Now()},
		{ID: "M2", AuthorID: "S1", AuthorName: "staff", Content: "<script>alert(1)</script>ok", Timestamp: time.Now()},
	})
	require.NoError(t, err)
	require.NoError(t, transcripts.Save(context.Background(), tr))

	uc := NewRenderTranscriptUseCase(tickets, transcripts, markdown.NewMarkdownService(), logger.NewNopLogger())
	page, err := uc.Execute(context.Background(), 4)

	require.NoError(t, err)
	assert.Contains(t, page, "<title>ticket-4 transcript</title>")
	assert.Contains(t, page, "<strong>urgent</strong>")
	assert.Contains(t, page, `class="spoiler"`)
	assert.Contains(t, page, "&lt;b&gt;member&lt;/b&gt;")
	assert.NotContains(t, page, "<script>")
	assert.Contains(t, page, "2 message(s)")
}
