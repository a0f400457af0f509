package repository

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	"github.com/guildkeeper/guildkeeper/internal/shared/db"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

func TestTransactionManager_TranscriptAndTicketCommitTogether(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	tickets := NewTicketRepository(gdb, logger.NewNopLogger())
	transcripts := NewTranscriptRepository(gdb, logger.NewNopLogger())
	tm := db.NewTransactionManager(gdb)

	saveAndDelete := func(tk *ticket.Ticket, failAfter bool) error {
		return tm.RunInTransaction(ctx, func(ctx context.Context) error {
			transcript, err := ticket.NewTranscript(tk.ID(), []ticket.TranscriptMessage{{AuthorID: "U1", Content: "bye"}})
			if err != nil {
				return err
			}
			if err := transcripts.Save(ctx, transcript); err != nil {
				return err
			}
			if err := tk.MarkDeleted("cleanup old ticket", "S1", transcript); err != nil {
				return err
			}
			if err := tickets.Update(ctx, tk); err != nil {
				return err
			}
			if failAfter {
				return stderrors.New("aborted")
			}
			return nil
		})
	}

	t.Run("rollback discards both writes", func(t *testing.T) {
		tk := createTestTicket(t, tickets, "G1", "U1")

		require.Error(t, saveAndDelete(tk, true))

		_, err := transcripts.GetByTicketID(ctx, tk.ID())
		assert.ErrorIs(t, err, ticket.ErrTranscriptNotFound)
		stored, err := tickets.GetByID(ctx, tk.ID())
		require.NoError(t, err)
		assert.True(t, stored.Status().IsOpen())
	})

	t.Run("commit keeps both writes", func(t *testing.T) {
		tk := createTestTicket(t, tickets, "G1", "U2")

		require.NoError(t, saveAndDelete(tk, false))

		saved, err := transcripts.GetByTicketID(ctx, tk.ID())
		require.NoError(t, err)
		assert.Equal(t, 1, saved.MessageCount())
		stored, err := tickets.GetByID(ctx, tk.ID())
		require.NoError(t, err)
		assert.True(t, stored.Status().IsDeleted())
	})

	t.Run("nested call joins the outer transaction", func(t *testing.T) {
		var depth int
		err := tm.RunInTransaction(ctx, func(ctx context.Context) error {
			depth++
			return tm.RunInTransaction(ctx, func(ctx context.Context) error {
				depth++
				return nil
			})
		})
		require.NoError(t, err)
		assert.Equal(t, 2, depth)
	})
}
