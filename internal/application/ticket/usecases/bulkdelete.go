package usecases

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	vo "github.com/guildkeeper/guildkeeper/internal/domain/ticket/valueobjects"
	"github.com/guildkeeper/guildkeeper/internal/shared/constants"
	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
	"github.com/guildkeeper/guildkeeper/internal/shared/metrics"
	"github.com/guildkeeper/guildkeeper/internal/shared/utils"
	"github.com/guildkeeper/guildkeeper/internal/shared/utils/setutil"
)

type BulkDeleteCommand struct {
	TicketIDs []uint
	Reason    string
	DeletedBy string
}

// BulkItemResult is the outcome for one requested id.
type BulkItemResult struct {
	TicketID uint   `json:"ticket_id"`
	Outcome  string `json:"outcome"`
	Error    string `json:"error,omitempty"`
}

const (
	BulkOutcomeDeleted        = "deleted"
	BulkOutcomeAlreadyDeleted = "already_deleted"
	BulkOutcomeFailed         = "failed"
)

type BulkDeleteResult struct {
	SuccessCount        int              `json:"success_count"`
	ErrorCount          int              `json:"error_count"`
	AlreadyDeletedCount int              `json:"already_deleted_count"`
	Success             bool             `json:"success"`
	Message             string           `json:"message"`
	Items               []BulkItemResult `json:"items"`
}

// BulkDeleteUseCase deletes a set of tickets one by one. Each item goes
// through the single-ticket delete, so every deletion still requires a saved
// transcript; failures are tallied, never rolled back collectively.
type BulkDeleteUseCase struct {
	ticketRepo  ticket.TicketRepository
	deleter     DeleteTicketExecutor
	concurrency int
	logger      logger.Interface
}

func NewBulkDeleteUseCase(
	ticketRepo ticket.TicketRepository,
	deleter DeleteTicketExecutor,
	concurrency int,
	logger logger.Interface,
) *BulkDeleteUseCase {
	if concurrency <= 0 {
		concurrency = constants.DefaultBulkDeleteConcurrency
	}
	return &BulkDeleteUseCase{
		ticketRepo:  ticketRepo,
		deleter:     deleter,
		concurrency: concurrency,
		logger:      logger,
	}
}

func (uc *BulkDeleteUseCase) Execute(ctx context.Context, cmd BulkDeleteCommand) (*BulkDeleteResult, error) {
	if len(cmd.TicketIDs) == 0 {
		return nil, errors.NewValidationError("at least one ticket ID is required")
	}
	ids := setutil.NewOrderedSet[uint]()
	lookup := make([]uint, 0, len(cmd.TicketIDs))
	for _, ticketID := range cmd.TicketIDs {
		if ids.Add(ticketID) && ticketID != 0 {
			lookup = append(lookup, ticketID)
		}
	}

	reason, err := utils.ValidateReason(cmd.Reason)
	if err != nil {
		return nil, err
	}

	requested := ids.ToSlice()
	statuses := map[uint]vo.TicketStatus{}
	if len(lookup) > 0 {
		statuses, err = uc.ticketRepo.GetStatuses(ctx, lookup)
		if err != nil {
			uc.logger.Errorw("failed to load ticket statuses", "count", len(lookup), "error", err)
			return nil, errors.NewInternalError("failed to load tickets").WithCause(err)
		}
	}

	var (
		mu      sync.Mutex
		items   = make([]BulkItemResult, 0, len(requested))
		pending []uint
	)
	for _, ticketID := range requested {
		if ticketID == 0 {
			items = append(items, BulkItemResult{TicketID: 0, Outcome: BulkOutcomeFailed, Error: "ticket ID is required"})
			continue
		}
		if status, ok := statuses[ticketID]; ok && status.IsDeleted() {
			items = append(items, BulkItemResult{TicketID: ticketID, Outcome: BulkOutcomeAlreadyDeleted})
			continue
		}
		pending = append(pending, ticketID)
	}

	var g errgroup.Group
	g.SetLimit(uc.concurrency)
	for _, ticketID := range pending {
		g.Go(func() error {
			item := BulkItemResult{TicketID: ticketID, Outcome: BulkOutcomeDeleted}
			if _, err := uc.deleter.Execute(ctx, DeleteTicketCommand{
				TicketID:  ticketID,
				Reason:    reason,
				DeletedBy: cmd.DeletedBy,
			}); err != nil {
				item.Outcome = BulkOutcomeFailed
				item.Error = err.Error()
				uc.logger.Warnw("bulk delete item failed", "ticket_id", ticketID, "error", err)
			}
			mu.Lock()
			items = append(items, item)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	order := make(map[uint]int, len(requested))
	for i, ticketID := range requested {
		order[ticketID] = i
	}
	sort.Slice(items, func(i, j int) bool {
		return order[items[i].TicketID] < order[items[j].TicketID]
	})

	result := &BulkDeleteResult{Items: items}
	for _, item := range items {
		switch item.Outcome {
		case BulkOutcomeDeleted:
			result.SuccessCount++
		case BulkOutcomeAlreadyDeleted:
			result.AlreadyDeletedCount++
		default:
			result.ErrorCount++
		}
		metrics.BulkItems.WithLabelValues(item.Outcome).Inc()
	}
	result.Success = result.ErrorCount == 0
	result.Message = bulkDeleteMessage(result)

	uc.logger.Infow("bulk delete finished",
		"requested", len(requested),
		"deleted", result.SuccessCount,
		"failed", result.ErrorCount,
		"already_deleted", result.AlreadyDeletedCount,
	)

	return result, nil
}

func bulkDeleteMessage(r *BulkDeleteResult) string {
	if r.ErrorCount > 0 {
		return fmt.Sprintf("Failed to delete %d ticket(s); %d deleted, %d already deleted",
			r.ErrorCount, r.SuccessCount, r.AlreadyDeletedCount)
	}
	return fmt.Sprintf("Deleted %d ticket(s), %d already deleted", r.SuccessCount, r.AlreadyDeletedCount)
}
