package goroutine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
	"github.com/guildkeeper/guildkeeper/internal/shared/metrics"
)

func TestBestEffort(t *testing.T) {
	log := logger.NewNopLogger()
	metrics.TakeFailureCount()

	ok := BestEffort(context.Background(), log, "noop", func(context.Context) error { return nil })
	assert.True(t, ok)
	assert.Equal(t, int64(0), metrics.TakeFailureCount())

	ok = BestEffort(context.Background(), log, "hourly_rollup", func(context.Context) error {
		return errors.New("no such table: hourly_activity")
	}, "guild_id", "G1")
	assert.False(t, ok)
	assert.Equal(t, int64(1), metrics.TakeFailureCount())
}

func TestBestEffort_RecoversPanic(t *testing.T) {
	log := logger.NewNopLogger()
	metrics.TakeFailureCount()

	assert.NotPanics(t, func() {
		ok := BestEffort(context.Background(), log, "publish", func(context.Context) error {
			panic("nil publisher")
		})
		assert.False(t, ok)
	})
	assert.Equal(t, int64(1), metrics.TakeFailureCount())
}

func TestSafeGo_RecoversPanic(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	SafeGo(logger.NewNopLogger(), "panicky", func() {
		defer wg.Done()
		panic("boom")
	})
	wg.Wait()
}
