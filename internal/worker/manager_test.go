package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/random-spot/internal/worker"
)

// loopWorker blocks until stopped; stubborn workers ignore Stop
type loopWorker struct {
	*worker.BaseWorker
	stubborn bool
	started  chan struct{}
}

func newLoopWorker(name string, stubborn bool) *loopWorker {
	return &loopWorker{
		BaseWorker: worker.NewBaseWorker(name, "group", zap.NewNop()),
		stubborn:   stubborn,
		started:    make(chan struct{}),
	}
}

func (w *loopWorker) Start(ctx context.Context) error {
	close(w.started)
	if w.stubborn {
		time.Sleep(time.Second)
		return nil
	}
	for w.Sleep(ctx, 10*time.Millisecond) {
		w.RecordProcessed(1)
	}
	return nil
}

func TestWorkerManager(t *testing.T) {
	logger := zap.NewNop()

	t.Run("starts and stops registered workers", func(t *testing.T) {
		m := worker.NewWorkerManager(logger)
		a, b := newLoopWorker("a", false), newLoopWorker("b", false)
		m.Register(a)
		m.Register(b)

		require.NoError(t, m.Start(context.Background()))
		<-a.started
		<-b.started

		assert.Error(t, m.Start(context.Background()))

		require.NoError(t, m.Stop())
		assert.True(t, a.IsStopped())
		assert.True(t, b.IsStopped())
	})

	t.Run("no workers", func(t *testing.T) {
		m := worker.NewWorkerManager(logger)
		assert.Error(t, m.Start(context.Background()))
	})

	t.Run("shutdown timeout", func(t *testing.T) {
		m := worker.NewWorkerManager(logger, worker.WithShutdownTimeout(50*time.Millisecond))
		w := newLoopWorker("stubborn", true)
		m.Register(w)

		require.NoError(t, m.Start(context.Background()))
		<-w.started

		err := m.Stop()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timed out")
	})
}

func TestBaseWorker(t *testing.T) {
	w := worker.NewBaseWorker("base", "group", zap.NewNop())

	assert.Equal(t, "base", w.Name())
	assert.Equal(t, "group", w.ConsumerGroup())
	assert.NotEmpty(t, w.ConsumerName())

	w.RecordProcessed(3)
	w.RecordFailed(1)
	processed, failed := w.Counters()
	assert.Equal(t, int64(3), processed)
	assert.Equal(t, int64(1), failed)

	assert.True(t, w.Sleep(context.Background(), time.Millisecond))

	require.NoError(t, w.Stop())
	assert.False(t, w.Sleep(context.Background(), time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	other := worker.NewBaseWorker("other", "group", zap.NewNop())
	assert.False(t, other.Sleep(ctx, time.Hour))
}
