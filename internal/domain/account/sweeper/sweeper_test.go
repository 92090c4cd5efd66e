package sweeper

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTarget struct {
	calls atomic.Int32
	err   error
}

func (c *countingTarget) SweepExpired(context.Context) (int64, error) {
	c.calls.Add(1)
	return 2, c.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSweeperRunsImmediatelyAndStops(t *testing.T) {
	target := &countingTarget{}
	s := New(target, "@every 1h", discardLogger())

	require.NoError(t, s.Start(context.Background()))
	// second start is a no-op
	require.NoError(t, s.Start(context.Background()))

	assert.Eventually(t, func() bool { return target.calls.Load() == 1 }, time.Second, 10*time.Millisecond)

	s.Stop()
	s.Stop()
}

// blockingTarget holds the first sweep until release is closed
type blockingTarget struct {
	started  chan struct{}
	release  chan struct{}
	finished atomic.Bool
}

func (b *blockingTarget) SweepExpired(context.Context) (int64, error) {
	b.started <- struct{}{}
	<-b.release
	b.finished.Store(true)
	return 0, nil
}

func TestStopWaitsForInitialSweep(t *testing.T) {
	target := &blockingTarget{started: make(chan struct{}, 1), release: make(chan struct{})}
	s := New(target, "@every 1h", discardLogger())

	require.NoError(t, s.Start(context.Background()))
	<-target.started

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while the initial sweep was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(target.release)

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after the sweep finished")
	}
	assert.True(t, target.finished.Load())
}

func TestSweeperRejectsBadSchedule(t *testing.T) {
	s := New(&countingTarget{}, "not a schedule", discardLogger())
	assert.Error(t, s.Start(context.Background()))
}

func TestSweepLogsFailure(t *testing.T) {
	target := &countingTarget{err: errors.New("db down")}
	s := New(target, "@every 1h", discardLogger())

	s.Sweep()
	assert.Equal(t, int32(1), target.calls.Load())
}
