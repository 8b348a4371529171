package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/bizboard/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_RunsImmediatelyAndRepeats(t *testing.T) {
	s, err := NewScope(context.Background(), logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })

	var runs atomic.Int32
	require.NoError(t, s.Every("tick", 20*time.Millisecond, true, func(context.Context) {
		runs.Add(1)
	}))
	s.Start()

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
}

func TestScope_NoRunsAfterStop(t *testing.T) {
	s, err := NewScope(context.Background(), logging.Discard())
	require.NoError(t, err)

	var runs atomic.Int32
	require.NoError(t, s.Every("tick", 10*time.Millisecond, true, func(context.Context) {
		runs.Add(1)
	}))
	s.Start()
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
	assert.Error(t, s.Context().Err())

	after := runs.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestScope_TaskSeesCancellation(t *testing.T) {
	s, err := NewScope(context.Background(), logging.Discard())
	require.NoError(t, err)

	started := make(chan struct{})
	var sawCancel atomic.Bool
	require.NoError(t, s.Every("long", time.Hour, true, func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		sawCancel.Store(true)
	}))
	s.Start()

	<-started
	require.NoError(t, s.Stop())
	assert.True(t, sawCancel.Load())
}

func TestScope_StopsWithParent(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	s, err := NewScope(parent, logging.Discard())
	require.NoError(t, err)
	s.Start()

	cancel()
	require.Eventually(t, func() bool { return s.Context().Err() != nil }, time.Second, 5*time.Millisecond)
}

func TestScope_RejectsNonPositiveInterval(t *testing.T) {
	s, err := NewScope(context.Background(), logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })

	require.Error(t, s.Every("bad", 0, false, func(context.Context) {}))
}
