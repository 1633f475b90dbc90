package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickerRunsImmediatelyAndRepeats(t *testing.T) {
	s := NewTickerScheduler(10*time.Millisecond, time.UTC)
	var runs atomic.Int32

	require.NoError(t, s.Start(context.Background(), func(time.Time) { runs.Add(1) }))
	require.NoError(t, s.Start(context.Background(), func(time.Time) { runs.Add(100) }))

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))

	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
	assert.Less(t, after, int32(100))
}

func TestStopWithoutStart(t *testing.T) {
	s := NewTickerScheduler(0, nil)
	assert.Equal(t, 24*time.Hour, s.interval)
	assert.NoError(t, s.Stop(context.Background()))
}
