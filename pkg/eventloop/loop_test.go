package eventloop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startLoop(t *testing.T) (*Loop, context.CancelFunc) {
	t.Helper()
	l := New(zap.NewNop(), 8)
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	t.Cleanup(cancel)
	return l, cancel
}

func TestLoop_DoSerialisesConcurrentCallers(t *testing.T) {
	l, _ := startLoop(t)

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, l.Do(context.Background(), func() { counter++ }))
		}()
	}
	wg.Wait()

	var got int
	require.NoError(t, l.Do(context.Background(), func() { got = counter }))
	assert.Equal(t, 50, got)
}

func TestLoop_DoReportsPanic(t *testing.T) {
	l, _ := startLoop(t)

	err := l.Do(context.Background(), func() { panic("boom") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	require.NoError(t, l.Do(context.Background(), func() {}), "loop keeps running after a panic")
}

func TestLoop_AfterRunsOnLoop(t *testing.T) {
	l, _ := startLoop(t)

	fired := make(chan struct{})
	l.After(10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled callback never ran")
	}
}

func TestLoop_AfterCancel(t *testing.T) {
	l, _ := startLoop(t)

	fired := make(chan struct{}, 1)
	cancel := l.After(50*time.Millisecond, func() { fired <- struct{}{} })
	cancel()

	select {
	case <-fired:
		t.Fatal("cancelled callback ran")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestLoop_DoAfterStop(t *testing.T) {
	l, cancel := startLoop(t)
	cancel()
	<-l.done

	assert.ErrorIs(t, l.Do(context.Background(), func() {}), ErrStopped)
	assert.False(t, l.Post(func() {}))
}

func TestManual_FiresInDueOrder(t *testing.T) {
	m := NewManual()
	var order []string
	m.After(3*time.Second, func() { order = append(order, "c") })
	m.After(1*time.Second, func() { order = append(order, "a") })
	cancel := m.After(2*time.Second, func() { order = append(order, "cancelled") })
	m.After(2*time.Second, func() {
		order = append(order, "b")
		m.After(500*time.Millisecond, func() { order = append(order, "b2") })
	})
	cancel()

	m.Advance(2 * time.Second)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, 2, m.Pending())

	m.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "b2", "c"}, order)
	assert.Zero(t, m.Pending())
}

func TestLoop_DoCancelledWhileQueuedNeverRuns(t *testing.T) {
	l, _ := startLoop(t)

	release := make(chan struct{})
	require.True(t, l.Post(func() { <-release }))

	ctx, cancel := context.WithCancel(context.Background())
	ran := false
	errCh := make(chan error, 1)
	go func() { errCh <- l.Do(ctx, func() { ran = true }) }()

	require.Eventually(t, func() bool { return len(l.tasks) == 1 }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)

	close(release)
	var observed bool
	require.NoError(t, l.Do(context.Background(), func() { observed = ran }))
	assert.False(t, observed, "abandoned task must not run")
}

func TestLoop_DoWaitsForStartedTask(t *testing.T) {
	l, _ := startLoop(t)

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	proceed := make(chan struct{})
	done := false
	errCh := make(chan error, 1)
	go func() {
		errCh <- l.Do(ctx, func() {
			close(started)
			<-proceed
			done = true
		})
	}()

	<-started
	cancel()
	close(proceed)
	require.NoError(t, <-errCh, "a task that already started is reported as done")
	assert.True(t, done)
}
