package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"lifedrop/internal/model"
	"lifedrop/internal/storage"
	"lifedrop/pkg/eventloop"
)

const key = "lifedrop_notifications"

func newTestLog(t *testing.T) (*Log, *eventloop.Manual, *storage.MemoryKV) {
	t.Helper()
	sched := eventloop.NewManual()
	kv := storage.NewMemoryKV()
	l := NewLog(sched, storage.NewGateway(kv, zap.NewNop()), Options{Key: key}, zap.NewNop())
	return l, sched, kv
}

func titles(ns []model.Notification) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Title)
	}
	return out
}

func TestRecord_FeedAndDashboard(t *testing.T) {
	l, _, _ := newTestLog(t)
	ctx := context.Background()

	n := l.Record(ctx, "New request", "Asha needs B+ (urgent)")
	assert.Equal(t, model.LevelInfo, n.Level)
	assert.NotEmpty(t, n.ID)
	assert.False(t, n.Timestamp.IsZero())

	l.RecordCritical(ctx, "Critical request", "Immediate help needed for B+ at City")

	assert.Equal(t, []string{"Critical request", "New request"}, titles(l.Feed()))
	assert.Equal(t, []string{"Critical request", "New request"}, titles(l.Dashboard()))
	assert.Equal(t, model.LevelCritical, l.Feed()[0].Level)
}

func TestRecord_FeedCappedOldestEvicted(t *testing.T) {
	l, sched, _ := newTestLog(t)
	ctx := context.Background()

	for i := 1; i <= 7; i++ {
		l.Record(ctx, fmt.Sprintf("n%d", i), "")
	}

	assert.Equal(t, []string{"n7", "n6", "n5", "n4", "n3"}, titles(l.Feed()))
	assert.Len(t, l.Dashboard(), 7)
	assert.Equal(t, 5, sched.Pending(), "evicted entries drop their expiry timer")
}

func TestRecord_FeedExpiresAfterEightSeconds(t *testing.T) {
	l, sched, _ := newTestLog(t)
	ctx := context.Background()

	l.Record(ctx, "first", "")
	sched.Advance(5 * time.Second)
	l.Record(ctx, "second", "")

	sched.Advance(3*time.Second - time.Millisecond)
	assert.Equal(t, []string{"second", "first"}, titles(l.Feed()))

	sched.Advance(time.Millisecond)
	assert.Equal(t, []string{"second"}, titles(l.Feed()))

	sched.Advance(5 * time.Second)
	assert.Empty(t, l.Feed())
	assert.Len(t, l.Dashboard(), 2, "dashboard entries never expire")
}

func TestRecord_PersistsDashboard(t *testing.T) {
	l, _, kv := newTestLog(t)
	ctx := context.Background()

	l.Record(ctx, "Donors cleared", "All donor entries removed.")
	raw, err := kv.Get(ctx, key)
	require.NoError(t, err)

	var stored []model.Notification
	require.NoError(t, json.Unmarshal(raw, &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, "All donor entries removed.", stored[0].Text)

	restored := NewLog(eventloop.NewManual(), storage.NewGateway(kv, zap.NewNop()), Options{Key: key}, zap.NewNop())
	restored.Hydrate(ctx)
	assert.Equal(t, []string{"Donors cleared"}, titles(restored.Dashboard()))
	assert.Empty(t, restored.Feed())
}

func TestRecord_DeliversToSinks(t *testing.T) {
	l, _, _ := newTestLog(t)
	var got []string
	l.AddSink(SinkFunc(func(n model.Notification) { got = append(got, n.Title+": "+n.Text) }))

	l.Record(context.Background(), "Copied", "Phone 9876543210 copied to clipboard")
	assert.Equal(t, []string{"Copied: Phone 9876543210 copied to clipboard"}, got)
}

type brokenKV struct{ storage.KV }

func (brokenKV) Set(context.Context, string, []byte) error { return errors.New("disk full") }

func TestRecord_PersistFailureKeepsMemoryAndLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gw := storage.NewGateway(brokenKV{storage.NewMemoryKV()}, zap.NewNop())
	l := NewLog(eventloop.NewManual(), gw, Options{Key: key}, zap.New(core))

	l.Record(context.Background(), "New request", "Asha needs B+ (urgent)")

	assert.Len(t, l.Dashboard(), 1)
	assert.Len(t, l.Feed(), 1)
	entries := logs.FilterMessage("Dashboard kept in memory only").All()
	require.Len(t, entries, 1)
	assert.Equal(t, key, entries[0].ContextMap()["key"])
	assert.EqualValues(t, 1, entries[0].ContextMap()["count"])
}
