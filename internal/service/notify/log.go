// Package notify records human-readable events in two places: a short
// transient feed whose entries expire, and a dashboard log that keeps
// everything and is persisted.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lifedrop/internal/model"
	"lifedrop/internal/storage"
	"lifedrop/pkg/eventloop"
	"lifedrop/pkg/metrics"
)

const (
	DefaultFeedLimit = 5
	DefaultExpiry    = 8 * time.Second
)

// Sink receives every recorded notification. Deliver runs on the event loop
// and must not block.
type Sink interface {
	Deliver(n model.Notification)
}

type SinkFunc func(n model.Notification)

func (f SinkFunc) Deliver(n model.Notification) { f(n) }

type Options struct {
	Key       string
	FeedLimit int
	Expiry    time.Duration
}

// Log is owned by the event loop; none of its methods are safe for
// concurrent use.
type Log struct {
	sched  eventloop.Scheduler
	gw     *storage.Gateway
	opts   Options
	now    func() time.Time
	logger *zap.Logger

	feed      []model.Notification // oldest first
	expiries  map[string]func()
	dashboard []model.Notification // newest first
	sinks     []Sink
}

func NewLog(sched eventloop.Scheduler, gw *storage.Gateway, opts Options, logger *zap.Logger) *Log {
	if opts.FeedLimit <= 0 {
		opts.FeedLimit = DefaultFeedLimit
	}
	if opts.Expiry <= 0 {
		opts.Expiry = DefaultExpiry
	}
	return &Log{
		sched:     sched,
		gw:        gw,
		opts:      opts,
		now:       time.Now,
		logger:    logger,
		expiries:  make(map[string]func()),
		dashboard: make([]model.Notification, 0),
	}
}

func (l *Log) AddSink(s Sink) {
	l.sinks = append(l.sinks, s)
}

// Hydrate restores the dashboard log. The transient feed always starts empty.
func (l *Log) Hydrate(ctx context.Context) {
	l.dashboard = storage.Load[model.Notification](ctx, l.gw, l.opts.Key)
}

func (l *Log) Record(ctx context.Context, title, text string) model.Notification {
	return l.record(ctx, model.LevelInfo, title, text)
}

func (l *Log) RecordCritical(ctx context.Context, title, text string) model.Notification {
	return l.record(ctx, model.LevelCritical, title, text)
}

func (l *Log) record(ctx context.Context, level model.NotificationLevel, title, text string) model.Notification {
	n := model.Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Text:      text,
		Level:     level,
		Timestamp: l.now(),
	}

	l.feed = append(l.feed, n)
	for len(l.feed) > l.opts.FeedLimit {
		l.expire(l.feed[0].ID)
	}
	id := n.ID
	l.expiries[id] = l.sched.After(l.opts.Expiry, func() { l.expire(id) })

	l.dashboard = append([]model.Notification{n}, l.dashboard...)
	// gateway already logged it; 持久化失败只影响下次启动时的仪表盘
	if err := l.gw.Save(ctx, l.opts.Key, l.dashboard); err != nil {
		l.logger.Debug("Dashboard kept in memory only",
			zap.String("key", l.opts.Key),
			zap.Int("count", len(l.dashboard)),
		)
	}

	metrics.IncrementNotification(string(level))
	l.logger.Info("Notification recorded",
		zap.String("title", title),
		zap.String("text", text),
		zap.String("level", string(level)),
	)

	for _, s := range l.sinks {
		s.Deliver(n)
	}
	return n
}

func (l *Log) expire(id string) {
	if cancel, ok := l.expiries[id]; ok {
		cancel()
		delete(l.expiries, id)
	}
	for i, n := range l.feed {
		if n.ID == id {
			l.feed = append(l.feed[:i:i], l.feed[i+1:]...)
			return
		}
	}
}

// Feed returns the live entries, newest first.
func (l *Log) Feed() []model.Notification {
	out := make([]model.Notification, 0, len(l.feed))
	for i := len(l.feed) - 1; i >= 0; i-- {
		out = append(out, l.feed[i])
	}
	return out
}

// Dashboard returns every entry ever recorded, newest first.
func (l *Log) Dashboard() []model.Notification {
	out := make([]model.Notification, len(l.dashboard))
	copy(out, l.dashboard)
	return out
}

func (l *Log) Flush(ctx context.Context) error {
	return l.gw.Save(ctx, l.opts.Key, l.dashboard)
}
