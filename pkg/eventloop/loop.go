// Package eventloop runs every state mutation of the process on one goroutine.
//
// HTTP handlers, timers and tickers never touch domain state directly: they
// hand a closure to the loop and the loop executes closures one at a time in
// arrival order. Domain packages depend only on the Scheduler interface.
package eventloop

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var ErrStopped = errors.New("event loop stopped")

// Scheduler schedules one-shot callbacks. The returned func cancels a callback
// that has not fired yet.
type Scheduler interface {
	After(d time.Duration, fn func()) (cancel func())
}

type Loop struct {
	tasks  chan func()
	done   chan struct{}
	logger *zap.Logger
}

func New(logger *zap.Logger, queueSize int) *Loop {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Loop{
		tasks:  make(chan func(), queueSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Run executes queued tasks until ctx is cancelled. Tasks still queued at that
// point are dropped.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	l.logger.Info("Event loop started")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Event loop stopped", zap.Int("dropped_tasks", len(l.tasks)))
			return
		case fn := <-l.tasks:
			l.exec(fn)
		}
	}
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("Event loop task panic recovered", zap.Any("panic", r))
		}
	}()
	fn()
}

// Do runs fn on the loop and waits for it to finish. Calling Do from inside a
// loop task deadlocks.
//
// When ctx ends first, Do reports ctx.Err() only if fn is guaranteed never to
// run; once fn has started, Do waits for it and returns nil.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	const (
		pending int32 = iota
		running
		abandoned
	)
	var state atomic.Int32
	finished := make(chan struct{})
	var panicked any
	task := func() {
		if !state.CompareAndSwap(pending, running) {
			return
		}
		defer func() {
			panicked = recover()
			close(finished)
		}()
		fn()
	}

	select {
	case <-l.done:
		return ErrStopped
	default:
	}

	select {
	case l.tasks <- task:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	}

	select {
	case <-finished:
	case <-ctx.Done():
		if state.CompareAndSwap(pending, abandoned) {
			return ctx.Err()
		}
		<-finished
	case <-l.done:
		if state.CompareAndSwap(pending, abandoned) {
			return ErrStopped
		}
		<-finished
	}
	if panicked != nil {
		return fmt.Errorf("event loop task panicked: %v", panicked)
	}
	return nil
}

// Post enqueues fn without waiting for it. It reports false once the loop has
// stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// After runs fn on the loop once d has elapsed.
func (l *Loop) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, func() { l.Post(fn) })
	return func() { t.Stop() }
}

// Every runs fn on the loop every d until ctx is cancelled.
func (l *Loop) Every(ctx context.Context, d time.Duration, fn func()) {
	go func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-l.done:
				return
			case <-ticker.C:
				if !l.Post(fn) {
					return
				}
			}
		}
	}()
}
