// Package outbox decouples event publication from the caller. Events are
// queued in memory and a background dispatcher publishes them to MQ with
// bounded retries, so a slow broker never stalls the event loop.
package outbox

import (
	"errors"
	"time"
)

var ErrQueueFull = errors.New("outbox queue is full")

// Event 表示一个待发布的事件
type Event struct {
	RoutingKey string
	Payload    any
	Attempts   int
	EnqueuedAt time.Time
}

// Publisher 由 mq.Publisher 实现
type Publisher interface {
	Publish(routingKey string, payload any) error
}
