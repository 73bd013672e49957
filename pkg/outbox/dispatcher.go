package outbox

import (
	"context"
	"time"

	"go.uber.org/zap"

	"lifedrop/pkg/metrics"
)

// Dispatcher 负责从队列中读取事件并发布到 MQ
type Dispatcher struct {
	publisher  Publisher
	queue      chan Event
	logger     *zap.Logger
	maxRetries int
	retryDelay time.Duration
}

func NewDispatcher(publisher Publisher, queueSize int, logger *zap.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Dispatcher{
		publisher:  publisher,
		queue:      make(chan Event, queueSize),
		logger:     logger,
		maxRetries: 5,
		retryDelay: 500 * time.Millisecond,
	}
}

// WithMaxRetries 设置最大重试次数
func (d *Dispatcher) WithMaxRetries(maxRetries int) *Dispatcher {
	d.maxRetries = maxRetries
	return d
}

// WithRetryDelay 设置首次重试间隔，之后每次翻倍
func (d *Dispatcher) WithRetryDelay(delay time.Duration) *Dispatcher {
	d.retryDelay = delay
	return d
}

// Enqueue never blocks. It returns ErrQueueFull when the dispatcher is
// falling behind.
func (d *Dispatcher) Enqueue(routingKey string, payload any) error {
	select {
	case d.queue <- Event{RoutingKey: routingKey, Payload: payload, EnqueuedAt: time.Now()}:
		metrics.IncrementOutboxEvent(routingKey, "queued")
		return nil
	default:
		metrics.IncrementOutboxEvent(routingKey, "dropped")
		return ErrQueueFull
	}
}

// Start 阻塞运行直到 ctx 取消；取消后把队列里剩下的事件各尝试发布一次
func (d *Dispatcher) Start(ctx context.Context) {
	d.logger.Info("Starting outbox dispatcher",
		zap.Int("max_retries", d.maxRetries),
		zap.Duration("retry_delay", d.retryDelay),
		zap.Int("queue_size", cap(d.queue)),
	)

	for {
		select {
		case <-ctx.Done():
			d.drain()
			d.logger.Info("Outbox dispatcher stopped")
			return
		case ev := <-d.queue:
			d.deliver(ctx, ev)
		}
	}
}

func (d *Dispatcher) drain() {
	for {
		select {
		case ev := <-d.queue:
			if err := d.publisher.Publish(ev.RoutingKey, ev.Payload); err != nil {
				d.fail(ev, err)
				continue
			}
			metrics.IncrementOutboxEvent(ev.RoutingKey, "published")
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ev Event) {
	delay := d.retryDelay
	for {
		ev.Attempts++
		err := d.publisher.Publish(ev.RoutingKey, ev.Payload)
		if err == nil {
			metrics.IncrementOutboxEvent(ev.RoutingKey, "published")
			d.logger.Debug("Event published",
				zap.String("routing_key", ev.RoutingKey),
				zap.Int("attempts", ev.Attempts),
			)
			return
		}
		if ev.Attempts > d.maxRetries {
			d.fail(ev, err)
			return
		}

		d.logger.Warn("Publish failed, retrying",
			zap.String("routing_key", ev.RoutingKey),
			zap.Int("attempt", ev.Attempts),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			d.fail(ev, ctx.Err())
			return
		case <-time.After(delay):
		}
		delay *= 2
	}
}

func (d *Dispatcher) fail(ev Event, err error) {
	metrics.IncrementOutboxEvent(ev.RoutingKey, "failed")
	d.logger.Error("Event dropped after retries",
		zap.String("routing_key", ev.RoutingKey),
		zap.Int("attempts", ev.Attempts),
		zap.Duration("age", time.Since(ev.EnqueuedAt)),
		zap.Error(err),
	)
}
