package notify

import (
	"go.uber.org/zap"

	contractsmq "lifedrop/contracts/mq"
	"lifedrop/internal/model"
	"lifedrop/pkg/mq"
)

// Enqueuer queues an MQ event without blocking.
type Enqueuer interface {
	Enqueue(routingKey string, payload any) error
}

// MQMirror republishes every notification as a notification.recorded event.
type MQMirror struct {
	events Enqueuer
	logger *zap.Logger
}

func NewMQMirror(events Enqueuer, logger *zap.Logger) *MQMirror {
	return &MQMirror{events: events, logger: logger}
}

func (m *MQMirror) Deliver(n model.Notification) {
	payload := contractsmq.NotificationRecordedPayload{
		ID:        n.ID,
		Title:     n.Title,
		Text:      n.Text,
		Level:     string(n.Level),
		Timestamp: n.Timestamp,
	}
	if err := m.events.Enqueue(mq.RoutingKeyNotificationRecorded, payload); err != nil {
		m.logger.Warn("Failed to mirror notification", zap.String("notification_id", n.ID), zap.Error(err))
	}
}
