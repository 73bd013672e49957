package mqhandler

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	contractsmq "lifedrop/contracts/mq"
	"lifedrop/pkg/mq"
)

const notificationRecordedHandlerName = "notification_recorded_audit"

// NotificationRecordedHandler writes mirrored notifications to the audit log.
type NotificationRecordedHandler struct {
	dedup  Deduper
	logger *zap.Logger
}

func NewNotificationRecordedHandler(dedup Deduper, logger *zap.Logger) *NotificationRecordedHandler {
	return &NotificationRecordedHandler{dedup: dedup, logger: logger}
}

func (h *NotificationRecordedHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	var p contractsmq.NotificationRecordedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal notification recorded payload", zap.Error(err))
		return mq.Permanent(err)
	}

	if h.dedup != nil && p.ID != "" && !h.dedup.AcquireOnce(ctx, notificationRecordedHandlerName, p.ID) {
		return nil
	}

	h.logger.Info("Notification recorded",
		zap.String("notification_id", p.ID),
		zap.String("level", p.Level),
		zap.String("title", p.Title),
		zap.String("text", p.Text),
		zap.Time("timestamp", p.Timestamp),
	)
	return nil
}
