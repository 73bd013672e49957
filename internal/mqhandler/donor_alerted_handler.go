package mqhandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	contractsmq "lifedrop/contracts/mq"
	"lifedrop/pkg/metrics"
	"lifedrop/pkg/mq"
)

const donorAlertedHandlerName = "donor_alerted_sms"

// SMSSender delivers a text message to a phone number.
type SMSSender interface {
	Send(ctx context.Context, phone, text string) error
}

// LogSMSSender only logs the message. No real SMS gateway is wired.
type LogSMSSender struct {
	Logger *zap.Logger
}

func (s LogSMSSender) Send(_ context.Context, phone, text string) error {
	s.Logger.Info("SMS sent", zap.String("phone", phone), zap.String("text", text))
	return nil
}

type DonorAlertedHandler struct {
	sender SMSSender
	dedup  Deduper
	logger *zap.Logger
}

func NewDonorAlertedHandler(sender SMSSender, dedup Deduper, logger *zap.Logger) *DonorAlertedHandler {
	return &DonorAlertedHandler{
		sender: sender,
		dedup:  dedup,
		logger: logger,
	}
}

// Handle -- 把紧急提醒以短信形式发给献血者
func (h *DonorAlertedHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	var p contractsmq.DonorAlertedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal donor alerted payload", zap.Error(err))
		return mq.Permanent(err)
	}
	if p.ReceiverID == "" || p.DonorID == "" || p.DonorPhone == "" {
		return mq.Permanent(errors.New("donor alerted payload missing receiver, donor or phone"))
	}

	if h.dedup != nil && !h.dedup.AcquireOnce(ctx, donorAlertedHandlerName, p.EventID()) {
		metrics.IncrementDonorAlert("duplicate")
		return nil
	}

	text := p.Message
	if text == "" {
		text = fmt.Sprintf("Emergency: %s blood needed at %s. Urgency: %s", p.Blood, p.Hospital, p.Urgency)
	}

	if err := h.sender.Send(ctx, p.DonorPhone, text); err != nil {
		h.logger.Error("Failed to deliver donor alert",
			zap.String("receiver_id", p.ReceiverID),
			zap.String("donor_id", p.DonorID),
			zap.Error(err),
		)
		metrics.IncrementDonorAlert("failed")
		return err
	}

	h.logger.Info("Donor alert delivered",
		zap.String("receiver_id", p.ReceiverID),
		zap.String("donor_id", p.DonorID),
		zap.String("donor", p.DonorName),
	)
	metrics.IncrementDonorAlert("delivered")
	return nil
}
