package lifedrop

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	contractsmq "lifedrop/contracts/mq"
	"lifedrop/internal/model"
	"lifedrop/pkg/metrics"
	"lifedrop/pkg/mq"
)

type EmergencyResult struct {
	Receiver *model.Receiver `json:"receiver,omitempty"`
	Notified []model.Donor   `json:"notified"`
}

// SendEmergency alerts every donor compatible with the most recent request.
// It records one notification per donor, queues a donor.alerted event per
// donor when MQ is enabled and opens a chat with the first donor. The empty
// cases are reported through the notification log, not as errors.
func (s *Service) SendEmergency(ctx context.Context) EmergencyResult {
	r, ok := s.receivers.Latest()
	if !ok {
		s.notes.Record(ctx, "Emergency failed", "No active requests to send.")
		return EmergencyResult{Notified: []model.Donor{}}
	}

	matches := s.matchesFor(r.Blood)
	if len(matches) == 0 {
		s.notes.Record(ctx, "Emergency", fmt.Sprintf("No donors to notify for %s", r.Blood))
		return EmergencyResult{Receiver: &r, Notified: matches}
	}

	opener := fmt.Sprintf("Emergency: %s needs %s at %s. Urgency: %s", r.Name, r.Blood, r.Hospital, r.Urgency)
	for i, d := range matches {
		s.notes.RecordCritical(ctx, "Emergency Alert", fmt.Sprintf("Notified %s (%s) about %s at %s", d.Name, d.Blood, r.Name, r.Hospital))
		s.publishAlert(r, d, opener)
		if i == 0 {
			s.chat.Open(d, opener)
		}
	}
	return EmergencyResult{Receiver: &r, Notified: matches}
}

func (s *Service) publishAlert(r model.Receiver, d model.Donor, message string) {
	if s.events == nil {
		return
	}
	payload := contractsmq.DonorAlertedPayload{
		ReceiverID: r.ID,
		DonorID:    d.ID,
		DonorName:  d.Name,
		DonorPhone: d.Phone,
		Blood:      r.Blood.String(),
		Hospital:   r.Hospital,
		Urgency:    string(r.Urgency),
		Message:    message,
		AlertedAt:  s.now(),
	}
	if err := s.events.Enqueue(mq.RoutingKeyDonorAlerted, payload); err != nil {
		metrics.IncrementDonorAlert("failed")
		s.logger.Warn("Failed to queue donor alert",
			zap.String("receiver_id", r.ID),
			zap.String("donor_id", d.ID),
			zap.Error(err),
		)
		return
	}
	metrics.IncrementDonorAlert("published")
}
