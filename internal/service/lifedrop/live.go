package lifedrop

import (
	"context"

	"go.uber.org/zap"

	"lifedrop/internal/model"
)

var liveUpdates = []string{
	"New donor added nearby",
	"Volunteer signed up",
	"Reminder: blood drive tomorrow",
	"Low stock: O+",
}

// SimulateLiveUpdate records one randomly picked demo event. The server calls
// it on a ticker.
func (s *Service) SimulateLiveUpdate(ctx context.Context) model.Notification {
	return s.notes.Record(ctx, "Live update", liveUpdates[s.pick(len(liveUpdates))])
}

func (s *Service) SimulateNotification(ctx context.Context) model.Notification {
	return s.notes.Record(ctx, "Simulated", "This is a simulated real-time notification")
}

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

const ContactAck = "Thanks — we will reply soon."

// SubmitContact validates the support form. Messages are only logged.
func (s *Service) SubmitContact(in ContactInput) (string, error) {
	missing := requireFields(
		field{"name", in.Name},
		field{"email", in.Email},
		field{"message", in.Message},
	)
	if len(missing) > 0 {
		return "", &ValidationError{Message: "Please complete all fields.", Fields: missing}
	}
	s.logger.Info("Support message received",
		zap.String("name", in.Name),
		zap.String("email", in.Email),
		zap.Int("length", len(in.Message)),
	)
	return ContactAck, nil
}
