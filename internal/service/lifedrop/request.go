package lifedrop

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lifedrop/internal/match"
	"lifedrop/internal/model"
	"lifedrop/pkg/metrics"
)

type RequestInput struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Blood     string `json:"blood"`
	Urgency   string `json:"urgency"`
	Hospital  string `json:"hospital"`
	Condition string `json:"condition"`
}

// RequestResult is what a successful submission hands back: the logged
// receiver and the donors it can take blood from right now.
type RequestResult struct {
	Receiver model.Receiver `json:"receiver"`
	Matches  []model.Donor  `json:"matches"`
}

// SubmitRequest validates, logs and matches a blood request. A critical
// request additionally records a critical notification.
func (s *Service) SubmitRequest(ctx context.Context, in RequestInput) (RequestResult, error) {
	// Draft -> Validated
	missing := requireFields(
		field{"name", in.Name},
		field{"phone", in.Phone},
		field{"blood", in.Blood},
		field{"urgency", in.Urgency},
		field{"hospital", in.Hospital},
	)
	if len(missing) > 0 {
		return RequestResult{}, &ValidationError{Message: "Please fill required fields.", Fields: missing}
	}
	blood, ok := model.ParseBloodType(in.Blood)
	if !ok {
		return RequestResult{}, &ValidationError{Message: "Unknown blood type: " + in.Blood, Fields: []string{"blood"}}
	}

	// Validated -> Logged
	r := model.Receiver{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Phone:     strings.TrimSpace(in.Phone),
		Blood:     blood,
		Urgency:   model.NormalizeUrgency(in.Urgency),
		Hospital:  strings.TrimSpace(in.Hospital),
		Condition: strings.TrimSpace(in.Condition),
		Created:   s.now().UnixMilli(),
	}
	s.receivers.Add(ctx, r)
	metrics.IncrementRequestSubmitted(r.Urgency.Tier())

	// Logged -> Matched
	matches := s.matchesFor(r.Blood)

	// Matched -> AlertSent; the critical alert goes out ahead of the log entry
	if r.Urgency.IsCritical() {
		s.notes.RecordCritical(ctx, "Critical request", fmt.Sprintf("Immediate help needed for %s at %s", r.Blood, r.Hospital))
	}
	s.notes.Record(ctx, "New request", fmt.Sprintf("%s needs %s (%s)", r.Name, r.Blood, r.Urgency))

	s.logger.Info("Blood request logged",
		zap.String("receiver_id", r.ID),
		zap.String("blood", r.Blood.String()),
		zap.String("urgency", string(r.Urgency)),
		zap.Int("matches", len(matches)),
	)
	return RequestResult{Receiver: r, Matches: matches}, nil
}

// LatestMatches matches the most recent request against current donors. ok
// is false when there are no requests.
func (s *Service) LatestMatches() (RequestResult, bool) {
	r, ok := s.receivers.Latest()
	if !ok {
		return RequestResult{Matches: []model.Donor{}}, false
	}
	return RequestResult{Receiver: r, Matches: s.matchesFor(r.Blood)}, true
}

// MatchesFor accepts raw user input; an unknown type yields no donors.
func (s *Service) MatchesFor(blood string) []model.Donor {
	t, _ := model.ParseBloodType(blood)
	return s.matchesFor(t)
}

func (s *Service) matchesFor(blood model.BloodType) []model.Donor {
	matches := match.MatchDonors(blood, s.donors.List())
	metrics.RecordMatchResult(blood.String(), len(matches))
	return matches
}
