package lifedrop

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lifedrop/internal/model"
	"lifedrop/pkg/metrics"
)

type DonorInput struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Blood  string `json:"blood"`
	Center string `json:"center"`
}

// RegisterDonor adds a new, unverified donor at the front of the collection.
func (s *Service) RegisterDonor(ctx context.Context, in DonorInput) (model.Donor, error) {
	missing := requireFields(
		field{"name", in.Name},
		field{"email", in.Email},
		field{"phone", in.Phone},
		field{"blood", in.Blood},
		field{"center", in.Center},
	)
	if len(missing) > 0 {
		return model.Donor{}, &ValidationError{Message: "Please fill all required fields.", Fields: missing}
	}
	blood, ok := model.ParseBloodType(in.Blood)
	if !ok {
		return model.Donor{}, &ValidationError{Message: "Unknown blood type: " + in.Blood, Fields: []string{"blood"}}
	}

	d := model.Donor{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Phone:    strings.TrimSpace(in.Phone),
		Blood:    blood,
		Center:   strings.TrimSpace(in.Center),
		Verified: false,
	}
	s.donors.Add(ctx, d)

	metrics.IncrementDonorRegistered()
	s.logger.Info("Donor registered",
		zap.String("donor_id", d.ID),
		zap.String("blood", d.Blood.String()),
	)
	return d, nil
}
