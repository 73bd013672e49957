package repository

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lifedrop/internal/model"
	"lifedrop/internal/storage"
)

type DonorStore = Store[model.Donor]

type ReceiverStore = Store[model.Receiver]

func NewDonorStore(gw *storage.Gateway, key string, logger *zap.Logger) *DonorStore {
	return NewStore[model.Donor](gw, key, logger)
}

func NewReceiverStore(gw *storage.Gateway, key string, logger *zap.Logger) *ReceiverStore {
	return NewStore[model.Receiver](gw, key, logger)
}

// DemoDonors returns the fixed demo set with fresh ids.
func DemoDonors() []model.Donor {
	return []model.Donor{
		{ID: uuid.NewString(), Name: "Arjun Verma", Blood: model.APos, Phone: "9876543210", Center: "City Blood Centre — Downtown", Verified: true},
		{ID: uuid.NewString(), Name: "Riya Sharma", Blood: model.OPos, Phone: "9123456789", Center: "Greenfield Medical", Verified: true},
		{ID: uuid.NewString(), Name: "Karan Singh", Blood: model.BNeg, Phone: "9988776655", Center: "Community Health Hub", Verified: true},
		{ID: uuid.NewString(), Name: "Deepika", Blood: model.ABPos, Phone: "9090909090", Center: "City Blood Centre — Downtown", Verified: false},
		{ID: uuid.NewString(), Name: "Mohit Kumar", Blood: model.ONeg, Phone: "8877665544", Center: "Greenfield Medical", Verified: true},
	}
}

// SeedDemoDonors fills an empty donor store with the demo set and persists
// it. It reports whether anything was seeded.
func SeedDemoDonors(ctx context.Context, s *DonorStore) bool {
	if s.Len() > 0 {
		return false
	}
	s.replace(ctx, DemoDonors())
	s.logger.Info("Seeded demo donors", zap.Int("count", s.Len()))
	return true
}
