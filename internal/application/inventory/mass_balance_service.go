package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/opsboard/backend/internal/domain/inventory"
	"github.com/opsboard/backend/internal/domain/shared"
)

// MassBalanceService is a read-only projection over the variance records
// reconciliation persisted. Recall and traceability reporting consume the
// produced/recovered/unaccounted figures; this engine only guarantees they
// are computable without gaps.
type MassBalanceService struct {
	varianceRepo inventory.VarianceRecordRepository
}

// NewMassBalanceService creates a new MassBalanceService
func NewMassBalanceService(varianceRepo inventory.VarianceRecordRepository) *MassBalanceService {
	return &MassBalanceService{varianceRepo: varianceRepo}
}

// GetMassBalance folds the variance records of a finalized count into the
// mass balance identity: produced = recovered + unaccounted.
func (s *MassBalanceService) GetMassBalance(ctx context.Context, companyID, countID uuid.UUID) (*inventory.MassBalance, error) {
	records, err := s.varianceRepo.FindByCount(ctx, companyID, countID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, shared.ErrNotFound
	}

	balance := inventory.MassBalanceFromRecords(records)
	return &balance, nil
}

// GetVarianceRecords returns the variance records persisted for a count
func (s *MassBalanceService) GetVarianceRecords(ctx context.Context, companyID, countID uuid.UUID) ([]VarianceRecordResponse, error) {
	records, err := s.varianceRepo.FindByCount(ctx, companyID, countID)
	if err != nil {
		return nil, err
	}
	return ToVarianceRecordResponses(records), nil
}
