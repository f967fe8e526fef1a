package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/opsboard/backend/internal/domain/inventory"
	"github.com/opsboard/backend/internal/infrastructure/persistence/models"
)

// GormVarianceRecordRepository implements VarianceRecordRepository using GORM.
// Records are insert-only.
type GormVarianceRecordRepository struct {
	db *gorm.DB
}

// NewGormVarianceRecordRepository creates a new GormVarianceRecordRepository
func NewGormVarianceRecordRepository(db *gorm.DB) *GormVarianceRecordRepository {
	return &GormVarianceRecordRepository{db: db}
}

// SaveAll persists variance records; they are never updated afterwards
func (r *GormVarianceRecordRepository) SaveAll(ctx context.Context, records []inventory.VarianceRecord) error {
	if len(records) == 0 {
		return nil
	}
	vrModels := make([]models.VarianceRecordModel, len(records))
	for i := range records {
		vrModels[i] = *models.VarianceRecordModelFromDomain(&records[i])
	}
	return r.db.WithContext(ctx).Create(&vrModels).Error
}

// FindByCount returns the variance records written for one count
func (r *GormVarianceRecordRepository) FindByCount(ctx context.Context, companyID, countID uuid.UUID) ([]inventory.VarianceRecord, error) {
	var vrModels []models.VarianceRecordModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND count_id = ?", companyID, countID).
		Order("created_at ASC").
		Find(&vrModels).Error; err != nil {
		return nil, err
	}
	records := make([]inventory.VarianceRecord, len(vrModels))
	for i, model := range vrModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}
