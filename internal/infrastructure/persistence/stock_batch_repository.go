package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/opsboard/backend/internal/domain/inventory"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/opsboard/backend/internal/infrastructure/persistence/models"
)

// GormStockBatchRepository implements StockBatchRepository using GORM
type GormStockBatchRepository struct {
	db *gorm.DB
}

// NewGormStockBatchRepository creates a new GormStockBatchRepository
func NewGormStockBatchRepository(db *gorm.DB) *GormStockBatchRepository {
	return &GormStockBatchRepository{db: db}
}

// FindByIDForCompany finds a batch by ID within a company
func (r *GormStockBatchRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*inventory.StockBatch, error) {
	var model models.StockBatchModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDsForUpdate loads batches by ID holding row-level write locks
// for the remainder of the surrounding transaction
func (r *GormStockBatchRepository) FindByIDsForUpdate(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]inventory.StockBatch, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var sbModels []models.StockBatchModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ? AND id IN ?", companyID, ids).
		Find(&sbModels).Error; err != nil {
		return nil, err
	}
	batches := make([]inventory.StockBatch, len(sbModels))
	for i, model := range sbModels {
		batches[i] = *model.ToDomain()
	}
	return batches, nil
}

// FindByStockItem finds all batches of a stock item
func (r *GormStockBatchRepository) FindByStockItem(ctx context.Context, companyID, stockItemID uuid.UUID) ([]inventory.StockBatch, error) {
	var sbModels []models.StockBatchModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND stock_item_id = ?", companyID, stockItemID).
		Order("created_at ASC").
		Find(&sbModels).Error; err != nil {
		return nil, err
	}
	batches := make([]inventory.StockBatch, len(sbModels))
	for i, model := range sbModels {
		batches[i] = *model.ToDomain()
	}
	return batches, nil
}

// Save persists a batch
func (r *GormStockBatchRepository) Save(ctx context.Context, batch *inventory.StockBatch) error {
	model := models.StockBatchModelFromDomain(batch)
	return r.db.WithContext(ctx).Save(model).Error
}
