package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/opsboard/backend/internal/domain/inventory"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/opsboard/backend/internal/infrastructure/persistence/models"
)

// GormStockItemRepository implements StockItemRepository using GORM
type GormStockItemRepository struct {
	db *gorm.DB
}

// NewGormStockItemRepository creates a new GormStockItemRepository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

// FindByIDForCompany finds a stock item by ID within a company
func (r *GormStockItemRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*inventory.StockItem, error) {
	var model models.StockItemModel
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

// FindBySite finds all stock items at a site
func (r *GormStockItemRepository) FindBySite(ctx context.Context, companyID, siteID uuid.UUID) ([]inventory.StockItem, error) {
	var siModels []models.StockItemModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND site_id = ?", companyID, siteID).
		Order("name ASC").
		Find(&siModels).Error; err != nil {
		return nil, err
	}
	items := make([]inventory.StockItem, len(siModels))
	for i, model := range siModels {
		items[i] = *model.ToDomain()
	}
	return items, nil
}

// FindByIDsForUpdate loads stock items by ID holding row-level write locks
// for the remainder of the surrounding transaction
func (r *GormStockItemRepository) FindByIDsForUpdate(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]inventory.StockItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var siModels []models.StockItemModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ? AND id IN ?", companyID, ids).
		Find(&siModels).Error; err != nil {
		return nil, err
	}
	items := make([]inventory.StockItem, len(siModels))
	for i, model := range siModels {
		items[i] = *model.ToDomain()
	}
	return items, nil
}

// SetQuantity sets the on-hand quantity of one stock item
func (r *GormStockItemRepository) SetQuantity(ctx context.Context, companyID, id uuid.UUID, qty decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&models.StockItemModel{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Update("quantity_on_hand", qty)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
