package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/opsboard/backend/internal/domain/inventory"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/opsboard/backend/internal/infrastructure/persistence/models"
)

// GormStockCountRepository implements StockCountRepository using GORM
type GormStockCountRepository struct {
	db *gorm.DB
}

// NewGormStockCountRepository creates a new GormStockCountRepository
func NewGormStockCountRepository(db *gorm.DB) *GormStockCountRepository {
	return &GormStockCountRepository{db: db}
}

// FindByIDForCompany finds a stock count (with items) by ID within a company
func (r *GormStockCountRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*inventory.StockCount, error) {
	var model models.StockCountModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("company_id = ? AND id = ?", companyID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCountNumber finds a stock count by its number
func (r *GormStockCountRepository) FindByCountNumber(ctx context.Context, companyID uuid.UUID, countNumber string) (*inventory.StockCount, error) {
	var model models.StockCountModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("company_id = ? AND count_number = ?", companyID, countNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForCompany finds stock counts for a company matching the filter
func (r *GormStockCountRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter inventory.StockCountFilter) ([]inventory.StockCount, error) {
	var scModels []models.StockCountModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.StockCountModel{}).
			Where("company_id = ?", companyID),
		filter,
	)

	if err := query.Find(&scModels).Error; err != nil {
		return nil, err
	}
	counts := make([]inventory.StockCount, len(scModels))
	for i, model := range scModels {
		counts[i] = *model.ToDomain()
	}
	return counts, nil
}

// CountForCompany counts stock counts for a company matching the filter
func (r *GormStockCountRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter inventory.StockCountFilter) (int64, error) {
	var count int64
	query := r.applyConditions(
		r.db.WithContext(ctx).Model(&models.StockCountModel{}).
			Where("company_id = ?", companyID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SaveWithItems saves a stock count with its items in a transaction
func (r *GormStockCountRepository) SaveWithItems(ctx context.Context, sc *inventory.StockCount) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.StockCountModelFromDomain(sc)
		// Items are saved explicitly below
		items := model.Items
		model.Items = nil
		if err := tx.Save(model).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].CountID = sc.ID
			if err := tx.Save(&items[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// SaveItems persists only the item rows of the aggregate
func (r *GormStockCountRepository) SaveItems(ctx context.Context, sc *inventory.StockCount) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range sc.Items {
			itemModel := models.StockCountItemModelFromDomain(&sc.Items[i])
			itemModel.CountID = sc.ID
			if err := tx.Save(itemModel).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// TransitionStatus persists the aggregate header guarded by the expected
// current status. Zero affected rows means another writer moved the count
// first and yields ConcurrentModificationError.
func (r *GormStockCountRepository) TransitionStatus(ctx context.Context, sc *inventory.StockCount, expected inventory.StockCountStatus) error {
	result := r.db.WithContext(ctx).Model(&models.StockCountModel{}).
		Where("company_id = ? AND id = ? AND status = ?", sc.CompanyID, sc.ID, expected).
		Updates(map[string]interface{}{
			"status":               sc.Status,
			"items_counted":        sc.ItemsCounted,
			"variance_count":       sc.VarianceCount,
			"total_variance_value": sc.TotalVarianceValue,
			"approved_by":          sc.ApprovedBy,
			"approved_by_name":     sc.ApprovedByName,
			"approved_at":          sc.ApprovedAt,
			"finalized_by":         sc.FinalizedBy,
			"finalized_at":         sc.FinalizedAt,
			"locked_at":            sc.LockedAt,
			"version":              sc.Version,
			"updated_at":           sc.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &inventory.ConcurrentModificationError{
			CountID:   sc.ID,
			Attempted: sc.Status,
			Expected:  expected,
		}
	}
	return nil
}

// GenerateCountNumber generates a new unique count number.
// Format: SC-YYYYMMDD-XXXX
func (r *GormStockCountRepository) GenerateCountNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	today := time.Now().Format("20060102")
	prefix := fmt.Sprintf("SC-%s-", today)

	var maxNumber string
	err := r.db.WithContext(ctx).Model(&models.StockCountModel{}).
		Select("count_number").
		Where("company_id = ? AND count_number LIKE ?", companyID, prefix+"%").
		Order("count_number DESC").
		Limit(1).
		Pluck("count_number", &maxNumber).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var seq int
	if maxNumber != "" {
		parts := strings.Split(maxNumber, "-")
		if len(parts) >= 3 {
			_, err := fmt.Sscanf(parts[len(parts)-1], "%04d", &seq)
			if err == nil {
				seq++
			}
		}
	}
	if seq == 0 {
		seq = 1
	}

	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

// applyConditions applies filter conditions without pagination or ordering
func (r *GormStockCountRepository) applyConditions(query *gorm.DB, filter inventory.StockCountFilter) *gorm.DB {
	if filter.SiteID != nil {
		query = query.Where("site_id = ?", *filter.SiteID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.StartDate != nil {
		query = query.Where("count_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("count_date <= ?", *filter.EndDate)
	}
	if filter.CreatedByID != nil {
		query = query.Where("created_by_id = ?", *filter.CreatedByID)
	}
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(count_number) LIKE ? OR LOWER(site_name) LIKE ? OR LOWER(created_by_name) LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}
	return query
}

// applyFilter applies filter conditions plus ordering and pagination
func (r *GormStockCountRepository) applyFilter(query *gorm.DB, filter inventory.StockCountFilter) *gorm.DB {
	query = r.applyConditions(query, filter)

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	orderDir := filter.OrderDir
	if orderDir != "asc" {
		orderDir = "desc"
	}
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	return query
}
