package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opsboard/backend/internal/domain/shared"
)

// StockCountFilter contains filter options for querying stock counts
type StockCountFilter struct {
	shared.Filter
	SiteID      *uuid.UUID
	Status      *StockCountStatus
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedByID *uuid.UUID
}

// StockCountRepository defines persistence for the StockCount aggregate
type StockCountRepository interface {
	// FindByIDForCompany finds a stock count (with items) by ID within a company
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*StockCount, error)

	// FindByCountNumber finds a stock count by its number
	FindByCountNumber(ctx context.Context, companyID uuid.UUID, countNumber string) (*StockCount, error)

	// FindAllForCompany finds stock counts for a company matching the filter
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter StockCountFilter) ([]StockCount, error)

	// CountForCompany counts stock counts for a company matching the filter
	CountForCompany(ctx context.Context, companyID uuid.UUID, filter StockCountFilter) (int64, error)

	// SaveWithItems persists the aggregate header together with its items
	SaveWithItems(ctx context.Context, sc *StockCount) error

	// SaveItems persists only the item rows of the aggregate
	SaveItems(ctx context.Context, sc *StockCount) error

	// TransitionStatus persists the aggregate header with a conditional write
	// guarded by the expected current status ("update ... where id = ? and
	// status = ?"). A write matching zero rows means a concurrent transition
	// already moved the count and yields ConcurrentModificationError.
	TransitionStatus(ctx context.Context, sc *StockCount, expected StockCountStatus) error

	// GenerateCountNumber generates the next count number for the company
	GenerateCountNumber(ctx context.Context, companyID uuid.UUID) (string, error)
}

// StockItemRepository defines access to live stock records
type StockItemRepository interface {
	// FindByIDForCompany finds a stock item by ID within a company
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*StockItem, error)

	// FindBySite finds all stock items at a site
	FindBySite(ctx context.Context, companyID, siteID uuid.UUID) ([]StockItem, error)

	// FindByIDsForUpdate loads stock items by ID holding row-level write locks
	// for the remainder of the surrounding transaction
	FindByIDsForUpdate(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]StockItem, error)

	// SetQuantity sets the on-hand quantity of one stock item
	SetQuantity(ctx context.Context, companyID, id uuid.UUID, qty decimal.Decimal) error
}

// StockBatchRepository defines access to batch records
type StockBatchRepository interface {
	// FindByIDForCompany finds a batch by ID within a company
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*StockBatch, error)

	// FindByIDsForUpdate loads batches by ID holding row-level write locks
	// for the remainder of the surrounding transaction
	FindByIDsForUpdate(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]StockBatch, error)

	// FindByStockItem finds all batches of a stock item
	FindByStockItem(ctx context.Context, companyID, stockItemID uuid.UUID) ([]StockBatch, error)

	// Save persists a batch
	Save(ctx context.Context, batch *StockBatch) error
}

// VarianceRecordRepository defines append-only persistence of variance records
type VarianceRecordRepository interface {
	// SaveAll persists variance records; they are never updated afterwards
	SaveAll(ctx context.Context, records []VarianceRecord) error

	// FindByCount returns the variance records written for one count
	FindByCount(ctx context.Context, companyID, countID uuid.UUID) ([]VarianceRecord, error)
}

// MovementType classifies ledger entries
type MovementType string

// Movement types emitted by this engine
const (
	MovementTypeCountAdjustment MovementType = "count_adjustment"
)

// MovementLedger is the external stock-movement audit ledger. The engine
// writes one summary entry per finalized count; it never reads the ledger.
type MovementLedger interface {
	// RecordMovement appends one audit entry to the ledger
	RecordMovement(ctx context.Context, companyID uuid.UUID, movementType MovementType, refID uuid.UUID, delta decimal.Decimal, reason string, actorID uuid.UUID) error
}
