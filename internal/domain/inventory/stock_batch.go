package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opsboard/backend/internal/domain/shared"
)

// StockBatch is a tracked sub-quantity of a stock item with its own depletion
// state, used for food-safety traceability. Depleted is an explicit terminal
// flag: it implies a zero on-hand quantity, and it is only ever set as a
// direct consequence of a zero counted quantity on a finalized count.
type StockBatch struct {
	shared.BaseEntity
	CompanyID      uuid.UUID
	StockItemID    uuid.UUID
	BatchNumber    string
	QuantityOnHand decimal.Decimal
	IsDepleted     bool
	ProducedAt     *time.Time
	ExpiresAt      *time.Time
	DepletedAt     *time.Time
}

// NewStockBatch creates a new stock batch
func NewStockBatch(companyID, stockItemID uuid.UUID, batchNumber string, quantity decimal.Decimal, producedAt, expiresAt *time.Time) *StockBatch {
	return &StockBatch{
		BaseEntity:     shared.NewBaseEntity(),
		CompanyID:      companyID,
		StockItemID:    stockItemID,
		BatchNumber:    batchNumber,
		QuantityOnHand: quantity,
		IsDepleted:     false,
		ProducedAt:     producedAt,
		ExpiresAt:      expiresAt,
	}
}

// ApplyCount sets the batch quantity to the counted value. A count of zero or
// less depletes the batch; a positive recount resurrects a previously
// depleted batch.
func (b *StockBatch) ApplyCount(countedQty decimal.Decimal) {
	now := time.Now()
	if countedQty.LessThanOrEqual(decimal.Zero) {
		b.QuantityOnHand = decimal.Zero
		b.IsDepleted = true
		b.DepletedAt = &now
	} else {
		b.QuantityOnHand = countedQty
		b.IsDepleted = false
		b.DepletedAt = nil
	}
	b.UpdatedAt = now
}

// HasStock reports whether the batch still carries quantity
func (b *StockBatch) HasStock() bool {
	return !b.IsDepleted && b.QuantityOnHand.GreaterThan(decimal.Zero)
}

// IsExpired reports whether the batch has passed its expiry date
func (b *StockBatch) IsExpired() bool {
	if b.ExpiresAt == nil {
		return false
	}
	return b.ExpiresAt.Before(time.Now())
}
