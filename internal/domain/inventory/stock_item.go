package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opsboard/backend/internal/domain/shared"
)

// StockItem is the live stock record for one product at one site. Outside of
// reconciliation it is freely mutated by other collaborators (receiving,
// wastage, sales deduction); during reconciliation this engine takes exclusive
// write access to the rows it touches.
type StockItem struct {
	shared.BaseEntity
	CompanyID      uuid.UUID
	SiteID         uuid.UUID
	Name           string
	Code           string
	Unit           string
	QuantityOnHand decimal.Decimal
	UnitCost       decimal.Decimal
	BatchTracked   bool
}

// NewStockItem creates a new live stock record
func NewStockItem(companyID, siteID uuid.UUID, name, code, unit string, quantity, unitCost decimal.Decimal, batchTracked bool) *StockItem {
	return &StockItem{
		BaseEntity:     shared.NewBaseEntity(),
		CompanyID:      companyID,
		SiteID:         siteID,
		Name:           name,
		Code:           code,
		Unit:           unit,
		QuantityOnHand: quantity,
		UnitCost:       unitCost,
		BatchTracked:   batchTracked,
	}
}

// SetQuantity replaces the on-hand quantity with the counted value.
// A physical count is authoritative, not incremental.
func (s *StockItem) SetQuantity(countedQty decimal.Decimal) error {
	if countedQty.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock quantity cannot be negative")
	}
	s.QuantityOnHand = countedQty
	s.Touch()
	return nil
}

// Value returns the on-hand quantity priced at the current unit cost
func (s *StockItem) Value() decimal.Decimal {
	return s.QuantityOnHand.Mul(s.UnitCost)
}
