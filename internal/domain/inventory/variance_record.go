package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opsboard/backend/internal/domain/shared"
)

// VarianceRecord is the durable output of reconciliation, one per counted
// line. Recall and mass-balance reporting read these records; they are never
// updated after the commit that wrote them.
type VarianceRecord struct {
	shared.BaseEntity
	CompanyID        uuid.UUID
	CountID          uuid.UUID
	ItemID           uuid.UUID
	StockItemID      uuid.UUID
	BatchID          *uuid.UUID
	ExpectedQuantity decimal.Decimal
	CountedQuantity  decimal.Decimal
	VarianceQuantity decimal.Decimal // counted - expected
	VarianceValue    decimal.Decimal // variance quantity * unit cost at count time
}

// NewVarianceRecord derives the variance record for a counted line
func NewVarianceRecord(companyID uuid.UUID, item *StockCountItem) (*VarianceRecord, error) {
	if item.CountedQuantity == nil {
		return nil, shared.NewDomainError("ITEM_NOT_COUNTED", "Cannot derive variance for an uncounted item")
	}

	varianceQty := item.CountedQuantity.Sub(item.ExpectedQuantity)
	return &VarianceRecord{
		BaseEntity:       shared.NewBaseEntity(),
		CompanyID:        companyID,
		CountID:          item.CountID,
		ItemID:           item.ID,
		StockItemID:      item.StockItemID,
		BatchID:          item.BatchID,
		ExpectedQuantity: item.ExpectedQuantity,
		CountedQuantity:  *item.CountedQuantity,
		VarianceQuantity: varianceQty,
		VarianceValue:    varianceQty.Mul(item.UnitCost),
	}, nil
}

// MassBalance is the accounting identity consumed by recall and traceability
// reporting: produced = recovered + unaccounted.
type MassBalance struct {
	TotalProduced  decimal.Decimal `json:"total_produced"`
	TotalRecovered decimal.Decimal `json:"total_recovered"`
	Unaccounted    decimal.Decimal `json:"unaccounted"`
}

// MassBalanceFromRecords folds variance records into a mass balance summary
func MassBalanceFromRecords(records []VarianceRecord) MassBalance {
	produced := decimal.Zero
	recovered := decimal.Zero
	for i := range records {
		produced = produced.Add(records[i].ExpectedQuantity)
		recovered = recovered.Add(records[i].CountedQuantity)
	}
	return MassBalance{
		TotalProduced:  produced,
		TotalRecovered: recovered,
		Unaccounted:    produced.Sub(recovered),
	}
}
