package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opsboard/backend/internal/domain/inventory"
)

// ===================== Request DTOs =====================

// CreateStockCountRequest represents a request to schedule a stock count.
// The count's items are snapshotted from live stock at creation time.
type CreateStockCountRequest struct {
	SiteID    uuid.UUID  `json:"site_id" binding:"required"`
	CountDate *time.Time `json:"count_date"` // Optional, defaults to now
	Remark    string     `json:"remark"`
}

// RecordCountRequest represents a request to record the counted quantity for one line
type RecordCountRequest struct {
	ItemID          uuid.UUID       `json:"item_id" binding:"required"`
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
}

// RecordCountsRequest represents a bulk request to record counted quantities
type RecordCountsRequest struct {
	Counts []RecordCountRequest `json:"counts" binding:"required,min=1"`
}

// StockCountListFilter represents filter options for the stock count list
type StockCountListFilter struct {
	Search      string                      `form:"search"`
	SiteID      *uuid.UUID                  `form:"site_id"`
	Status      *inventory.StockCountStatus `form:"status"`
	StartDate   *time.Time                  `form:"start_date"`
	EndDate     *time.Time                  `form:"end_date"`
	CreatedByID *uuid.UUID                  `form:"created_by_id"`
	Page        int                         `form:"page" binding:"min=1"`
	PageSize    int                         `form:"page_size" binding:"min=1,max=100"`
	OrderBy     string                      `form:"order_by"`
	OrderDir    string                      `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ===================== Response DTOs =====================

// StockCountItemResponse represents a count line in API responses
type StockCountItemResponse struct {
	ID               uuid.UUID        `json:"id"`
	CountID          uuid.UUID        `json:"count_id"`
	StockItemID      uuid.UUID        `json:"stock_item_id"`
	BatchID          *uuid.UUID       `json:"batch_id,omitempty"`
	StockItemName    string           `json:"stock_item_name"`
	StockItemCode    string           `json:"stock_item_code"`
	Unit             string           `json:"unit"`
	Status           string           `json:"status"`
	ExpectedQuantity decimal.Decimal  `json:"expected_quantity"`
	CountedQuantity  *decimal.Decimal `json:"counted_quantity,omitempty"`
	VarianceQuantity decimal.Decimal  `json:"variance_quantity"`
	VarianceValue    decimal.Decimal  `json:"variance_value"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// StockCountResponse represents a stock count in API responses
type StockCountResponse struct {
	ID                 uuid.UUID                `json:"id"`
	CompanyID          uuid.UUID                `json:"company_id"`
	CountNumber        string                   `json:"count_number"`
	SiteID             uuid.UUID                `json:"site_id"`
	SiteName           string                   `json:"site_name"`
	Status             string                   `json:"status"`
	CountDate          time.Time                `json:"count_date"`
	ItemsCounted       int                      `json:"items_counted"`
	VarianceCount      int                      `json:"variance_count"`
	TotalVarianceValue decimal.Decimal          `json:"total_variance_value"`
	CreatedByID        uuid.UUID                `json:"created_by_id"`
	CreatedByName      string                   `json:"created_by_name"`
	ApprovedBy         *uuid.UUID               `json:"approved_by,omitempty"`
	ApprovedByName     string                   `json:"approved_by_name,omitempty"`
	ApprovedAt         *time.Time               `json:"approved_at,omitempty"`
	FinalizedBy        *uuid.UUID               `json:"finalized_by,omitempty"`
	FinalizedAt        *time.Time               `json:"finalized_at,omitempty"`
	LockedAt           *time.Time               `json:"locked_at,omitempty"`
	Remark             string                   `json:"remark,omitempty"`
	Items              []StockCountItemResponse `json:"items"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

// StockCountListResponse represents a stock count in list responses (no items)
type StockCountListResponse struct {
	ID                 uuid.UUID       `json:"id"`
	CountNumber        string          `json:"count_number"`
	SiteID             uuid.UUID       `json:"site_id"`
	SiteName           string          `json:"site_name"`
	Status             string          `json:"status"`
	CountDate          time.Time       `json:"count_date"`
	TotalItems         int             `json:"total_items"`
	ItemsCounted       int             `json:"items_counted"`
	VarianceCount      int             `json:"variance_count"`
	TotalVarianceValue decimal.Decimal `json:"total_variance_value"`
	CreatedByName      string          `json:"created_by_name"`
	CreatedAt          time.Time       `json:"created_at"`
}

// StockCountProgressResponse represents counting progress
type StockCountProgressResponse struct {
	ID           uuid.UUID `json:"id"`
	CountNumber  string    `json:"count_number"`
	Status       string    `json:"status"`
	TotalItems   int       `json:"total_items"`
	ItemsCounted int       `json:"items_counted"`
	PendingItems int       `json:"pending_items"`
	Progress     float64   `json:"progress"`
}

// VarianceRecordResponse represents one persisted variance record
type VarianceRecordResponse struct {
	ID               uuid.UUID       `json:"id"`
	CountID          uuid.UUID       `json:"count_id"`
	ItemID           uuid.UUID       `json:"item_id"`
	StockItemID      uuid.UUID       `json:"stock_item_id"`
	BatchID          *uuid.UUID      `json:"batch_id,omitempty"`
	ExpectedQuantity decimal.Decimal `json:"expected_quantity"`
	CountedQuantity  decimal.Decimal `json:"counted_quantity"`
	VarianceQuantity decimal.Decimal `json:"variance_quantity"`
	VarianceValue    decimal.Decimal `json:"variance_value"`
}

// ReconciliationResult represents the committed outcome of reconciling a count
type ReconciliationResult struct {
	CountID            uuid.UUID                `json:"count_id"`
	CountNumber        string                   `json:"count_number"`
	Records            []VarianceRecordResponse `json:"records"`
	TotalVarianceValue decimal.Decimal          `json:"total_variance_value"`
	DepletedBatchIDs   []uuid.UUID              `json:"depleted_batch_ids"`
	FinalizedAt        time.Time                `json:"finalized_at"`
}

// ===================== Mappers =====================

// ToStockCountItemResponse converts a domain item to a response DTO
func ToStockCountItemResponse(item *inventory.StockCountItem) StockCountItemResponse {
	return StockCountItemResponse{
		ID:               item.ID,
		CountID:          item.CountID,
		StockItemID:      item.StockItemID,
		BatchID:          item.BatchID,
		StockItemName:    item.StockItemName,
		StockItemCode:    item.StockItemCode,
		Unit:             item.Unit,
		Status:           string(item.Status),
		ExpectedQuantity: item.ExpectedQuantity,
		CountedQuantity:  item.CountedQuantity,
		VarianceQuantity: item.VarianceQuantity(),
		VarianceValue:    item.VarianceValue(),
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
	}
}

// ToStockCountResponse converts a domain stock count to a response DTO
func ToStockCountResponse(sc *inventory.StockCount) StockCountResponse {
	items := make([]StockCountItemResponse, len(sc.Items))
	for i := range sc.Items {
		items[i] = ToStockCountItemResponse(&sc.Items[i])
	}
	return StockCountResponse{
		ID:                 sc.ID,
		CompanyID:          sc.CompanyID,
		CountNumber:        sc.CountNumber,
		SiteID:             sc.SiteID,
		SiteName:           sc.SiteName,
		Status:             sc.Status.String(),
		CountDate:          sc.CountDate,
		ItemsCounted:       sc.ItemsCounted,
		VarianceCount:      sc.VarianceCount,
		TotalVarianceValue: sc.TotalVarianceValue,
		CreatedByID:        sc.CreatedByID,
		CreatedByName:      sc.CreatedByName,
		ApprovedBy:         sc.ApprovedBy,
		ApprovedByName:     sc.ApprovedByName,
		ApprovedAt:         sc.ApprovedAt,
		FinalizedBy:        sc.FinalizedBy,
		FinalizedAt:        sc.FinalizedAt,
		LockedAt:           sc.LockedAt,
		Remark:             sc.Remark,
		Items:              items,
		CreatedAt:          sc.CreatedAt,
		UpdatedAt:          sc.UpdatedAt,
	}
}

// ToStockCountListResponse converts a domain stock count to a list item DTO
func ToStockCountListResponse(sc *inventory.StockCount) StockCountListResponse {
	return StockCountListResponse{
		ID:                 sc.ID,
		CountNumber:        sc.CountNumber,
		SiteID:             sc.SiteID,
		SiteName:           sc.SiteName,
		Status:             sc.Status.String(),
		CountDate:          sc.CountDate,
		TotalItems:         len(sc.Items),
		ItemsCounted:       sc.ItemsCounted,
		VarianceCount:      sc.VarianceCount,
		TotalVarianceValue: sc.TotalVarianceValue,
		CreatedByName:      sc.CreatedByName,
		CreatedAt:          sc.CreatedAt,
	}
}

// ToStockCountListResponses converts domain stock counts to list item DTOs
func ToStockCountListResponses(scs []inventory.StockCount) []StockCountListResponse {
	responses := make([]StockCountListResponse, len(scs))
	for i := range scs {
		responses[i] = ToStockCountListResponse(&scs[i])
	}
	return responses
}

// ToStockCountProgressResponse converts a domain stock count to a progress DTO
func ToStockCountProgressResponse(sc *inventory.StockCount) StockCountProgressResponse {
	return StockCountProgressResponse{
		ID:           sc.ID,
		CountNumber:  sc.CountNumber,
		Status:       sc.Status.String(),
		TotalItems:   len(sc.Items),
		ItemsCounted: sc.ItemsCounted,
		PendingItems: sc.PendingItems(),
		Progress:     sc.Progress(),
	}
}

// ToVarianceRecordResponse converts a domain variance record to a response DTO
func ToVarianceRecordResponse(r *inventory.VarianceRecord) VarianceRecordResponse {
	return VarianceRecordResponse{
		ID:               r.ID,
		CountID:          r.CountID,
		ItemID:           r.ItemID,
		StockItemID:      r.StockItemID,
		BatchID:          r.BatchID,
		ExpectedQuantity: r.ExpectedQuantity,
		CountedQuantity:  r.CountedQuantity,
		VarianceQuantity: r.VarianceQuantity,
		VarianceValue:    r.VarianceValue,
	}
}

// ToVarianceRecordResponses converts domain variance records to response DTOs
func ToVarianceRecordResponses(records []inventory.VarianceRecord) []VarianceRecordResponse {
	responses := make([]VarianceRecordResponse, len(records))
	for i := range records {
		responses[i] = ToVarianceRecordResponse(&records[i])
	}
	return responses
}
