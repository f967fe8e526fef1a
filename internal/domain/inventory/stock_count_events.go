package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opsboard/backend/internal/domain/shared"
)

// Aggregate type constant for StockCount
const AggregateTypeStockCount = "StockCount"

// StockCount event type constants
const (
	EventTypeStockCountCreated   = "StockCountCreated"
	EventTypeStockCountSubmitted = "StockCountSubmitted"
	EventTypeStockCountApproved  = "StockCountApproved"
	EventTypeStockCountFinalized = "StockCountFinalized"
	EventTypeStockCountLocked    = "StockCountLocked"
	EventTypeStockBatchDepleted  = "StockBatchDepleted"
)

// StockCountCreatedEvent is raised when a stock count is scheduled
type StockCountCreatedEvent struct {
	shared.BaseDomainEvent
	CountID       uuid.UUID `json:"count_id"`
	CountNumber   string    `json:"count_number"`
	SiteID        uuid.UUID `json:"site_id"`
	SiteName      string    `json:"site_name"`
	CreatedByID   uuid.UUID `json:"created_by_id"`
	CreatedByName string    `json:"created_by_name"`
}

// NewStockCountCreatedEvent creates a new StockCountCreatedEvent
func NewStockCountCreatedEvent(sc *StockCount) *StockCountCreatedEvent {
	return &StockCountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockCountCreated, AggregateTypeStockCount, sc.ID, sc.CompanyID),
		CountID:         sc.ID,
		CountNumber:     sc.CountNumber,
		SiteID:          sc.SiteID,
		SiteName:        sc.SiteName,
		CreatedByID:     sc.CreatedByID,
		CreatedByName:   sc.CreatedByName,
	}
}

// EventType returns the event type name
func (e *StockCountCreatedEvent) EventType() string {
	return EventTypeStockCountCreated
}

// StockCountSubmittedEvent is raised when a count is submitted for approval
type StockCountSubmittedEvent struct {
	shared.BaseDomainEvent
	CountID            uuid.UUID       `json:"count_id"`
	CountNumber        string          `json:"count_number"`
	SiteID             uuid.UUID       `json:"site_id"`
	VarianceCount      int             `json:"variance_count"`
	TotalVarianceValue decimal.Decimal `json:"total_variance_value"`
}

// NewStockCountSubmittedEvent creates a new StockCountSubmittedEvent
func NewStockCountSubmittedEvent(sc *StockCount) *StockCountSubmittedEvent {
	return &StockCountSubmittedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeStockCountSubmitted, AggregateTypeStockCount, sc.ID, sc.CompanyID),
		CountID:            sc.ID,
		CountNumber:        sc.CountNumber,
		SiteID:             sc.SiteID,
		VarianceCount:      sc.VarianceCount,
		TotalVarianceValue: sc.TotalVarianceValue,
	}
}

// EventType returns the event type name
func (e *StockCountSubmittedEvent) EventType() string {
	return EventTypeStockCountSubmitted
}

// StockCountApprovedEvent is raised when an eligible approver approves a count
type StockCountApprovedEvent struct {
	shared.BaseDomainEvent
	CountID        uuid.UUID  `json:"count_id"`
	CountNumber    string     `json:"count_number"`
	SiteID         uuid.UUID  `json:"site_id"`
	ApprovedBy     *uuid.UUID `json:"approved_by"`
	ApprovedByName string     `json:"approved_by_name"`
}

// NewStockCountApprovedEvent creates a new StockCountApprovedEvent
func NewStockCountApprovedEvent(sc *StockCount) *StockCountApprovedEvent {
	return &StockCountApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockCountApproved, AggregateTypeStockCount, sc.ID, sc.CompanyID),
		CountID:         sc.ID,
		CountNumber:     sc.CountNumber,
		SiteID:          sc.SiteID,
		ApprovedBy:      sc.ApprovedBy,
		ApprovedByName:  sc.ApprovedByName,
	}
}

// EventType returns the event type name
func (e *StockCountApprovedEvent) EventType() string {
	return EventTypeStockCountApproved
}

// StockCountFinalizedEvent is raised when reconciliation commits a count
type StockCountFinalizedEvent struct {
	shared.BaseDomainEvent
	CountID            uuid.UUID       `json:"count_id"`
	CountNumber        string          `json:"count_number"`
	SiteID             uuid.UUID       `json:"site_id"`
	FinalizedBy        *uuid.UUID      `json:"finalized_by"`
	VarianceCount      int             `json:"variance_count"`
	TotalVarianceValue decimal.Decimal `json:"total_variance_value"`
}

// NewStockCountFinalizedEvent creates a new StockCountFinalizedEvent
func NewStockCountFinalizedEvent(sc *StockCount) *StockCountFinalizedEvent {
	return &StockCountFinalizedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeStockCountFinalized, AggregateTypeStockCount, sc.ID, sc.CompanyID),
		CountID:            sc.ID,
		CountNumber:        sc.CountNumber,
		SiteID:             sc.SiteID,
		FinalizedBy:        sc.FinalizedBy,
		VarianceCount:      sc.VarianceCount,
		TotalVarianceValue: sc.TotalVarianceValue,
	}
}

// EventType returns the event type name
func (e *StockCountFinalizedEvent) EventType() string {
	return EventTypeStockCountFinalized
}

// StockCountLockedEvent is raised when a finalized count is audit-frozen
type StockCountLockedEvent struct {
	shared.BaseDomainEvent
	CountID     uuid.UUID `json:"count_id"`
	CountNumber string    `json:"count_number"`
}

// NewStockCountLockedEvent creates a new StockCountLockedEvent
func NewStockCountLockedEvent(sc *StockCount) *StockCountLockedEvent {
	return &StockCountLockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockCountLocked, AggregateTypeStockCount, sc.ID, sc.CompanyID),
		CountID:         sc.ID,
		CountNumber:     sc.CountNumber,
	}
}

// EventType returns the event type name
func (e *StockCountLockedEvent) EventType() string {
	return EventTypeStockCountLocked
}

// StockBatchDepletedEvent is raised when reconciliation marks a batch depleted.
// Traceability reporting subscribes to this to keep recall ledgers gap-free.
type StockBatchDepletedEvent struct {
	shared.BaseDomainEvent
	BatchID     uuid.UUID `json:"batch_id"`
	StockItemID uuid.UUID `json:"stock_item_id"`
	CountID     uuid.UUID `json:"count_id"`
	BatchNumber string    `json:"batch_number"`
}

// NewStockBatchDepletedEvent creates a new StockBatchDepletedEvent
func NewStockBatchDepletedEvent(batch *StockBatch, countID uuid.UUID) *StockBatchDepletedEvent {
	return &StockBatchDepletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBatchDepleted, AggregateTypeStockCount, countID, batch.CompanyID),
		BatchID:         batch.ID,
		StockItemID:     batch.StockItemID,
		CountID:         countID,
		BatchNumber:     batch.BatchNumber,
	}
}

// EventType returns the event type name
func (e *StockBatchDepletedEvent) EventType() string {
	return EventTypeStockBatchDepleted
}
