package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opsboard/backend/internal/domain/inventory"
	"github.com/opsboard/backend/internal/domain/shared"
)

// StockCountModel is the persistence model for the StockCount aggregate root.
type StockCountModel struct {
	CompanyAggregateModel
	CountNumber        string                     `gorm:"type:varchar(50);not null;uniqueIndex:idx_stock_count_number_company,priority:2"`
	SiteID             uuid.UUID                  `gorm:"type:uuid;not null;index"`
	SiteName           string                     `gorm:"type:varchar(100);not null"`
	Status             inventory.StockCountStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	CountDate          time.Time                  `gorm:"not null"`
	ItemsCounted       int                        `gorm:"not null;default:0"`
	VarianceCount      int                        `gorm:"not null;default:0"`
	TotalVarianceValue decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedByID        uuid.UUID                  `gorm:"type:uuid;not null"`
	CreatedByName      string                     `gorm:"type:varchar(100);not null"`
	ApprovedBy         *uuid.UUID                 `gorm:"type:uuid"`
	ApprovedByName     string                     `gorm:"type:varchar(100)"`
	ApprovedAt         *time.Time                 `gorm:""`
	FinalizedBy        *uuid.UUID                 `gorm:"type:uuid"`
	FinalizedAt        *time.Time                 `gorm:""`
	LockedAt           *time.Time                 `gorm:""`
	Remark             string                     `gorm:"type:varchar(500)"`
	Items              []StockCountItemModel      `gorm:"foreignKey:CountID;references:ID"`
}

// TableName returns the table name for GORM
func (StockCountModel) TableName() string {
	return "stock_counts"
}

// ToDomain converts the persistence model to a domain StockCount entity.
func (m *StockCountModel) ToDomain() *inventory.StockCount {
	sc := &inventory.StockCount{
		CompanyAggregateRoot: shared.CompanyAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			CompanyID: m.CompanyID,
			CreatedBy: m.CreatedBy,
		},
		CountNumber:        m.CountNumber,
		SiteID:             m.SiteID,
		SiteName:           m.SiteName,
		Status:             m.Status,
		CountDate:          m.CountDate,
		ItemsCounted:       m.ItemsCounted,
		VarianceCount:      m.VarianceCount,
		TotalVarianceValue: m.TotalVarianceValue,
		CreatedByID:        m.CreatedByID,
		CreatedByName:      m.CreatedByName,
		ApprovedBy:         m.ApprovedBy,
		ApprovedByName:     m.ApprovedByName,
		ApprovedAt:         m.ApprovedAt,
		FinalizedBy:        m.FinalizedBy,
		FinalizedAt:        m.FinalizedAt,
		LockedAt:           m.LockedAt,
		Remark:             m.Remark,
		Items:              make([]inventory.StockCountItem, len(m.Items)),
	}
	for i, item := range m.Items {
		sc.Items[i] = *item.ToDomain()
	}
	return sc
}

// FromDomain populates the persistence model from a domain StockCount entity.
func (m *StockCountModel) FromDomain(sc *inventory.StockCount) {
	m.FromDomainCompanyAggregateRoot(sc.CompanyAggregateRoot)
	m.CountNumber = sc.CountNumber
	m.SiteID = sc.SiteID
	m.SiteName = sc.SiteName
	m.Status = sc.Status
	m.CountDate = sc.CountDate
	m.ItemsCounted = sc.ItemsCounted
	m.VarianceCount = sc.VarianceCount
	m.TotalVarianceValue = sc.TotalVarianceValue
	m.CreatedByID = sc.CreatedByID
	m.CreatedByName = sc.CreatedByName
	m.ApprovedBy = sc.ApprovedBy
	m.ApprovedByName = sc.ApprovedByName
	m.ApprovedAt = sc.ApprovedAt
	m.FinalizedBy = sc.FinalizedBy
	m.FinalizedAt = sc.FinalizedAt
	m.LockedAt = sc.LockedAt
	m.Remark = sc.Remark
	m.Items = make([]StockCountItemModel, len(sc.Items))
	for i, item := range sc.Items {
		m.Items[i] = *StockCountItemModelFromDomain(&item)
	}
}

// StockCountModelFromDomain creates a new persistence model from a domain StockCount entity.
func StockCountModelFromDomain(sc *inventory.StockCount) *StockCountModel {
	m := &StockCountModel{}
	m.FromDomain(sc)
	return m
}

// StockCountItemModel is the persistence model for the StockCountItem entity.
type StockCountItemModel struct {
	ID               uuid.UUID                      `gorm:"type:uuid;primary_key"`
	CountID          uuid.UUID                      `gorm:"type:uuid;not null;index"`
	StockItemID      uuid.UUID                      `gorm:"type:uuid;not null"`
	BatchID          *uuid.UUID                     `gorm:"type:uuid"`
	StockItemName    string                         `gorm:"type:varchar(200);not null"`
	StockItemCode    string                         `gorm:"type:varchar(50);not null"`
	Unit             string                         `gorm:"type:varchar(20);not null"`
	Status           inventory.StockCountItemStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	ExpectedQuantity decimal.Decimal                `gorm:"type:decimal(18,4);not null"`
	CountedQuantity  *decimal.Decimal               `gorm:"type:decimal(18,4)"`
	UnitCost         decimal.Decimal                `gorm:"type:decimal(18,4);not null"`
	CreatedAt        time.Time                      `gorm:"not null"`
	UpdatedAt        time.Time                      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockCountItemModel) TableName() string {
	return "stock_count_items"
}

// ToDomain converts the persistence model to a domain StockCountItem entity.
func (m *StockCountItemModel) ToDomain() *inventory.StockCountItem {
	return &inventory.StockCountItem{
		ID:               m.ID,
		CountID:          m.CountID,
		StockItemID:      m.StockItemID,
		BatchID:          m.BatchID,
		StockItemName:    m.StockItemName,
		StockItemCode:    m.StockItemCode,
		Unit:             m.Unit,
		Status:           m.Status,
		ExpectedQuantity: m.ExpectedQuantity,
		CountedQuantity:  m.CountedQuantity,
		UnitCost:         m.UnitCost,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain StockCountItem entity.
func (m *StockCountItemModel) FromDomain(i *inventory.StockCountItem) {
	m.ID = i.ID
	m.CountID = i.CountID
	m.StockItemID = i.StockItemID
	m.BatchID = i.BatchID
	m.StockItemName = i.StockItemName
	m.StockItemCode = i.StockItemCode
	m.Unit = i.Unit
	m.Status = i.Status
	m.ExpectedQuantity = i.ExpectedQuantity
	m.CountedQuantity = i.CountedQuantity
	m.UnitCost = i.UnitCost
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt
}

// StockCountItemModelFromDomain creates a new persistence model from a domain StockCountItem entity.
func StockCountItemModelFromDomain(i *inventory.StockCountItem) *StockCountItemModel {
	m := &StockCountItemModel{}
	m.FromDomain(i)
	return m
}

// StockItemModel is the persistence model for the live StockItem record.
type StockItemModel struct {
	BaseModel
	CompanyID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	SiteID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name           string          `gorm:"type:varchar(200);not null"`
	Code           string          `gorm:"type:varchar(50);not null"`
	Unit           string          `gorm:"type:varchar(20);not null"`
	QuantityOnHand decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BatchTracked   bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (StockItemModel) TableName() string {
	return "stock_items"
}

// ToDomain converts the persistence model to a domain StockItem entity.
func (m *StockItemModel) ToDomain() *inventory.StockItem {
	return &inventory.StockItem{
		BaseEntity:     m.BaseModel.ToDomain(),
		CompanyID:      m.CompanyID,
		SiteID:         m.SiteID,
		Name:           m.Name,
		Code:           m.Code,
		Unit:           m.Unit,
		QuantityOnHand: m.QuantityOnHand,
		UnitCost:       m.UnitCost,
		BatchTracked:   m.BatchTracked,
	}
}

// FromDomain populates the persistence model from a domain StockItem entity.
func (m *StockItemModel) FromDomain(s *inventory.StockItem) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.CompanyID = s.CompanyID
	m.SiteID = s.SiteID
	m.Name = s.Name
	m.Code = s.Code
	m.Unit = s.Unit
	m.QuantityOnHand = s.QuantityOnHand
	m.UnitCost = s.UnitCost
	m.BatchTracked = s.BatchTracked
}

// StockItemModelFromDomain creates a new persistence model from a domain StockItem entity.
func StockItemModelFromDomain(s *inventory.StockItem) *StockItemModel {
	m := &StockItemModel{}
	m.FromDomain(s)
	return m
}

// StockBatchModel is the persistence model for the StockBatch entity.
type StockBatchModel struct {
	BaseModel
	CompanyID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	StockItemID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchNumber    string          `gorm:"type:varchar(50);not null"`
	QuantityOnHand decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IsDepleted     bool            `gorm:"not null;default:false;index"`
	ProducedAt     *time.Time      `gorm:""`
	ExpiresAt      *time.Time      `gorm:""`
	DepletedAt     *time.Time      `gorm:""`
}

// TableName returns the table name for GORM
func (StockBatchModel) TableName() string {
	return "stock_batches"
}

// ToDomain converts the persistence model to a domain StockBatch entity.
func (m *StockBatchModel) ToDomain() *inventory.StockBatch {
	return &inventory.StockBatch{
		BaseEntity:     m.BaseModel.ToDomain(),
		CompanyID:      m.CompanyID,
		StockItemID:    m.StockItemID,
		BatchNumber:    m.BatchNumber,
		QuantityOnHand: m.QuantityOnHand,
		IsDepleted:     m.IsDepleted,
		ProducedAt:     m.ProducedAt,
		ExpiresAt:      m.ExpiresAt,
		DepletedAt:     m.DepletedAt,
	}
}

// FromDomain populates the persistence model from a domain StockBatch entity.
func (m *StockBatchModel) FromDomain(b *inventory.StockBatch) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.CompanyID = b.CompanyID
	m.StockItemID = b.StockItemID
	m.BatchNumber = b.BatchNumber
	m.QuantityOnHand = b.QuantityOnHand
	m.IsDepleted = b.IsDepleted
	m.ProducedAt = b.ProducedAt
	m.ExpiresAt = b.ExpiresAt
	m.DepletedAt = b.DepletedAt
}

// StockBatchModelFromDomain creates a new persistence model from a domain StockBatch entity.
func StockBatchModelFromDomain(b *inventory.StockBatch) *StockBatchModel {
	m := &StockBatchModel{}
	m.FromDomain(b)
	return m
}

// VarianceRecordModel is the persistence model for the VarianceRecord entity.
// Rows are insert-only.
type VarianceRecordModel struct {
	BaseModel
	CompanyID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	CountID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID           uuid.UUID       `gorm:"type:uuid;not null"`
	StockItemID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchID          *uuid.UUID      `gorm:"type:uuid"`
	ExpectedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CountedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	VarianceQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	VarianceValue    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (VarianceRecordModel) TableName() string {
	return "variance_records"
}

// ToDomain converts the persistence model to a domain VarianceRecord entity.
func (m *VarianceRecordModel) ToDomain() *inventory.VarianceRecord {
	return &inventory.VarianceRecord{
		BaseEntity:       m.BaseModel.ToDomain(),
		CompanyID:        m.CompanyID,
		CountID:          m.CountID,
		ItemID:           m.ItemID,
		StockItemID:      m.StockItemID,
		BatchID:          m.BatchID,
		ExpectedQuantity: m.ExpectedQuantity,
		CountedQuantity:  m.CountedQuantity,
		VarianceQuantity: m.VarianceQuantity,
		VarianceValue:    m.VarianceValue,
	}
}

// FromDomain populates the persistence model from a domain VarianceRecord entity.
func (m *VarianceRecordModel) FromDomain(r *inventory.VarianceRecord) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.CompanyID = r.CompanyID
	m.CountID = r.CountID
	m.ItemID = r.ItemID
	m.StockItemID = r.StockItemID
	m.BatchID = r.BatchID
	m.ExpectedQuantity = r.ExpectedQuantity
	m.CountedQuantity = r.CountedQuantity
	m.VarianceQuantity = r.VarianceQuantity
	m.VarianceValue = r.VarianceValue
}

// VarianceRecordModelFromDomain creates a new persistence model from a domain VarianceRecord entity.
func VarianceRecordModelFromDomain(r *inventory.VarianceRecord) *VarianceRecordModel {
	m := &VarianceRecordModel{}
	m.FromDomain(r)
	return m
}

// StockMovementModel is the persistence model for the stock-movement audit
// ledger. The reconciliation engine appends to it and never reads it back.
type StockMovementModel struct {
	BaseModel
	CompanyID    uuid.UUID              `gorm:"type:uuid;not null;index"`
	MovementType inventory.MovementType `gorm:"type:varchar(30);not null"`
	ReferenceID  uuid.UUID              `gorm:"type:uuid;not null;index"`
	Delta        decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Reason       string                 `gorm:"type:varchar(500);not null"`
	ActorID      uuid.UUID              `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}
