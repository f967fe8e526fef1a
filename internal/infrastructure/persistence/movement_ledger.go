package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/opsboard/backend/internal/domain/inventory"
	"github.com/opsboard/backend/internal/infrastructure/persistence/models"
)

// GormMovementLedger implements the append-only stock-movement audit ledger
type GormMovementLedger struct {
	db *gorm.DB
}

// NewGormMovementLedger creates a new GormMovementLedger
func NewGormMovementLedger(db *gorm.DB) *GormMovementLedger {
	return &GormMovementLedger{db: db}
}

// RecordMovement appends one audit entry to the ledger
func (l *GormMovementLedger) RecordMovement(ctx context.Context, companyID uuid.UUID, movementType inventory.MovementType, refID uuid.UUID, delta decimal.Decimal, reason string, actorID uuid.UUID) error {
	now := time.Now()
	model := models.StockMovementModel{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CompanyID:    companyID,
		MovementType: movementType,
		ReferenceID:  refID,
		Delta:        delta,
		Reason:       reason,
		ActorID:      actorID,
	}
	return l.db.WithContext(ctx).Create(&model).Error
}
