package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appinv "github.com/opsboard/backend/internal/application/inventory"
	"github.com/opsboard/backend/internal/domain/inventory"
)

func setupScopeTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE stock_batches (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			company_id TEXT NOT NULL,
			stock_item_id TEXT NOT NULL,
			batch_number TEXT NOT NULL,
			quantity_on_hand NUMERIC NOT NULL DEFAULT 0,
			is_depleted INTEGER NOT NULL DEFAULT 0,
			produced_at DATETIME,
			expires_at DATETIME,
			depleted_at DATETIME
		)
	`).Error
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE variance_records (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			company_id TEXT NOT NULL,
			count_id TEXT NOT NULL,
			item_id TEXT NOT NULL,
			stock_item_id TEXT NOT NULL,
			batch_id TEXT,
			expected_quantity NUMERIC NOT NULL,
			counted_quantity NUMERIC NOT NULL,
			variance_quantity NUMERIC NOT NULL,
			variance_value NUMERIC NOT NULL
		)
	`).Error
	require.NoError(t, err)

	return db
}

func TestGormTransactionScope_CommitPersistsAllWrites(t *testing.T) {
	db := setupScopeTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	companyID := uuid.New()
	batch := inventory.NewStockBatch(companyID, uuid.New(), "B-201", decimal.NewFromInt(8), nil, nil)
	record := inventory.VarianceRecord{
		CompanyID:        companyID,
		CountID:          uuid.New(),
		ItemID:           uuid.New(),
		StockItemID:      batch.StockItemID,
		ExpectedQuantity: decimal.NewFromInt(10),
		CountedQuantity:  decimal.NewFromInt(8),
		VarianceQuantity: decimal.NewFromInt(-2),
		VarianceValue:    decimal.NewFromInt(-4),
	}
	record.ID = uuid.New()
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt

	err := scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		if err := repos.BatchRepo().Save(ctx, batch); err != nil {
			return err
		}
		return repos.VarianceRepo().SaveAll(ctx, []inventory.VarianceRecord{record})
	})
	require.NoError(t, err)

	found, err := NewGormStockBatchRepository(db).FindByIDForCompany(ctx, companyID, batch.ID)
	require.NoError(t, err)
	assert.True(t, found.QuantityOnHand.Equal(decimal.NewFromInt(8)))

	records, err := NewGormVarianceRecordRepository(db).FindByCount(ctx, companyID, record.CountID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestGormTransactionScope_ErrorRollsBackAllWrites(t *testing.T) {
	db := setupScopeTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	companyID := uuid.New()
	countID := uuid.New()
	batch := inventory.NewStockBatch(companyID, uuid.New(), "B-202", decimal.NewFromInt(3), nil, nil)
	record := inventory.VarianceRecord{
		CompanyID:        companyID,
		CountID:          countID,
		ItemID:           uuid.New(),
		StockItemID:      batch.StockItemID,
		ExpectedQuantity: decimal.NewFromInt(3),
		CountedQuantity:  decimal.Zero,
		VarianceQuantity: decimal.NewFromInt(-3),
		VarianceValue:    decimal.NewFromInt(-9),
	}
	record.ID = uuid.New()
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt

	boom := errors.New("ledger unavailable")
	err := scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		if err := repos.BatchRepo().Save(ctx, batch); err != nil {
			return err
		}
		if err := repos.VarianceRepo().SaveAll(ctx, []inventory.VarianceRecord{record}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var batchCount int64
	require.NoError(t, db.Table("stock_batches").Count(&batchCount).Error)
	assert.Zero(t, batchCount)

	var recordCount int64
	require.NoError(t, db.Table("variance_records").Count(&recordCount).Error)
	assert.Zero(t, recordCount)
}
