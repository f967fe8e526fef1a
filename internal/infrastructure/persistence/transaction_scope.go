package persistence

import (
	"context"

	"gorm.io/gorm"

	appinv "github.com/opsboard/backend/internal/application/inventory"
	"github.com/opsboard/backend/internal/domain/inventory"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// CountRepo returns the stock count repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CountRepo() inventory.StockCountRepository {
	return NewGormStockCountRepository(r.tx)
}

// StockItemRepo returns the live stock repository scoped to the current transaction.
func (r *gormTransactionalRepositories) StockItemRepo() inventory.StockItemRepository {
	return NewGormStockItemRepository(r.tx)
}

// BatchRepo returns the stock batch repository scoped to the current transaction.
func (r *gormTransactionalRepositories) BatchRepo() inventory.StockBatchRepository {
	return NewGormStockBatchRepository(r.tx)
}

// VarianceRepo returns the variance record repository scoped to the current transaction.
func (r *gormTransactionalRepositories) VarianceRepo() inventory.VarianceRecordRepository {
	return NewGormVarianceRecordRepository(r.tx)
}

// Ledger returns the movement ledger scoped to the current transaction.
func (r *gormTransactionalRepositories) Ledger() inventory.MovementLedger {
	return NewGormMovementLedger(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appinv.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
