package inventory

import (
	"context"

	"github.com/opsboard/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the repositories the
// reconciliation engine mutates. Everything executed within one scope is
// committed or rolled back atomically; partial application is impossible.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories participating
// in the reconciliation transaction. All repositories returned share the same
// underlying database transaction, so the row locks taken by
// FindByIDsForUpdate hold until the scope commits or rolls back.
type TransactionalRepositories interface {
	// CountRepo returns the stock count repository scoped to the current transaction
	CountRepo() inventory.StockCountRepository
	// StockItemRepo returns the live stock repository scoped to the current transaction
	StockItemRepo() inventory.StockItemRepository
	// BatchRepo returns the stock batch repository scoped to the current transaction
	BatchRepo() inventory.StockBatchRepository
	// VarianceRepo returns the variance record repository scoped to the current transaction
	VarianceRepo() inventory.VarianceRecordRepository
	// Ledger returns the movement ledger scoped to the current transaction
	Ledger() inventory.MovementLedger
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is not
// required.
type NoOpTransactionScope struct {
	countRepo     inventory.StockCountRepository
	stockItemRepo inventory.StockItemRepository
	batchRepo     inventory.StockBatchRepository
	varianceRepo  inventory.VarianceRecordRepository
	ledger        inventory.MovementLedger
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	countRepo inventory.StockCountRepository,
	stockItemRepo inventory.StockItemRepository,
	batchRepo inventory.StockBatchRepository,
	varianceRepo inventory.VarianceRecordRepository,
	ledger inventory.MovementLedger,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		countRepo:     countRepo,
		stockItemRepo: stockItemRepo,
		batchRepo:     batchRepo,
		varianceRepo:  varianceRepo,
		ledger:        ledger,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// CountRepo returns the stock count repository.
func (s *NoOpTransactionScope) CountRepo() inventory.StockCountRepository {
	return s.countRepo
}

// StockItemRepo returns the live stock repository.
func (s *NoOpTransactionScope) StockItemRepo() inventory.StockItemRepository {
	return s.stockItemRepo
}

// BatchRepo returns the stock batch repository.
func (s *NoOpTransactionScope) BatchRepo() inventory.StockBatchRepository {
	return s.batchRepo
}

// VarianceRepo returns the variance record repository.
func (s *NoOpTransactionScope) VarianceRepo() inventory.VarianceRecordRepository {
	return s.varianceRepo
}

// Ledger returns the movement ledger.
func (s *NoOpTransactionScope) Ledger() inventory.MovementLedger {
	return s.ledger
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
