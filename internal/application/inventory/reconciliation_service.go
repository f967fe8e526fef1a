package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opsboard/backend/internal/domain/inventory"
	"github.com/opsboard/backend/internal/domain/shared"
)

// Reconciliation step names, carried in ReconciliationFailedError
const (
	stepLoadCount      = "load count"
	stepLockStock      = "lock stock rows"
	stepLockBatches    = "lock batch rows"
	stepAdjustStock    = "adjust stock level"
	stepAdjustBatch    = "adjust batch"
	stepSaveVariances  = "persist variance records"
	stepFinalizeHeader = "finalize count header"
	stepRecordMovement = "record movement"
)

// ReconciliationService consumes a count in the approved status and commits
// the adjustment: line and batch variances, authoritative stock levels, batch
// depletions, durable variance records and the finalized header, all inside
// one transaction. It is the only component permitted to mutate live stock on
// behalf of a count, and it does so exactly once per count.
type ReconciliationService struct {
	scope    TransactionScope
	eventBus shared.EventPublisher
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(scope TransactionScope, eventBus shared.EventPublisher) *ReconciliationService {
	return &ReconciliationService{
		scope:    scope,
		eventBus: eventBus,
	}
}

// Reconcile atomically applies the counted quantities of an approved count.
// On any step failure the whole transaction rolls back: the count remains
// approved and no stock or batch row is left partially adjusted. The engine
// never retries; callers decide what to do with a ConcurrentModification.
func (s *ReconciliationService) Reconcile(ctx context.Context, companyID, countID, actorID uuid.UUID) (*ReconciliationResult, error) {
	var (
		result *ReconciliationResult
		events []shared.DomainEvent
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sc, err := repos.CountRepo().FindByIDForCompany(ctx, companyID, countID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return err
			}
			return s.failed(countID, stepLoadCount, nil, nil, err)
		}

		if err := sc.EnsureReconcilable(); err != nil {
			return err
		}

		countedItems := sc.CountedItems()

		// Take row-level write locks on every stock and batch row the count
		// touches before computing anything, so a concurrent movement cannot
		// interleave a read-modify-write mid-reconciliation.
		stockItems, err := s.lockStockRows(ctx, repos, companyID, countID, countedItems)
		if err != nil {
			return err
		}
		batches, err := s.lockBatchRows(ctx, repos, companyID, countID, countedItems)
		if err != nil {
			return err
		}

		records := make([]inventory.VarianceRecord, 0, len(countedItems))
		depletedBatchIDs := make([]uuid.UUID, 0)
		totalVarianceValue := decimal.Zero
		totalVarianceQty := decimal.Zero

		for i := range countedItems {
			item := &countedItems[i]

			record, err := inventory.NewVarianceRecord(companyID, item)
			if err != nil {
				return s.failed(countID, stepAdjustStock, &item.ID, nil, err)
			}
			records = append(records, *record)
			totalVarianceValue = totalVarianceValue.Add(record.VarianceValue)
			totalVarianceQty = totalVarianceQty.Add(record.VarianceQuantity)

			if item.BatchID != nil {
				batch, ok := batches[*item.BatchID]
				if !ok {
					return s.failed(countID, stepAdjustBatch, &item.ID, item.BatchID,
						fmt.Errorf("batch %s not found", *item.BatchID))
				}
				batch.ApplyCount(*item.CountedQuantity)
				if err := repos.BatchRepo().Save(ctx, batch); err != nil {
					return s.failed(countID, stepAdjustBatch, &item.ID, item.BatchID, err)
				}
				if batch.IsDepleted {
					depletedBatchIDs = append(depletedBatchIDs, batch.ID)
					events = append(events, inventory.NewStockBatchDepletedEvent(batch, sc.ID))
				}
			}
		}

		// The count is authoritative: each live quantity becomes the counted
		// quantity, not an incremental delta. Batch-tracked items span one
		// line per batch, so their level is the sum of those lines.
		for id, qty := range s.authoritativeQuantities(countedItems) {
			if _, ok := stockItems[id]; !ok {
				return s.failed(countID, stepAdjustStock, nil, nil,
					fmt.Errorf("stock item %s not found", id))
			}
			if err := repos.StockItemRepo().SetQuantity(ctx, companyID, id, qty); err != nil {
				return s.failed(countID, stepAdjustStock, nil, nil, err)
			}
		}

		if err := repos.VarianceRepo().SaveAll(ctx, records); err != nil {
			return s.failed(countID, stepSaveVariances, nil, nil, err)
		}

		if err := sc.Finalize(actorID, totalVarianceValue); err != nil {
			return err
		}

		// Status-guarded header write: a second concurrent reconcile finds
		// zero approved rows here and the whole transaction rolls back.
		if err := repos.CountRepo().TransitionStatus(ctx, sc, inventory.StockCountStatusApproved); err != nil {
			var conflict *inventory.ConcurrentModificationError
			if errors.As(err, &conflict) {
				return err
			}
			return s.failed(countID, stepFinalizeHeader, nil, nil, err)
		}

		if err := repos.Ledger().RecordMovement(ctx, companyID, inventory.MovementTypeCountAdjustment, sc.ID, totalVarianceQty,
			fmt.Sprintf("stock count %s reconciled", sc.CountNumber), actorID); err != nil {
			return s.failed(countID, stepRecordMovement, nil, nil, err)
		}

		events = append(events, sc.GetDomainEvents()...)
		sc.ClearDomainEvents()

		result = &ReconciliationResult{
			CountID:            sc.ID,
			CountNumber:        sc.CountNumber,
			Records:            ToVarianceRecordResponses(records),
			TotalVarianceValue: totalVarianceValue,
			DepletedBatchIDs:   depletedBatchIDs,
			FinalizedAt:        *sc.FinalizedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)

	return result, nil
}

// lockStockRows locks the live stock rows the count touches and indexes them by ID
func (s *ReconciliationService) lockStockRows(ctx context.Context, repos TransactionalRepositories, companyID, countID uuid.UUID, items []inventory.StockCountItem) (map[uuid.UUID]*inventory.StockItem, error) {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for i := range items {
		if !seen[items[i].StockItemID] {
			seen[items[i].StockItemID] = true
			ids = append(ids, items[i].StockItemID)
		}
	}

	stockItems, err := repos.StockItemRepo().FindByIDsForUpdate(ctx, companyID, ids)
	if err != nil {
		return nil, s.failed(countID, stepLockStock, nil, nil, err)
	}

	indexed := make(map[uuid.UUID]*inventory.StockItem, len(stockItems))
	for i := range stockItems {
		indexed[stockItems[i].ID] = &stockItems[i]
	}
	return indexed, nil
}

// lockBatchRows locks the batch rows the count touches and indexes them by ID
func (s *ReconciliationService) lockBatchRows(ctx context.Context, repos TransactionalRepositories, companyID, countID uuid.UUID, items []inventory.StockCountItem) (map[uuid.UUID]*inventory.StockBatch, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for i := range items {
		if items[i].BatchID != nil {
			ids = append(ids, *items[i].BatchID)
		}
	}
	if len(ids) == 0 {
		return map[uuid.UUID]*inventory.StockBatch{}, nil
	}

	batches, err := repos.BatchRepo().FindByIDsForUpdate(ctx, companyID, ids)
	if err != nil {
		return nil, s.failed(countID, stepLockBatches, nil, nil, err)
	}

	indexed := make(map[uuid.UUID]*inventory.StockBatch, len(batches))
	for i := range batches {
		indexed[batches[i].ID] = &batches[i]
	}
	return indexed, nil
}

// authoritativeQuantities folds counted lines into one quantity per stock
// item: counted lines of the same stock item (one per batch) sum together.
func (s *ReconciliationService) authoritativeQuantities(items []inventory.StockCountItem) map[uuid.UUID]decimal.Decimal {
	quantities := make(map[uuid.UUID]decimal.Decimal, len(items))
	for i := range items {
		if items[i].CountedQuantity == nil {
			continue
		}
		quantities[items[i].StockItemID] = quantities[items[i].StockItemID].Add(*items[i].CountedQuantity)
	}
	return quantities
}

// failed wraps a step failure; the surrounding transaction rolls back in full
func (s *ReconciliationService) failed(countID uuid.UUID, step string, itemID, batchID *uuid.UUID, cause error) error {
	return &inventory.ReconciliationFailedError{
		CountID: countID,
		ItemID:  itemID,
		BatchID: batchID,
		Step:    step,
		Cause:   cause,
	}
}

// publishEvents publishes the events gathered during a committed reconciliation
func (s *ReconciliationService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventBus == nil {
		return
	}
	for _, event := range events {
		_ = s.eventBus.Publish(ctx, event)
	}
}
