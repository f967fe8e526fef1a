package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsboard/backend/internal/domain/inventory"
	"github.com/opsboard/backend/internal/domain/shared"
)

type reconcileFixture struct {
	service   *ReconciliationService
	countRepo *fakeCountRepo
	itemRepo  *fakeStockItemRepo
	batchRepo *fakeBatchRepo
	variance  *fakeVarianceRepo
	ledger    *fakeLedger
	bus       *captureBus

	companyID uuid.UUID
	actorID   uuid.UUID
	count     *inventory.StockCount
	flour     *inventory.StockItem
	milk      *inventory.StockItem
	milkBatch *inventory.StockBatch
}

// newReconcileFixture builds an approved count over two stock items:
// Flour, unbatched, expected 10 counted 7 at cost 2 (variance -6);
// Milk, batch-tracked with one batch, expected 5 counted 0 at cost 3
// (variance -15, batch depleted).
func newReconcileFixture(t *testing.T) *reconcileFixture {
	t.Helper()
	companyID := uuid.New()
	siteID := uuid.New()

	flour := inventory.NewStockItem(companyID, siteID, "Flour", "SKU-FLOUR", "kg", decimal.NewFromInt(10), decimal.NewFromInt(2), false)
	milk := inventory.NewStockItem(companyID, siteID, "Milk", "SKU-MILK", "l", decimal.NewFromInt(5), decimal.NewFromInt(3), true)
	milkBatch := inventory.NewStockBatch(companyID, milk.ID, "B-001", decimal.NewFromInt(5), nil, nil)

	sc, err := inventory.NewStockCount(companyID, siteID, "Central Kitchen", "SC-20260829-0001", time.Now(), uuid.New(), "Ada Fox")
	require.NoError(t, err)
	require.NoError(t, sc.AddItem(flour.ID, nil, flour.Name, flour.Code, flour.Unit, decimal.NewFromInt(10), flour.UnitCost))
	batchID := milkBatch.ID
	require.NoError(t, sc.AddItem(milk.ID, &batchID, milk.Name, milk.Code, milk.Unit, decimal.NewFromInt(5), milk.UnitCost))

	require.NoError(t, sc.Start())
	require.NoError(t, sc.RecordItemCount(sc.Items[0].ID, decimal.NewFromInt(7)))
	require.NoError(t, sc.RecordItemCount(sc.Items[1].ID, decimal.Zero))
	require.NoError(t, sc.SubmitForApproval())
	require.NoError(t, sc.Approve(uuid.New(), "Maya Quinn"))
	sc.ClearDomainEvents()

	f := &reconcileFixture{
		countRepo: newFakeCountRepo(),
		itemRepo:  newFakeStockItemRepo(*flour, *milk),
		batchRepo: newFakeBatchRepo(*milkBatch),
		variance:  &fakeVarianceRepo{},
		ledger:    &fakeLedger{},
		bus:       &captureBus{},
		companyID: companyID,
		actorID:   uuid.New(),
		count:     sc,
		flour:     flour,
		milk:      milk,
		milkBatch: milkBatch,
	}
	f.countRepo.put(sc)

	scope := NewNoOpTransactionScope(f.countRepo, f.itemRepo, f.batchRepo, f.variance, f.ledger)
	f.service = NewReconciliationService(scope, f.bus)
	return f
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("commits adjustments, records and the finalized header", func(t *testing.T) {
		f := newReconcileFixture(t)

		result, err := f.service.Reconcile(ctx, f.companyID, f.count.ID, f.actorID)

		require.NoError(t, err)
		assert.Equal(t, f.count.ID, result.CountID)
		assert.Equal(t, "SC-20260829-0001", result.CountNumber)
		assert.True(t, result.TotalVarianceValue.Equal(decimal.NewFromInt(-21)), result.TotalVarianceValue.String())
		assert.Len(t, result.Records, 2)

		// Counted quantities are authoritative levels, not deltas.
		assert.True(t, f.itemRepo.quantities[f.flour.ID].Equal(decimal.NewFromInt(7)))
		assert.True(t, f.itemRepo.quantities[f.milk.ID].IsZero())

		// The zero-counted batch is depleted.
		require.Len(t, f.batchRepo.saved, 1)
		assert.True(t, f.batchRepo.saved[0].IsDepleted)
		assert.Equal(t, []uuid.UUID{f.milkBatch.ID}, result.DepletedBatchIDs)

		// Header finalized through the status-guarded write.
		assert.Equal(t, inventory.StockCountStatusFinalized, f.countRepo.persistedStatus[f.count.ID])

		// One ledger entry summarizing the count, delta in quantity terms.
		require.Len(t, f.ledger.entries, 1)
		assert.Equal(t, inventory.MovementTypeCountAdjustment, f.ledger.entries[0].MovementType)
		assert.Equal(t, f.count.ID, f.ledger.entries[0].RefID)
		assert.True(t, f.ledger.entries[0].Delta.Equal(decimal.NewFromInt(-8)))
		assert.Equal(t, f.actorID, f.ledger.entries[0].ActorID)

		assert.Len(t, f.variance.records, 2)
		assert.Contains(t, f.bus.eventTypes(), inventory.EventTypeStockCountFinalized)
		assert.Contains(t, f.bus.eventTypes(), inventory.EventTypeStockBatchDepleted)
	})

	t.Run("stock rows are locked before any write", func(t *testing.T) {
		f := newReconcileFixture(t)

		_, err := f.service.Reconcile(ctx, f.companyID, f.count.ID, f.actorID)

		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{f.flour.ID, f.milk.ID}, f.itemRepo.lockedIDs)
	})

	t.Run("rejects a count that is not approved", func(t *testing.T) {
		f := newReconcileFixture(t)
		f.count.Status = inventory.StockCountStatusReadyForApproval

		_, err := f.service.Reconcile(ctx, f.companyID, f.count.ID, f.actorID)

		var precondition *inventory.PreconditionFailedError
		require.ErrorAs(t, err, &precondition)
		assert.Equal(t, inventory.StockCountStatusApproved, precondition.Required)
		assert.Empty(t, f.variance.records)
		assert.Empty(t, f.ledger.entries)
	})

	t.Run("unknown count yields not found", func(t *testing.T) {
		f := newReconcileFixture(t)

		_, err := f.service.Reconcile(ctx, f.companyID, uuid.New(), f.actorID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("variance persistence failure names the step", func(t *testing.T) {
		f := newReconcileFixture(t)
		f.variance.saveErr = errors.New("disk full")

		_, err := f.service.Reconcile(ctx, f.companyID, f.count.ID, f.actorID)

		var failed *inventory.ReconciliationFailedError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, "persist variance records", failed.Step)
		assert.ErrorContains(t, err, "no changes were made")
		assert.Empty(t, f.ledger.entries, "later steps never ran")
	})

	t.Run("lock failure names the step", func(t *testing.T) {
		f := newReconcileFixture(t)
		f.itemRepo.lockErr = errors.New("lock timeout")

		_, err := f.service.Reconcile(ctx, f.companyID, f.count.ID, f.actorID)

		var failed *inventory.ReconciliationFailedError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, "lock stock rows", failed.Step)
	})

	t.Run("quantity write failure names the step", func(t *testing.T) {
		f := newReconcileFixture(t)
		f.itemRepo.setErr = errors.New("constraint violation")

		_, err := f.service.Reconcile(ctx, f.companyID, f.count.ID, f.actorID)

		var failed *inventory.ReconciliationFailedError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, "adjust stock level", failed.Step)
	})

	t.Run("concurrent reconcile loses the guarded header write", func(t *testing.T) {
		f := newReconcileFixture(t)
		// A parallel reconcile already finalized the persisted row.
		f.countRepo.persistedStatus[f.count.ID] = inventory.StockCountStatusFinalized

		_, err := f.service.Reconcile(ctx, f.companyID, f.count.ID, f.actorID)

		var conflict *inventory.ConcurrentModificationError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, inventory.StockCountStatusApproved, conflict.Expected)
		assert.Empty(t, f.ledger.entries)
		assert.Empty(t, f.bus.events, "nothing is published for a rolled back transaction")
	})

	t.Run("missing batch row fails at the batch step", func(t *testing.T) {
		f := newReconcileFixture(t)
		f.batchRepo.batches = nil

		_, err := f.service.Reconcile(ctx, f.companyID, f.count.ID, f.actorID)

		var failed *inventory.ReconciliationFailedError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, "adjust batch", failed.Step)
		require.NotNil(t, failed.BatchID)
		assert.Equal(t, f.milkBatch.ID, *failed.BatchID)
	})
}
