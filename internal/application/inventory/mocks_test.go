package inventory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appdirectory "github.com/opsboard/backend/internal/application/directory"
	"github.com/opsboard/backend/internal/domain/directory"
	"github.com/opsboard/backend/internal/domain/inventory"
	"github.com/opsboard/backend/internal/domain/shared"
)

// fakeCountRepo keeps aggregates in memory and tracks the persisted status
// separately, so tests can race the status-guarded write the way a concurrent
// transition would.
type fakeCountRepo struct {
	counts          map[uuid.UUID]*inventory.StockCount
	persistedStatus map[uuid.UUID]inventory.StockCountStatus
	savedItems      int
	nextNumber      string
	transitionErr   error
	saveItemsErr    error
}

func newFakeCountRepo() *fakeCountRepo {
	return &fakeCountRepo{
		counts:          make(map[uuid.UUID]*inventory.StockCount),
		persistedStatus: make(map[uuid.UUID]inventory.StockCountStatus),
		nextNumber:      "SC-20260829-0001",
	}
}

func (r *fakeCountRepo) put(sc *inventory.StockCount) {
	r.counts[sc.ID] = sc
	r.persistedStatus[sc.ID] = sc.Status
}

func (r *fakeCountRepo) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*inventory.StockCount, error) {
	sc, ok := r.counts[id]
	if !ok || sc.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return sc, nil
}

func (r *fakeCountRepo) FindByCountNumber(ctx context.Context, companyID uuid.UUID, countNumber string) (*inventory.StockCount, error) {
	for _, sc := range r.counts {
		if sc.CompanyID == companyID && sc.CountNumber == countNumber {
			return sc, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCountRepo) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter inventory.StockCountFilter) ([]inventory.StockCount, error) {
	result := make([]inventory.StockCount, 0)
	for _, sc := range r.counts {
		if sc.CompanyID != companyID {
			continue
		}
		if filter.Status != nil && sc.Status != *filter.Status {
			continue
		}
		result = append(result, *sc)
	}
	return result, nil
}

func (r *fakeCountRepo) CountForCompany(ctx context.Context, companyID uuid.UUID, filter inventory.StockCountFilter) (int64, error) {
	scs, err := r.FindAllForCompany(ctx, companyID, filter)
	return int64(len(scs)), err
}

func (r *fakeCountRepo) SaveWithItems(ctx context.Context, sc *inventory.StockCount) error {
	r.put(sc)
	return nil
}

func (r *fakeCountRepo) SaveItems(ctx context.Context, sc *inventory.StockCount) error {
	if r.saveItemsErr != nil {
		return r.saveItemsErr
	}
	r.savedItems++
	return nil
}

func (r *fakeCountRepo) TransitionStatus(ctx context.Context, sc *inventory.StockCount, expected inventory.StockCountStatus) error {
	if r.transitionErr != nil {
		return r.transitionErr
	}
	if r.persistedStatus[sc.ID] != expected {
		return &inventory.ConcurrentModificationError{
			CountID:   sc.ID,
			Attempted: sc.Status,
			Expected:  expected,
		}
	}
	r.persistedStatus[sc.ID] = sc.Status
	return nil
}

func (r *fakeCountRepo) GenerateCountNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	return r.nextNumber, nil
}

// fakeStockItemRepo serves live stock rows and records quantity writes
type fakeStockItemRepo struct {
	items      []inventory.StockItem
	lockedIDs  []uuid.UUID
	quantities map[uuid.UUID]decimal.Decimal
	lockErr    error
	setErr     error
}

func newFakeStockItemRepo(items ...inventory.StockItem) *fakeStockItemRepo {
	return &fakeStockItemRepo{
		items:      items,
		quantities: make(map[uuid.UUID]decimal.Decimal),
	}
}

func (r *fakeStockItemRepo) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*inventory.StockItem, error) {
	for i := range r.items {
		if r.items[i].ID == id && r.items[i].CompanyID == companyID {
			return &r.items[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeStockItemRepo) FindBySite(ctx context.Context, companyID, siteID uuid.UUID) ([]inventory.StockItem, error) {
	result := make([]inventory.StockItem, 0)
	for i := range r.items {
		if r.items[i].CompanyID == companyID && r.items[i].SiteID == siteID {
			result = append(result, r.items[i])
		}
	}
	return result, nil
}

func (r *fakeStockItemRepo) FindByIDsForUpdate(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]inventory.StockItem, error) {
	if r.lockErr != nil {
		return nil, r.lockErr
	}
	r.lockedIDs = append(r.lockedIDs, ids...)
	result := make([]inventory.StockItem, 0, len(ids))
	for _, id := range ids {
		for i := range r.items {
			if r.items[i].ID == id {
				result = append(result, r.items[i])
			}
		}
	}
	return result, nil
}

func (r *fakeStockItemRepo) SetQuantity(ctx context.Context, companyID, id uuid.UUID, qty decimal.Decimal) error {
	if r.setErr != nil {
		return r.setErr
	}
	r.quantities[id] = qty
	return nil
}

// fakeBatchRepo serves batches and records saves
type fakeBatchRepo struct {
	batches []inventory.StockBatch
	saved   []inventory.StockBatch
	lockErr error
	saveErr error
}

func newFakeBatchRepo(batches ...inventory.StockBatch) *fakeBatchRepo {
	return &fakeBatchRepo{batches: batches}
}

func (r *fakeBatchRepo) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*inventory.StockBatch, error) {
	for i := range r.batches {
		if r.batches[i].ID == id && r.batches[i].CompanyID == companyID {
			return &r.batches[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBatchRepo) FindByIDsForUpdate(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]inventory.StockBatch, error) {
	if r.lockErr != nil {
		return nil, r.lockErr
	}
	result := make([]inventory.StockBatch, 0, len(ids))
	for _, id := range ids {
		for i := range r.batches {
			if r.batches[i].ID == id {
				result = append(result, r.batches[i])
			}
		}
	}
	return result, nil
}

func (r *fakeBatchRepo) FindByStockItem(ctx context.Context, companyID, stockItemID uuid.UUID) ([]inventory.StockBatch, error) {
	result := make([]inventory.StockBatch, 0)
	for i := range r.batches {
		if r.batches[i].CompanyID == companyID && r.batches[i].StockItemID == stockItemID {
			result = append(result, r.batches[i])
		}
	}
	return result, nil
}

func (r *fakeBatchRepo) Save(ctx context.Context, batch *inventory.StockBatch) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, *batch)
	return nil
}

// fakeVarianceRepo is an append-only in-memory record store
type fakeVarianceRepo struct {
	records []inventory.VarianceRecord
	saveErr error
}

func (r *fakeVarianceRepo) SaveAll(ctx context.Context, records []inventory.VarianceRecord) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.records = append(r.records, records...)
	return nil
}

func (r *fakeVarianceRepo) FindByCount(ctx context.Context, companyID, countID uuid.UUID) ([]inventory.VarianceRecord, error) {
	result := make([]inventory.VarianceRecord, 0)
	for i := range r.records {
		if r.records[i].CompanyID == companyID && r.records[i].CountID == countID {
			result = append(result, r.records[i])
		}
	}
	return result, nil
}

// ledgerEntry captures one RecordMovement call
type ledgerEntry struct {
	MovementType inventory.MovementType
	RefID        uuid.UUID
	Delta        decimal.Decimal
	Reason       string
	ActorID      uuid.UUID
}

type fakeLedger struct {
	entries []ledgerEntry
	err     error
}

func (l *fakeLedger) RecordMovement(ctx context.Context, companyID uuid.UUID, movementType inventory.MovementType, refID uuid.UUID, delta decimal.Decimal, reason string, actorID uuid.UUID) error {
	if l.err != nil {
		return l.err
	}
	l.entries = append(l.entries, ledgerEntry{
		MovementType: movementType,
		RefID:        refID,
		Delta:        delta,
		Reason:       reason,
		ActorID:      actorID,
	})
	return nil
}

// fakeSiteRepo serves sites by ID
type fakeSiteRepo struct {
	sites map[uuid.UUID]*directory.Site
}

func newFakeSiteRepo(sites ...*directory.Site) *fakeSiteRepo {
	r := &fakeSiteRepo{sites: make(map[uuid.UUID]*directory.Site)}
	for _, s := range sites {
		r.sites[s.ID] = s
	}
	return r
}

func (r *fakeSiteRepo) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*directory.Site, error) {
	site, ok := r.sites[id]
	if !ok || site.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return site, nil
}

// fakeApprovers returns a canned resolution
type fakeApprovers struct {
	resolution *appdirectory.ApproverResolution
	err        error
}

func (f *fakeApprovers) ResolveApprovers(ctx context.Context, companyID, siteID uuid.UUID) (*appdirectory.ApproverResolution, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resolution, nil
}

// captureBus records every published event
type captureBus struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (b *captureBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, events...)
	return nil
}

func (b *captureBus) eventTypes() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	types := make([]string, len(b.events))
	for i, e := range b.events {
		types[i] = e.EventType()
	}
	return types
}
