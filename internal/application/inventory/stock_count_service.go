package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	appdirectory "github.com/opsboard/backend/internal/application/directory"
	"github.com/opsboard/backend/internal/domain/directory"
	"github.com/opsboard/backend/internal/domain/inventory"
	"github.com/opsboard/backend/internal/domain/shared"
)

// ApproverResolver resolves the current approver set for a site. The stock
// count service re-resolves on every approval attempt; approving against a
// cached approver snapshot is deliberately impossible.
type ApproverResolver interface {
	ResolveApprovers(ctx context.Context, companyID, siteID uuid.UUID) (*appdirectory.ApproverResolution, error)
}

// StockCountService owns the stock count lifecycle up to the approved status.
// Every transition is persisted with a status-guarded conditional write, so
// two concurrent transitions on the same count cannot both succeed.
type StockCountService struct {
	countRepo     inventory.StockCountRepository
	stockItemRepo inventory.StockItemRepository
	batchRepo     inventory.StockBatchRepository
	siteRepo      directory.SiteRepository
	txScope       TransactionScope
	approvers     ApproverResolver
	eventBus      shared.EventPublisher
}

// NewStockCountService creates a new StockCountService
func NewStockCountService(
	countRepo inventory.StockCountRepository,
	stockItemRepo inventory.StockItemRepository,
	batchRepo inventory.StockBatchRepository,
	siteRepo directory.SiteRepository,
	txScope TransactionScope,
	approvers ApproverResolver,
	eventBus shared.EventPublisher,
) *StockCountService {
	return &StockCountService{
		countRepo:     countRepo,
		stockItemRepo: stockItemRepo,
		batchRepo:     batchRepo,
		siteRepo:      siteRepo,
		txScope:       txScope,
		approvers:     approvers,
		eventBus:      eventBus,
	}
}

// ===================== Query Methods =====================

// GetByID retrieves a stock count by ID
func (s *StockCountService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*StockCountResponse, error) {
	sc, err := s.countRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	response := ToStockCountResponse(sc)
	return &response, nil
}

// GetByCountNumber retrieves a stock count by its number
func (s *StockCountService) GetByCountNumber(ctx context.Context, companyID uuid.UUID, countNumber string) (*StockCountResponse, error) {
	sc, err := s.countRepo.FindByCountNumber(ctx, companyID, countNumber)
	if err != nil {
		return nil, err
	}

	response := ToStockCountResponse(sc)
	return &response, nil
}

// List retrieves a paginated list of stock counts
func (s *StockCountService) List(ctx context.Context, companyID uuid.UUID, filter StockCountListFilter) ([]StockCountListResponse, int64, error) {
	domainFilter := inventory.StockCountFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		SiteID:      filter.SiteID,
		Status:      filter.Status,
		StartDate:   filter.StartDate,
		EndDate:     filter.EndDate,
		CreatedByID: filter.CreatedByID,
	}

	total, err := s.countRepo.CountForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	scs, err := s.countRepo.FindAllForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToStockCountListResponses(scs), total, nil
}

// GetProgress retrieves the counting progress of a stock count
func (s *StockCountService) GetProgress(ctx context.Context, companyID, id uuid.UUID) (*StockCountProgressResponse, error) {
	sc, err := s.countRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	response := ToStockCountProgressResponse(sc)
	return &response, nil
}

// ===================== Command Methods =====================

// Create schedules a stock count for a site and snapshots its items from the
// current live stock. Batch-tracked stock contributes one line per batch with
// on-hand quantity; unbatched stock contributes a single line.
func (s *StockCountService) Create(ctx context.Context, companyID, actorID uuid.UUID, actorName string, req CreateStockCountRequest) (*StockCountResponse, error) {
	site, err := s.siteRepo.FindByIDForCompany(ctx, companyID, req.SiteID)
	if err != nil {
		return nil, err
	}
	if !site.IsActive() {
		return nil, shared.NewDomainError("SITE_ARCHIVED", "Cannot schedule a count at an archived site")
	}

	countNumber, err := s.countRepo.GenerateCountNumber(ctx, companyID)
	if err != nil {
		return nil, err
	}

	countDate := time.Now()
	if req.CountDate != nil {
		countDate = *req.CountDate
	}

	sc, err := inventory.NewStockCount(companyID, site.ID, site.Name, countNumber, countDate, actorID, actorName)
	if err != nil {
		return nil, err
	}
	if req.Remark != "" {
		sc.SetRemark(req.Remark)
	}

	if err := s.snapshotItems(ctx, companyID, sc); err != nil {
		return nil, err
	}

	if err := s.countRepo.SaveWithItems(ctx, sc); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sc)

	response := ToStockCountResponse(sc)
	return &response, nil
}

// snapshotItems snapshots the expected quantities for every stock item at the
// count's site, one line per batch for batch-tracked stock.
func (s *StockCountService) snapshotItems(ctx context.Context, companyID uuid.UUID, sc *inventory.StockCount) error {
	stockItems, err := s.stockItemRepo.FindBySite(ctx, companyID, sc.SiteID)
	if err != nil {
		return err
	}

	for i := range stockItems {
		item := &stockItems[i]
		if !item.BatchTracked {
			if err := sc.AddItem(item.ID, nil, item.Name, item.Code, item.Unit, item.QuantityOnHand, item.UnitCost); err != nil {
				return err
			}
			continue
		}

		batches, err := s.batchRepo.FindByStockItem(ctx, companyID, item.ID)
		if err != nil {
			return err
		}
		for j := range batches {
			if batches[j].IsDepleted {
				continue
			}
			batchID := batches[j].ID
			if err := sc.AddItem(item.ID, &batchID, item.Name, item.Code, item.Unit, batches[j].QuantityOnHand, item.UnitCost); err != nil {
				return err
			}
		}
	}

	return nil
}

// RecordCount records the counted quantity for one line. The first recorded
// line starts the count (guarded on the site being active); recording the
// last pending line completes it.
func (s *StockCountService) RecordCount(ctx context.Context, companyID, countID uuid.UUID, req RecordCountRequest) (*StockCountResponse, error) {
	return s.recordCounts(ctx, companyID, countID, []RecordCountRequest{req})
}

// RecordCounts records multiple counted quantities at once
func (s *StockCountService) RecordCounts(ctx context.Context, companyID, countID uuid.UUID, req RecordCountsRequest) (*StockCountResponse, error) {
	return s.recordCounts(ctx, companyID, countID, req.Counts)
}

func (s *StockCountService) recordCounts(ctx context.Context, companyID, countID uuid.UUID, counts []RecordCountRequest) (*StockCountResponse, error) {
	sc, err := s.countRepo.FindByIDForCompany(ctx, companyID, countID)
	if err != nil {
		return nil, err
	}
	expected := sc.Status

	if sc.Status == inventory.StockCountStatusDraft {
		site, err := s.siteRepo.FindByIDForCompany(ctx, companyID, sc.SiteID)
		if err != nil {
			return nil, err
		}
		if !site.IsActive() {
			return nil, shared.NewDomainError("SITE_ARCHIVED", "Cannot count stock at an archived site")
		}
		if err := sc.Start(); err != nil {
			return nil, err
		}
	}

	for _, count := range counts {
		if err := sc.RecordItemCount(count.ItemID, count.CountedQuantity); err != nil {
			return nil, err
		}
	}

	// The item rows and the header (status plus derived counters) must land
	// together; a header that claims progress the item rows do not show is
	// unrecoverable.
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.CountRepo().SaveItems(ctx, sc); err != nil {
			return err
		}
		return repos.CountRepo().TransitionStatus(ctx, sc, expected)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sc)

	response := ToStockCountResponse(sc)
	return &response, nil
}

// Submit advances a completed count to ready_for_approval, recomputing the
// cached variance figures atomically with the status write.
func (s *StockCountService) Submit(ctx context.Context, companyID, countID uuid.UUID) (*StockCountResponse, error) {
	sc, err := s.countRepo.FindByIDForCompany(ctx, companyID, countID)
	if err != nil {
		return nil, err
	}
	expected := sc.Status

	if err := sc.SubmitForApproval(); err != nil {
		return nil, err
	}

	if err := s.countRepo.TransitionStatus(ctx, sc, expected); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sc)

	response := ToStockCountResponse(sc)
	return &response, nil
}

// Approve advances a count to approved. The acting identity must be present
// in the approver set resolved at the moment of the call; a stale set from an
// earlier resolution is never consulted.
func (s *StockCountService) Approve(ctx context.Context, companyID, countID, actorID uuid.UUID) (*StockCountResponse, error) {
	sc, err := s.countRepo.FindByIDForCompany(ctx, companyID, countID)
	if err != nil {
		return nil, err
	}
	expected := sc.Status

	if sc.Status != inventory.StockCountStatusReadyForApproval {
		return nil, &inventory.PreconditionFailedError{
			CountID:  sc.ID,
			Required: inventory.StockCountStatusReadyForApproval,
			Actual:   sc.Status,
			Hint:     "submit the count for approval first",
		}
	}

	resolution, err := s.approvers.ResolveApprovers(ctx, companyID, sc.SiteID)
	if err != nil {
		return nil, err
	}
	if !resolution.Found() || !resolution.Contains(actorID) {
		return nil, &inventory.ApproverNotEligibleError{
			CountID: sc.ID,
			ActorID: actorID,
			SiteID:  sc.SiteID,
		}
	}

	approverName := ""
	for _, candidate := range resolution.Approvers {
		if candidate.ID == actorID {
			approverName = candidate.DisplayName
			break
		}
	}

	if err := sc.Approve(actorID, approverName); err != nil {
		return nil, err
	}

	if err := s.countRepo.TransitionStatus(ctx, sc, expected); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sc)

	response := ToStockCountResponse(sc)
	return &response, nil
}

// Lock audit-freezes a finalized count. Locking an already locked count is a
// no-op and returns the current state.
func (s *StockCountService) Lock(ctx context.Context, companyID, countID uuid.UUID) (*StockCountResponse, error) {
	sc, err := s.countRepo.FindByIDForCompany(ctx, companyID, countID)
	if err != nil {
		return nil, err
	}
	expected := sc.Status

	if sc.Status == inventory.StockCountStatusLocked {
		response := ToStockCountResponse(sc)
		return &response, nil
	}

	if err := sc.Lock(); err != nil {
		return nil, err
	}

	if err := s.countRepo.TransitionStatus(ctx, sc, expected); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sc)

	response := ToStockCountResponse(sc)
	return &response, nil
}

// publishEvents publishes domain events from the aggregate
func (s *StockCountService) publishEvents(ctx context.Context, sc *inventory.StockCount) {
	if s.eventBus == nil {
		return
	}

	for _, event := range sc.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	sc.ClearDomainEvents()
}
