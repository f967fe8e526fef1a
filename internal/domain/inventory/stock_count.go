package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opsboard/backend/internal/domain/shared"
)

// StockCountStatus represents the status of a stock count
type StockCountStatus string

const (
	StockCountStatusDraft            StockCountStatus = "draft"
	StockCountStatusInProgress       StockCountStatus = "in_progress"
	StockCountStatusCompleted        StockCountStatus = "completed"
	StockCountStatusReadyForApproval StockCountStatus = "ready_for_approval"
	StockCountStatusApproved         StockCountStatus = "approved"
	StockCountStatusFinalized        StockCountStatus = "finalized"
	StockCountStatusLocked           StockCountStatus = "locked"
)

// statusRank orders the lifecycle. Status only ever advances; a count can
// never return to a rank it has already passed.
var statusRank = map[StockCountStatus]int{
	StockCountStatusDraft:            0,
	StockCountStatusInProgress:       1,
	StockCountStatusCompleted:        2,
	StockCountStatusReadyForApproval: 3,
	StockCountStatusApproved:         4,
	StockCountStatusFinalized:        5,
	StockCountStatusLocked:           6,
}

// IsValid checks if the status is a valid StockCountStatus
func (s StockCountStatus) IsValid() bool {
	_, ok := statusRank[s]
	return ok
}

// String returns the string representation of StockCountStatus
func (s StockCountStatus) String() string {
	return string(s)
}

// Rank returns the position of the status in the lifecycle order
func (s StockCountStatus) Rank() int {
	return statusRank[s]
}

// CanTransitionTo checks if the status can transition to the target status.
// Only single forward steps are legal; no stage may be skipped.
func (s StockCountStatus) CanTransitionTo(target StockCountStatus) bool {
	if !s.IsValid() || !target.IsValid() {
		return false
	}
	return statusRank[target] == statusRank[s]+1
}

// IsTerminal reports whether the count is audit-frozen
func (s StockCountStatus) IsTerminal() bool {
	return s == StockCountStatusLocked
}

// StockCountItemStatus represents the status of a single count line
type StockCountItemStatus string

const (
	StockCountItemStatusPending StockCountItemStatus = "pending"
	StockCountItemStatusCounted StockCountItemStatus = "counted"
)

// StockCountItem is one line of a stock count: a stock item (optionally a
// specific batch of it) with the expected quantity snapshotted at creation
// and the physically counted quantity once recorded.
type StockCountItem struct {
	ID               uuid.UUID
	CountID          uuid.UUID
	StockItemID      uuid.UUID
	BatchID          *uuid.UUID // nil for stock that is not batch-tracked
	StockItemName    string
	StockItemCode    string
	Unit             string
	Status           StockCountItemStatus
	ExpectedQuantity decimal.Decimal
	CountedQuantity  *decimal.Decimal // nil until counted
	UnitCost         decimal.Decimal  // cost per unit at count creation
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewStockCountItem creates a pending count line with a snapshot of the
// expected quantity and unit cost.
func NewStockCountItem(countID, stockItemID uuid.UUID, batchID *uuid.UUID, name, code, unit string, expectedQty, unitCost decimal.Decimal) *StockCountItem {
	now := time.Now()
	return &StockCountItem{
		ID:               uuid.New(),
		CountID:          countID,
		StockItemID:      stockItemID,
		BatchID:          batchID,
		StockItemName:    name,
		StockItemCode:    code,
		Unit:             unit,
		Status:           StockCountItemStatusPending,
		ExpectedQuantity: expectedQty,
		UnitCost:         unitCost,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// RecordCount records the physically counted quantity for this line
func (i *StockCountItem) RecordCount(countedQty decimal.Decimal) error {
	if countedQty.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot be negative")
	}

	qty := countedQty
	i.CountedQuantity = &qty
	i.Status = StockCountItemStatusCounted
	i.UpdatedAt = time.Now()
	return nil
}

// IsCounted reports whether this line has been counted
func (i *StockCountItem) IsCounted() bool {
	return i.Status == StockCountItemStatusCounted
}

// VarianceQuantity returns counted minus expected, zero while pending
func (i *StockCountItem) VarianceQuantity() decimal.Decimal {
	if i.CountedQuantity == nil {
		return decimal.Zero
	}
	return i.CountedQuantity.Sub(i.ExpectedQuantity)
}

// VarianceValue returns the variance quantity priced at the snapshotted unit cost
func (i *StockCountItem) VarianceValue() decimal.Decimal {
	return i.VarianceQuantity().Mul(i.UnitCost)
}

// HasVariance reports whether the counted quantity differs from expected
func (i *StockCountItem) HasVariance() bool {
	return i.IsCounted() && !i.VarianceQuantity().IsZero()
}

// StockCount is the aggregate root for one physical inventory count at a site.
// Its status advances forward only: draft, in_progress, completed,
// ready_for_approval, approved, finalized, locked.
type StockCount struct {
	shared.CompanyAggregateRoot
	CountNumber        string
	SiteID             uuid.UUID
	SiteName           string
	Status             StockCountStatus
	CountDate          time.Time
	ItemsCounted       int             // derived, cached for display
	VarianceCount      int             // derived, cached for display
	TotalVarianceValue decimal.Decimal // signed; negative = inventory shortfall
	CreatedByID        uuid.UUID
	CreatedByName      string
	ApprovedBy         *uuid.UUID
	ApprovedByName     string
	ApprovedAt         *time.Time
	FinalizedBy        *uuid.UUID
	FinalizedAt        *time.Time
	LockedAt           *time.Time
	Remark             string
	Items              []StockCountItem
}

// NewStockCount creates a new stock count in draft status
func NewStockCount(companyID, siteID uuid.UUID, siteName, countNumber string, countDate time.Time, createdByID uuid.UUID, createdByName string) (*StockCount, error) {
	if siteID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SITE", "Site ID cannot be empty")
	}
	if siteName == "" {
		return nil, shared.NewDomainError("INVALID_SITE_NAME", "Site name cannot be empty")
	}
	if countNumber == "" {
		return nil, shared.NewDomainError("INVALID_COUNT_NUMBER", "Count number cannot be empty")
	}
	if createdByID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CREATOR", "Creator ID cannot be empty")
	}

	sc := &StockCount{
		CompanyAggregateRoot: shared.NewCompanyAggregateRootWithCreator(companyID, createdByID),
		CountNumber:          countNumber,
		SiteID:               siteID,
		SiteName:             siteName,
		Status:               StockCountStatusDraft,
		CountDate:            countDate,
		TotalVarianceValue:   decimal.Zero,
		CreatedByID:          createdByID,
		CreatedByName:        createdByName,
		Items:                make([]StockCountItem, 0),
	}

	sc.AddDomainEvent(NewStockCountCreatedEvent(sc))

	return sc, nil
}

// AddItem snapshots one stock item (or batch) into the count.
// Items may only be added while the count is in draft.
func (sc *StockCount) AddItem(stockItemID uuid.UUID, batchID *uuid.UUID, name, code, unit string, expectedQty, unitCost decimal.Decimal) error {
	if sc.Status != StockCountStatusDraft {
		return sc.preconditionError(StockCountStatusDraft, "items can only be added before counting starts")
	}
	if stockItemID == uuid.Nil {
		return shared.NewDomainError("INVALID_STOCK_ITEM", "Stock item ID cannot be empty")
	}

	for _, item := range sc.Items {
		if item.StockItemID == stockItemID && uuidPtrEqual(item.BatchID, batchID) {
			return shared.NewDomainError("DUPLICATE_ITEM", "Stock item already exists in count")
		}
	}

	item := NewStockCountItem(sc.ID, stockItemID, batchID, name, code, unit, expectedQty, unitCost)
	sc.Items = append(sc.Items, *item)
	sc.Touch()
	sc.IncrementVersion()

	return nil
}

// Start advances the count from draft to in_progress. The caller must have
// verified that the count's site is active.
func (sc *StockCount) Start() error {
	if !sc.Status.CanTransitionTo(StockCountStatusInProgress) {
		return sc.preconditionError(StockCountStatusDraft, "count has already started")
	}
	if len(sc.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot start counting with no items")
	}

	sc.Status = StockCountStatusInProgress
	sc.Touch()
	sc.IncrementVersion()

	return nil
}

// RecordItemCount records the counted quantity for one line. Recording the
// final pending line advances the count to completed; counted lines stay
// amendable until the count is submitted for approval.
func (sc *StockCount) RecordItemCount(itemID uuid.UUID, countedQty decimal.Decimal) error {
	if sc.Status != StockCountStatusInProgress && sc.Status != StockCountStatusCompleted {
		hint := "start the count before recording quantities"
		if sc.Status.Rank() > statusRank[StockCountStatusCompleted] {
			hint = "count has been submitted and can no longer be amended"
		}
		return sc.preconditionError(StockCountStatusInProgress, hint)
	}

	for i := range sc.Items {
		if sc.Items[i].ID != itemID {
			continue
		}

		wasCounted := sc.Items[i].IsCounted()
		if err := sc.Items[i].RecordCount(countedQty); err != nil {
			return err
		}
		if !wasCounted {
			sc.ItemsCounted++
		}

		sc.recalculateVariance()
		sc.Touch()
		sc.IncrementVersion()

		if sc.Status == StockCountStatusInProgress && sc.PendingItems() == 0 {
			sc.complete()
		}
		return nil
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Item not found in stock count")
}

// complete advances in_progress to completed once no line is pending
func (sc *StockCount) complete() {
	sc.Status = StockCountStatusCompleted
	sc.Touch()
	sc.IncrementVersion()
}

// recalculateVariance refreshes the cached variance figures from the items
func (sc *StockCount) recalculateVariance() {
	sc.VarianceCount = 0
	sc.TotalVarianceValue = decimal.Zero
	for i := range sc.Items {
		if sc.Items[i].HasVariance() {
			sc.VarianceCount++
			sc.TotalVarianceValue = sc.TotalVarianceValue.Add(sc.Items[i].VarianceValue())
		}
	}
}

// SubmitForApproval advances completed to ready_for_approval. The cached
// variance figures are recomputed atomically with the status change.
func (sc *StockCount) SubmitForApproval() error {
	if !sc.Status.CanTransitionTo(StockCountStatusReadyForApproval) {
		return sc.preconditionError(StockCountStatusCompleted, "count all items before submitting for approval")
	}
	if sc.PendingItems() > 0 {
		return shared.NewDomainError("INCOMPLETE_COUNT", "Not all items have been counted")
	}

	sc.recalculateVariance()
	sc.Status = StockCountStatusReadyForApproval
	sc.Touch()
	sc.IncrementVersion()

	sc.AddDomainEvent(NewStockCountSubmittedEvent(sc))

	return nil
}

// Approve advances ready_for_approval to approved. Eligibility of the approver
// against the freshly resolved approver set is the caller's responsibility.
func (sc *StockCount) Approve(approverID uuid.UUID, approverName string) error {
	if !sc.Status.CanTransitionTo(StockCountStatusApproved) {
		return sc.preconditionError(StockCountStatusReadyForApproval, "submit the count for approval first")
	}
	if approverID == uuid.Nil {
		return shared.NewDomainError("INVALID_APPROVER", "Approver ID cannot be empty")
	}

	now := time.Now()
	sc.Status = StockCountStatusApproved
	sc.ApprovedBy = &approverID
	sc.ApprovedByName = approverName
	sc.ApprovedAt = &now
	sc.UpdatedAt = now
	sc.IncrementVersion()

	sc.AddDomainEvent(NewStockCountApprovedEvent(sc))

	return nil
}

// EnsureReconcilable verifies the hard precondition for reconciliation:
// the status must be exactly approved.
func (sc *StockCount) EnsureReconcilable() error {
	if sc.Status == StockCountStatusApproved {
		return nil
	}
	return sc.preconditionError(StockCountStatusApproved, finalizeHint(sc.Status))
}

// Finalize advances approved to finalized, recording who committed the
// reconciliation and the resulting total variance value. Only the
// reconciliation engine may call this.
func (sc *StockCount) Finalize(actorID uuid.UUID, totalVarianceValue decimal.Decimal) error {
	if err := sc.EnsureReconcilable(); err != nil {
		return err
	}
	if actorID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACTOR", "Actor ID cannot be empty")
	}

	now := time.Now()
	sc.Status = StockCountStatusFinalized
	sc.TotalVarianceValue = totalVarianceValue
	sc.FinalizedBy = &actorID
	sc.FinalizedAt = &now
	sc.UpdatedAt = now
	sc.IncrementVersion()

	sc.AddDomainEvent(NewStockCountFinalizedEvent(sc))

	return nil
}

// Lock advances finalized to locked, the terminal audit-frozen state.
// Locking an already locked count is a no-op, not an error.
func (sc *StockCount) Lock() error {
	if sc.Status == StockCountStatusLocked {
		return nil
	}
	if !sc.Status.CanTransitionTo(StockCountStatusLocked) {
		return sc.preconditionError(StockCountStatusFinalized, "only a finalized count can be locked")
	}

	now := time.Now()
	sc.Status = StockCountStatusLocked
	sc.LockedAt = &now
	sc.UpdatedAt = now
	sc.IncrementVersion()

	sc.AddDomainEvent(NewStockCountLockedEvent(sc))

	return nil
}

// SetRemark sets the remark for the stock count
func (sc *StockCount) SetRemark(remark string) {
	sc.Remark = remark
	sc.Touch()
}

// PendingItems returns the number of lines not yet counted
func (sc *StockCount) PendingItems() int {
	pending := 0
	for i := range sc.Items {
		if !sc.Items[i].IsCounted() {
			pending++
		}
	}
	return pending
}

// CountedItems returns the lines that have been counted
func (sc *StockCount) CountedItems() []StockCountItem {
	result := make([]StockCountItem, 0, len(sc.Items))
	for _, item := range sc.Items {
		if item.IsCounted() {
			result = append(result, item)
		}
	}
	return result
}

// IsImmutable reports whether the count and its items are frozen
func (sc *StockCount) IsImmutable() bool {
	return sc.Status == StockCountStatusFinalized || sc.Status == StockCountStatusLocked
}

// Progress returns the counting progress as a percentage
func (sc *StockCount) Progress() float64 {
	if len(sc.Items) == 0 {
		return 0
	}
	return float64(sc.ItemsCounted) / float64(len(sc.Items)) * 100
}

// preconditionError builds a PreconditionFailedError for the current status
func (sc *StockCount) preconditionError(required StockCountStatus, hint string) error {
	return &PreconditionFailedError{
		CountID:  sc.ID,
		Required: required,
		Actual:   sc.Status,
		Hint:     hint,
	}
}

// finalizeHint names the missing step when finalize is attempted too early
// or too late.
func finalizeHint(actual StockCountStatus) string {
	switch actual {
	case StockCountStatusDraft, StockCountStatusInProgress:
		return "finish counting all items first"
	case StockCountStatusCompleted:
		return "mark the count ready for approval first"
	case StockCountStatusReadyForApproval:
		return "awaiting approval"
	case StockCountStatusFinalized, StockCountStatusLocked:
		return "count has already been finalized"
	}
	return "count is not ready to finalize"
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
