package inventory

import (
	"fmt"

	"github.com/google/uuid"
)

// PreconditionFailedError is returned when a transition or reconciliation is
// attempted from a status that does not permit it. It carries the required and
// actual status plus a user-facing hint naming the missing step.
type PreconditionFailedError struct {
	CountID  uuid.UUID
	Required StockCountStatus
	Actual   StockCountStatus
	Hint     string
}

// Error implements the error interface
func (e *PreconditionFailedError) Error() string {
	return fmt.Sprintf("count %s requires status %s but is %s (%s)", e.CountID, e.Required, e.Actual, e.Hint)
}

// ConcurrentModificationError is returned when a status-guarded write matched
// zero rows because another transition won the race. Callers must re-fetch the
// count before deciding whether to retry; the engine never retries itself.
type ConcurrentModificationError struct {
	CountID   uuid.UUID
	Attempted StockCountStatus
	Expected  StockCountStatus
}

// Error implements the error interface
func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("count %s was moved by a concurrent transition while advancing from %s to %s", e.CountID, e.Expected, e.Attempted)
}

// ApproverNotEligibleError is returned when the acting identity is not in the
// freshly resolved approver set for the count's site.
type ApproverNotEligibleError struct {
	CountID uuid.UUID
	ActorID uuid.UUID
	SiteID  uuid.UUID
}

// Error implements the error interface
func (e *ApproverNotEligibleError) Error() string {
	return fmt.Sprintf("actor %s is not in the current approver set for site %s", e.ActorID, e.SiteID)
}

// ReconciliationFailedError is returned when any step of the atomic adjustment
// transaction fails. The transaction has been rolled back in full: the count
// remains approved and no stock or batch row was touched.
type ReconciliationFailedError struct {
	CountID uuid.UUID
	ItemID  *uuid.UUID // offending count line, when known
	BatchID *uuid.UUID // offending batch, when known
	Step    string
	Cause   error
}

// Error implements the error interface
func (e *ReconciliationFailedError) Error() string {
	msg := fmt.Sprintf("reconciliation of count %s failed at step %q", e.CountID, e.Step)
	if e.ItemID != nil {
		msg += fmt.Sprintf(" on item %s", *e.ItemID)
	}
	if e.BatchID != nil {
		msg += fmt.Sprintf(" on batch %s", *e.BatchID)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg + "; no changes were made"
}

// Unwrap returns the underlying cause
func (e *ReconciliationFailedError) Unwrap() error {
	return e.Cause
}
