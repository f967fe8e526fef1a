package directory

import (
	"fmt"

	"github.com/google/uuid"
)

// ResolutionError is a transport or authorization failure reaching the people
// directory. It is always surfaced to the caller and never retried internally.
type ResolutionError struct {
	CompanyID uuid.UUID
	Stage     string // which resolution stage was running when the failure occurred
	Cause     error
}

// Error implements the error interface
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("approver resolution for company %s failed during %s: %v", e.CompanyID, e.Stage, e.Cause)
}

// Unwrap returns the underlying cause
func (e *ResolutionError) Unwrap() error {
	return e.Cause
}
