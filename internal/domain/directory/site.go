package directory

import (
	"time"

	"github.com/google/uuid"
)

// Site is a physical location (kitchen, store, warehouse) belonging to a company.
// The engine reads sites to validate count guards; it never mutates them.
type Site struct {
	ID         uuid.UUID
	CompanyID  uuid.UUID
	Name       string
	Archived   bool
	ArchivedAt *time.Time
}

// IsActive reports whether counts may be performed at this site
func (s *Site) IsActive() bool {
	return !s.Archived
}
