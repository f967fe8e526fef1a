package directory

import (
	"github.com/google/uuid"
)

// Person is a read-only projection of one entry in the people directory.
// It is produced fresh per resolution call and never persisted by this engine.
type Person struct {
	ID          uuid.UUID
	CompanyID   uuid.UUID
	SiteID      *uuid.UUID // nil for head-office people not assigned to a site
	DisplayName string
	Role        Role
	Email       string
}

// IsAssignedToSite reports whether the person is assigned to the given site
func (p *Person) IsAssignedToSite(siteID uuid.UUID) bool {
	return p.SiteID != nil && *p.SiteID == siteID
}

// CanApproveCounts reports whether the person's role is in the approval hierarchy
func (p *Person) CanApproveCounts() bool {
	return IsApprovalRole(p.Role)
}
