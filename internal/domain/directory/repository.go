package directory

import (
	"context"

	"github.com/google/uuid"
)

// PersonQuery narrows a people directory listing. A nil SiteID means
// company-wide; an empty Roles slice means no role filter.
type PersonQuery struct {
	SiteID *uuid.UUID
	Roles  []Role
}

// PeopleDirectory defines read-only access to the people directory.
// The engine never writes to it.
type PeopleDirectory interface {
	// ListPeople returns people in the company matching the query,
	// ordered by display name
	ListPeople(ctx context.Context, companyID uuid.UUID, query PersonQuery) ([]Person, error)

	// CountPeople returns the number of people matching the query
	CountPeople(ctx context.Context, companyID uuid.UUID, query PersonQuery) (int64, error)

	// DistinctRoles returns the distinct set of role values actually present
	// in the company, for diagnostics when no approvers can be resolved
	DistinctRoles(ctx context.Context, companyID uuid.UUID) ([]Role, error)
}

// SiteRepository defines read-only access to company sites
type SiteRepository interface {
	// FindByIDForCompany finds a site by ID within a company
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Site, error)
}
