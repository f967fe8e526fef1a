package directory

import (
	"context"

	"github.com/google/uuid"

	"github.com/opsboard/backend/internal/domain/directory"
)

// ApproverService resolves the concrete set of identities currently
// authorized to approve stock counts at a site. Resolution is staged: the
// site scope is tried first, then the whole company, and only when both are
// empty does the service assemble diagnostics. Single-site deployments often
// have no manager explicitly assigned to a site; widening scope before giving
// up keeps counts approvable there.
type ApproverService struct {
	people directory.PeopleDirectory
}

// NewApproverService creates a new ApproverService
func NewApproverService(people directory.PeopleDirectory) *ApproverService {
	return &ApproverService{people: people}
}

// ResolveApprovers returns the eligible approver set for the site. The result
// is computed fresh on every call; it is never cached. Zero approvers is a
// first-class NoneFound result, not an error; the error return is reserved
// for transport or authorization failures reaching the people directory.
func (s *ApproverService) ResolveApprovers(ctx context.Context, companyID, siteID uuid.UUID) (*ApproverResolution, error) {
	roles := directory.ApprovalRoles()

	// Stage 1: people assigned to the site holding an authorized role.
	sitePeople, err := s.people.ListPeople(ctx, companyID, directory.PersonQuery{
		SiteID: &siteID,
		Roles:  roles,
	})
	if err != nil {
		return nil, &directory.ResolutionError{CompanyID: companyID, Stage: string(StageSiteScope), Cause: err}
	}
	if len(sitePeople) > 0 {
		return &ApproverResolution{
			Outcome:   ResolutionFound,
			Stage:     StageSiteScope,
			Approvers: ToApproverCandidates(sitePeople),
		}, nil
	}

	// Stage 2: escalate to head-office roles across the whole company.
	companyPeople, err := s.people.ListPeople(ctx, companyID, directory.PersonQuery{
		Roles: roles,
	})
	if err != nil {
		return nil, &directory.ResolutionError{CompanyID: companyID, Stage: string(StageCompanyScope), Cause: err}
	}
	if len(companyPeople) > 0 {
		return &ApproverResolution{
			Outcome:   ResolutionFound,
			Stage:     StageCompanyScope,
			Approvers: ToApproverCandidates(companyPeople),
		}, nil
	}

	// Stage 3: nobody qualifies anywhere. Gather the raw population and role
	// figures so the caller can say why, not just that the list is empty.
	diagnostics, err := s.collectDiagnostics(ctx, companyID, siteID)
	if err != nil {
		return nil, &directory.ResolutionError{CompanyID: companyID, Stage: string(StageDiagnostics), Cause: err}
	}

	return &ApproverResolution{
		Outcome:     ResolutionNoneFound,
		Stage:       StageDiagnostics,
		Approvers:   []ApproverCandidate{},
		Diagnostics: diagnostics,
	}, nil
}

// collectDiagnostics queries population sizes and the distinct roles actually
// present in the company, regardless of the approval role filter.
func (s *ApproverService) collectDiagnostics(ctx context.Context, companyID, siteID uuid.UUID) (*Diagnostics, error) {
	siteCount, err := s.people.CountPeople(ctx, companyID, directory.PersonQuery{SiteID: &siteID})
	if err != nil {
		return nil, err
	}

	companyCount, err := s.people.CountPeople(ctx, companyID, directory.PersonQuery{})
	if err != nil {
		return nil, err
	}

	roles, err := s.people.DistinctRoles(ctx, companyID)
	if err != nil {
		return nil, err
	}

	rolesPresent := make([]string, len(roles))
	for i, r := range roles {
		rolesPresent[i] = r.String()
	}

	return &Diagnostics{
		SitePopulation:    siteCount,
		CompanyPopulation: companyCount,
		RolesPresent:      rolesPresent,
	}, nil
}
