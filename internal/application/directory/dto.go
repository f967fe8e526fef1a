package directory

import (
	"github.com/google/uuid"

	"github.com/opsboard/backend/internal/domain/directory"
)

// ApproverCandidate is one identity currently eligible to approve counts.
// Candidates are produced fresh per resolution call and never cached.
type ApproverCandidate struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	Email       string    `json:"email"`
}

// Diagnostics explains why no approver could be resolved, so callers can
// present an actionable message instead of a bare empty list.
type Diagnostics struct {
	SitePopulation    int64    `json:"site_population"`
	CompanyPopulation int64    `json:"company_population"`
	RolesPresent      []string `json:"roles_present"`
}

// ResolutionOutcome tags an ApproverResolution
type ResolutionOutcome string

// Resolution outcomes
const (
	ResolutionFound     ResolutionOutcome = "found"
	ResolutionNoneFound ResolutionOutcome = "none_found"
)

// ResolutionStage names which fallback stage produced the result
type ResolutionStage string

// Resolution stages, in fallback order
const (
	StageSiteScope    ResolutionStage = "site_scope"
	StageCompanyScope ResolutionStage = "company_scope"
	StageDiagnostics  ResolutionStage = "diagnostics"
)

// ApproverResolution is the tagged result of resolving approvers for a site.
// Zero approvers is not an error: it is a NoneFound result carrying
// diagnostics.
type ApproverResolution struct {
	Outcome     ResolutionOutcome   `json:"outcome"`
	Stage       ResolutionStage     `json:"stage"`
	Approvers   []ApproverCandidate `json:"approvers,omitempty"`
	Diagnostics *Diagnostics        `json:"diagnostics,omitempty"`
}

// Found reports whether at least one approver was resolved
func (r *ApproverResolution) Found() bool {
	return r.Outcome == ResolutionFound
}

// Contains reports whether the given identity is in the resolved approver set
func (r *ApproverResolution) Contains(actorID uuid.UUID) bool {
	for _, a := range r.Approvers {
		if a.ID == actorID {
			return true
		}
	}
	return false
}

// ToApproverCandidate maps a directory person to an approver candidate
func ToApproverCandidate(p *directory.Person) ApproverCandidate {
	return ApproverCandidate{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Role:        p.Role.String(),
		Email:       p.Email,
	}
}

// ToApproverCandidates maps directory people to approver candidates
func ToApproverCandidates(people []directory.Person) []ApproverCandidate {
	candidates := make([]ApproverCandidate, len(people))
	for i := range people {
		candidates[i] = ToApproverCandidate(&people[i])
	}
	return candidates
}
