package directory

// Role is the name of a role a person holds within a company
type Role string

// Roles known to the operations platform
const (
	RoleOwner           Role = "Owner"
	RoleAdmin           Role = "Admin"
	RoleManager         Role = "Manager"
	RoleGeneralManager  Role = "General Manager"
	RoleAreaManager     Role = "Area Manager"
	RoleRegionalManager Role = "Regional Manager"
	RoleTeamMember      Role = "Team Member"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// approvalRoles is the fixed, company-independent hierarchy of roles that may
// approve a stock count, ordered from most to least senior.
var approvalRoles = []Role{
	RoleOwner,
	RoleAdmin,
	RoleManager,
	RoleGeneralManager,
	RoleAreaManager,
	RoleRegionalManager,
}

// ApprovalRoles returns the ordered set of roles authorized to approve stock
// counts. The returned slice is a copy; callers may not mutate the hierarchy.
func ApprovalRoles() []Role {
	roles := make([]Role, len(approvalRoles))
	copy(roles, approvalRoles)
	return roles
}

// IsApprovalRole reports whether the role is authorized to approve stock counts
func IsApprovalRole(r Role) bool {
	for _, role := range approvalRoles {
		if role == r {
			return true
		}
	}
	return false
}
