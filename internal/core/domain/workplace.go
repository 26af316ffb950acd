package domain

// UserWorkplaceRole defines the role the authenticated caller holds within a workplace.
type UserWorkplaceRole string

const (
	RoleAdmin    UserWorkplaceRole = "ADMIN"
	RoleMember   UserWorkplaceRole = "MEMBER"
	RoleReadOnly UserWorkplaceRole = "READONLY" // Users with read-only access to workplace data
	RoleContact  UserWorkplaceRole = "CONTACT"  // Customer/vendor portal users, limited to their own documents
)

// Actor is the authenticated caller. It is supplied by the transport layer and used
// for audit fields; authorization decisions are made before the core is invoked.
type Actor struct {
	UserID       string
	Role         UserWorkplaceRole
	ContactID    string   // set for RoleContact
	WorkplaceIDs []string // workplaces the caller belongs to
}

// MemberOf reports whether the caller belongs to workplaceID.
func (a Actor) MemberOf(workplaceID string) bool {
	if workplaceID == "" {
		return false
	}
	for _, id := range a.WorkplaceIDs {
		if id == workplaceID {
			return true
		}
	}
	return false
}

// CanWrite reports whether the role may perform mutating operations.
func (a Actor) CanWrite() bool {
	return a.Role == RoleAdmin || a.Role == RoleMember
}

// Scope narrows read operations. A nil RestrictToContactID means no restriction.
type Scope struct {
	RestrictToContactID *string
}

// ScopeFor derives the read scope for an actor.
func ScopeFor(a Actor) Scope {
	if a.Role == RoleContact {
		id := a.ContactID
		return Scope{RestrictToContactID: &id}
	}
	return Scope{}
}

// Allows reports whether a document owned by contactID is visible in this scope.
func (s Scope) Allows(contactID string) bool {
	return s.RestrictToContactID == nil || *s.RestrictToContactID == contactID
}
