package domain

import "time"

// Role is the closed set of identity categories. The role on a user record is
// authoritative; the copy embedded in a session token is a snapshot taken at
// issuance time.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleParent    Role = "PARENT"
	RoleChild     Role = "CHILD"
	RoleSupporter Role = "SUPPORTER"
	RolePartner   Role = "PARTNER"
)

// Roles lists every valid role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleParent, RoleChild, RoleSupporter, RolePartner}
}

// ParseRole validates a string against the closed role set.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.IsValid()
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleParent, RoleChild, RoleSupporter, RolePartner:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// Status is the account lifecycle state.
type Status string

const (
	StatusActive              Status = "ACTIVE"
	StatusInactive            Status = "INACTIVE"
	StatusSuspended           Status = "SUSPENDED"
	StatusPendingVerification Status = "PENDING_VERIFICATION"
)

// ParseStatus validates a string against the closed status set.
func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	return st, st.IsValid()
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended, StatusPendingVerification:
		return true
	default:
		return false
	}
}

func (s Status) String() string { return string(s) }

type User struct {
	ID           string
	Email        string // unique, stored lowercase
	Name         string
	PhoneNumber  string
	PasswordHash string // bcrypt encoded; empty for OAuth-only accounts
	Role         Role
	Status       Status
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserPatch carries a partial user update. Nil fields are left untouched.
// Role and Status are restricted fields: only admins may set them, even on
// their own record.
type UserPatch struct {
	Name        *string
	PhoneNumber *string
	Role        *Role
	Status      *Status
}

// Fields returns the names of the fields present in the patch, used for
// authorization checks and audit detail.
func (p UserPatch) Fields() []string {
	var out []string
	if p.Name != nil {
		out = append(out, "name")
	}
	if p.PhoneNumber != nil {
		out = append(out, "phone_number")
	}
	if p.Role != nil {
		out = append(out, "role")
	}
	if p.Status != nil {
		out = append(out, "status")
	}
	return out
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool { return len(p.Fields()) == 0 }

// TouchesRestricted reports whether the patch sets role or status.
func (p UserPatch) TouchesRestricted() bool { return p.Role != nil || p.Status != nil }

// UserFilter narrows admin user listings.
type UserFilter struct {
	Role   *Role
	Status *Status
	Search string // matches name or email, case-insensitive substring
	Offset int
	Limit  int
}
