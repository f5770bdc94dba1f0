package service

import (
	"github.com/hearthhq/hearth/internal/hearth/domain"
)

// DenyReason explains a denied authorization decision.
type DenyReason string

const (
	DenyUnauthenticated DenyReason = "unauthenticated"
	DenyForbidden       DenyReason = "forbidden"
	DenySelfDeletion    DenyReason = "self_deletion"
)

// Decision is the outcome of an authorization check. It is a value, not an
// error; handlers translate it to an HTTP status.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func Allow() Decision                 { return Decision{Allowed: true} }
func Deny(reason DenyReason) Decision { return Decision{Reason: reason} }

// CapabilityKind names the action being attempted.
type CapabilityKind string

const (
	CapListUsers          CapabilityKind = "users.list"
	CapReadUser           CapabilityKind = "users.read"
	CapUpdateUser         CapabilityKind = "users.update"
	CapDeleteUser         CapabilityKind = "users.delete"
	CapCreateNotification CapabilityKind = "notifications.create"
	CapReadOwn            CapabilityKind = "own.read"
	CapReadAuditLog       CapabilityKind = "audit.read"
)

// Capability describes one attempted action: what, against whom, touching
// which fields. Built via the constructors below; handlers never assemble
// one by hand.
type Capability struct {
	Kind     CapabilityKind
	TargetID string
	Fields   []string
}

func ListUsers() Capability { return Capability{Kind: CapListUsers} }
func ReadUser(targetID string) Capability {
	return Capability{Kind: CapReadUser, TargetID: targetID}
}
func UpdateUser(targetID string, fields []string) Capability {
	return Capability{Kind: CapUpdateUser, TargetID: targetID, Fields: fields}
}
func DeleteUser(targetID string) Capability {
	return Capability{Kind: CapDeleteUser, TargetID: targetID}
}
func CreateNotification() Capability { return Capability{Kind: CapCreateNotification} }
func ReadOwn(ownerID string) Capability {
	return Capability{Kind: CapReadOwn, TargetID: ownerID}
}
func ReadAuditLog() Capability { return Capability{Kind: CapReadAuditLog} }

// restrictedUserFields are the patch fields only admins may set, even on
// their own record.
var restrictedUserFields = map[string]struct{}{
	"role":   {},
	"status": {},
}

func touchesRestricted(fields []string) bool {
	for _, f := range fields {
		if _, ok := restrictedUserFields[f]; ok {
			return true
		}
	}
	return false
}

// Guard is the single policy decision point. Handlers and middleware consult
// it; nothing else in the codebase checks roles.
type Guard struct{}

// publicRoutes is the fixed allow-list of unauthenticated route patterns.
var publicRoutes = map[string]struct{}{
	"POST /v1/auth/register":   {},
	"POST /v1/auth/login":      {},
	"GET /v1/auth/csrf":        {},
	"POST /v1/webhooks/stripe": {},
	"GET /livez":               {},
	"GET /readyz":              {},
}

// IsPublic reports whether the route pattern requires no session.
func (g *Guard) IsPublic(route string) bool {
	_, ok := publicRoutes[route]
	return ok
}

// Authorize evaluates one capability for one identity. Rules are evaluated
// in a fixed order; the first matching rule wins:
//
//  1. no identity: deny unauthenticated
//  2. self-deletion: always denied, admins included
//  3. self-access: allowed, unless the patch touches role or status
//  4. role set: admins may do everything that remains
//  5. default deny
func (g *Guard) Authorize(identity *domain.Identity, cap Capability) Decision {
	if identity == nil || identity.UserID == "" {
		return Deny(DenyUnauthenticated)
	}

	self := cap.TargetID != "" && cap.TargetID == identity.UserID

	if cap.Kind == CapDeleteUser && self {
		return Deny(DenySelfDeletion)
	}

	if self {
		switch cap.Kind {
		case CapReadUser, CapReadOwn:
			return Allow()
		case CapUpdateUser:
			if !touchesRestricted(cap.Fields) {
				return Allow()
			}
			// restricted fields fall through to the role check
		}
	}

	if identity.Role == domain.RoleAdmin {
		return Allow()
	}

	return Deny(DenyForbidden)
}
