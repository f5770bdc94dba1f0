package domain

import "time"

// AuditAction is the closed set of security-relevant events this system
// records. New actions are additive; existing names never change because the
// audit table is append-only forensic history.
type AuditAction string

const (
	AuditRegister             AuditAction = "REGISTER"
	AuditLogin                AuditAction = "LOGIN"
	AuditLogout               AuditAction = "LOGOUT"
	AuditUserUpdated          AuditAction = "USER_UPDATED"
	AuditUserDeleted          AuditAction = "USER_DELETED"
	AuditNotificationCreated  AuditAction = "NOTIFICATION_CREATED"
	AuditPaymentIntentCreated AuditAction = "PAYMENT_INTENT_CREATED"
	AuditPaymentCompleted     AuditAction = "PAYMENT_COMPLETED"
	AuditPaymentFailed        AuditAction = "PAYMENT_FAILED"
	AuditSubscriptionCreated  AuditAction = "SUBSCRIPTION_CREATED"
)

// AuditDetail is the free-form structured payload attached to an entry.
// It is marshalled to JSON at write time and never interpreted afterwards.
type AuditDetail map[string]any

// AuditLogEntry is immutable once written. There is no update or delete path
// anywhere in the codebase, only inserts and reads.
type AuditLogEntry struct {
	ID        string
	ActorID   string
	Action    AuditAction
	Resource  string // optional resource type, e.g. "user", "payment"
	Detail    AuditDetail
	CreatedAt time.Time
}

// AuditFilter narrows audit log reads (admin review).
type AuditFilter struct {
	ActorID string
	Action  AuditAction
	Offset  int
	Limit   int
}
