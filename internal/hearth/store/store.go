package store

import (
	"context"
	"errors"
	"time"

	"github.com/hearthhq/hearth/internal/hearth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. Sub-repositories keep concerns tidy and individually
// mockable in service tests.
type Store interface {
	Users() Users
	AuditLogs() AuditLogs
	Notifications() Notifications
	Payments() Payments
	Subscriptions() Subscriptions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise committed. Preferred over Tx for
	// multi-step operations like webhook effects.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying database handle.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Same repos plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up by email. Callers pass the already-lowercased
	// form; the unique index matches case-insensitively either way.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id minted by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken, including when the
	// existing row differs only by letter case.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser applies the non-nil patch fields and bumps updated_at.
	UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (domain.User, error)

	// UpdateLastLogin stamps last_login_at.
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error

	// DeleteUser removes the row; notifications, payments and subscriptions
	// cascade per schema. Audit entries are deliberately kept.
	DeleteUser(ctx context.Context, id string) error

	// ListUsers returns a filtered page plus the total count for pagination.
	ListUsers(ctx context.Context, f domain.UserFilter) ([]domain.User, int, error)
}

type AuditLogs interface {
	// CreateEntry appends one immutable entry. There is no update or delete.
	CreateEntry(ctx context.Context, e domain.AuditLogEntry) error

	// ListEntries returns entries newest first for admin review.
	ListEntries(ctx context.Context, f domain.AuditFilter) ([]domain.AuditLogEntry, error)
}

type Notifications interface {
	CreateNotification(ctx context.Context, n domain.Notification) error

	GetNotificationByID(ctx context.Context, id string) (domain.Notification, error)

	// ListNotifications returns a page for one user plus the total count.
	ListNotifications(ctx context.Context, f domain.NotificationFilter) ([]domain.Notification, int, error)

	// CountUnread returns the user's unread badge count.
	CountUnread(ctx context.Context, userID string) (int, error)

	// MarkNotificationRead flips read and stamps read_at.
	MarkNotificationRead(ctx context.Context, id string, at time.Time) error

	// DeleteReadOlderThan is housekeeping for the read backlog.
	DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type Payments interface {
	CreatePayment(ctx context.Context, p domain.Payment) error

	// GetPaymentByProviderID resolves the processor's id to the local row;
	// this is how webhook events find their payment.
	GetPaymentByProviderID(ctx context.Context, providerID string) (domain.Payment, error)

	// UpdatePaymentStatus transitions status and bumps updated_at.
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error
}

type Subscriptions interface {
	CreateSubscription(ctx context.Context, s domain.Subscription) error

	GetSubscriptionByProviderID(ctx context.Context, providerID string) (domain.Subscription, error)

	// UpdateSubscription refreshes the processor-owned fields after a
	// subscription webhook.
	UpdateSubscription(ctx context.Context, id string, status domain.SubscriptionStatus,
		periodStart, periodEnd time.Time, cancelAtPeriodEnd bool) error

	// UpdateSubscriptionStatus transitions only the status (cancellation).
	UpdateSubscriptionStatus(ctx context.Context, id string, status domain.SubscriptionStatus) error
}
