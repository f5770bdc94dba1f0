package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/hearthhq/hearth/internal/hearth/domain"
	"github.com/hearthhq/hearth/internal/hearth/store"
	"github.com/hearthhq/hearth/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s *Store, email string, role domain.Role) domain.User {
	t.Helper()

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         "Test User",
		PasswordHash: "$2a$10$notarealhashnotarealhashnotarealhashaaaaaaaaaaaaaaaaaa",
		Role:         role,
		Status:       domain.StatusActive,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func TestUsersRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "alice@example.com", domain.RoleParent)

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, got.Email)
	require.Equal(t, domain.RoleParent, got.Role)
	require.Equal(t, domain.StatusActive, got.Status)
	require.Nil(t, got.LastLoginAt)
	require.False(t, got.CreatedAt.IsZero())

	byEmail, err := s.Users().GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	_, err = s.Users().GetUserByID(ctx, "nope")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDuplicateEmailRejectedCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "alice@example.com", domain.RoleParent)

	dup := domain.User{
		ID:     idx.New().String(),
		Email:  "Alice@Example.COM",
		Name:   "Impostor",
		Role:   domain.RoleParent,
		Status: domain.StatusActive,
	}
	err := s.Users().CreateUser(ctx, dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	// Lookup is case-insensitive too.
	got, err := s.Users().GetUserByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", got.Email)
}

func TestUpdateUserPatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "bob@example.com", domain.RoleChild)

	name := "Bobby"
	role := domain.RoleSupporter
	got, err := s.Users().UpdateUser(ctx, u.ID, domain.UserPatch{Name: &name, Role: &role})
	require.NoError(t, err)
	require.Equal(t, "Bobby", got.Name)
	require.Equal(t, domain.RoleSupporter, got.Role)
	require.Equal(t, "bob@example.com", got.Email)

	// Empty patch is a read.
	same, err := s.Users().UpdateUser(ctx, u.ID, domain.UserPatch{})
	require.NoError(t, err)
	require.Equal(t, got.Name, same.Name)

	_, err = s.Users().UpdateUser(ctx, "missing", domain.UserPatch{Name: &name})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateLastLogin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "carol@example.com", domain.RoleParent)

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.Users().UpdateLastLogin(ctx, u.ID, at))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
	require.WithinDuration(t, at, *got.LastLoginAt, time.Second)
}

func TestListUsersFilterAndPage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "admin@example.com", domain.RoleAdmin)
	seedUser(t, s, "p1@example.com", domain.RoleParent)
	seedUser(t, s, "p2@example.com", domain.RoleParent)

	role := domain.RoleParent
	users, total, err := s.Users().ListUsers(ctx, domain.UserFilter{Role: &role})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, users, 2)

	users, total, err = s.Users().ListUsers(ctx, domain.UserFilter{Role: &role, Limit: 1})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, users, 1)

	users, total, err = s.Users().ListUsers(ctx, domain.UserFilter{Search: "P1@"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "p1@example.com", users[0].Email)
}

func TestDeleteUserCascadesButKeepsAudit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "dave@example.com", domain.RoleParent)

	require.NoError(t, s.Notifications().CreateNotification(ctx, domain.Notification{
		ID:      idx.New().String(),
		UserID:  u.ID,
		Title:   "Welcome",
		Message: "hello",
		Type:    "general",
	}))
	require.NoError(t, s.AuditLogs().CreateEntry(ctx, domain.AuditLogEntry{
		ID:      idx.New().String(),
		ActorID: u.ID,
		Action:  domain.AuditRegister,
	}))

	require.NoError(t, s.Users().DeleteUser(ctx, u.ID))

	_, total, err := s.Notifications().ListNotifications(ctx, domain.NotificationFilter{UserID: u.ID})
	require.NoError(t, err)
	require.Zero(t, total)

	// Audit entries survive deletion of the actor.
	entries, err := s.AuditLogs().ListEntries(ctx, domain.AuditFilter{ActorID: u.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, domain.AuditRegister, entries[0].Action)

	require.ErrorIs(t, s.Users().DeleteUser(ctx, u.ID), store.ErrNotFound)
}

func TestAuditDetailRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AuditLogs().CreateEntry(ctx, domain.AuditLogEntry{
		ID:       idx.New().String(),
		ActorID:  "actor-1",
		Action:   domain.AuditUserUpdated,
		Resource: "user",
		Detail:   domain.AuditDetail{"fields": []any{"name"}, "target": "user-2"},
	}))

	entries, err := s.AuditLogs().ListEntries(ctx, domain.AuditFilter{Action: domain.AuditUserUpdated})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "user", entries[0].Resource)
	require.Equal(t, "user-2", entries[0].Detail["target"])
}

func TestNotificationsReadFlow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "eve@example.com", domain.RoleParent)

	n1 := domain.Notification{ID: idx.New().String(), UserID: u.ID, Title: "a", Message: "m", Type: "general"}
	n2 := domain.Notification{ID: idx.New().String(), UserID: u.ID, Title: "b", Message: "m", Type: "general"}
	require.NoError(t, s.Notifications().CreateNotification(ctx, n1))
	require.NoError(t, s.Notifications().CreateNotification(ctx, n2))

	count, err := s.Notifications().CountUnread(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	require.NoError(t, s.Notifications().MarkNotificationRead(ctx, n1.ID, time.Now()))

	count, err = s.Notifications().CountUnread(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	unread, total, err := s.Notifications().ListNotifications(ctx, domain.NotificationFilter{UserID: u.ID, UnreadOnly: true})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, n2.ID, unread[0].ID)

	got, err := s.Notifications().GetNotificationByID(ctx, n1.ID)
	require.NoError(t, err)
	require.True(t, got.Read)
	require.NotNil(t, got.ReadAt)

	deleted, err := s.Notifications().DeleteReadOlderThan(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)
}

func TestPaymentsByProviderID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "frank@example.com", domain.RoleSupporter)

	p := domain.Payment{
		ID:                idx.New().String(),
		UserID:            u.ID,
		ProviderPaymentID: "pi_123",
		Amount:            2500,
		Currency:          "usd",
		Type:              domain.PaymentDonation,
		Status:            domain.PaymentPending,
	}
	require.NoError(t, s.Payments().CreatePayment(ctx, p))

	// Duplicate provider id rejected.
	dup := p
	dup.ID = idx.New().String()
	require.ErrorIs(t, s.Payments().CreatePayment(ctx, dup), store.ErrAlreadyExists)

	got, err := s.Payments().GetPaymentByProviderID(ctx, "pi_123")
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)
	require.EqualValues(t, 2500, got.Amount)

	require.NoError(t, s.Payments().UpdatePaymentStatus(ctx, p.ID, domain.PaymentCompleted))
	got, err = s.Payments().GetPaymentByProviderID(ctx, "pi_123")
	require.NoError(t, err)
	require.Equal(t, domain.PaymentCompleted, got.Status)
}

func TestSubscriptionsUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "grace@example.com", domain.RolePartner)

	start := time.Now().UTC().Truncate(time.Second)
	end := start.Add(30 * 24 * time.Hour)
	sub := domain.Subscription{
		ID:                     idx.New().String(),
		UserID:                 u.ID,
		ProviderSubscriptionID: "sub_123",
		ProviderPriceID:        "price_123",
		Status:                 domain.SubscriptionActive,
		CurrentPeriodStart:     start,
		CurrentPeriodEnd:       end,
	}
	require.NoError(t, s.Subscriptions().CreateSubscription(ctx, sub))

	newEnd := end.Add(30 * 24 * time.Hour)
	require.NoError(t, s.Subscriptions().UpdateSubscription(ctx, sub.ID,
		domain.SubscriptionPastDue, end, newEnd, true))

	got, err := s.Subscriptions().GetSubscriptionByProviderID(ctx, "sub_123")
	require.NoError(t, err)
	require.Equal(t, domain.SubscriptionPastDue, got.Status)
	require.True(t, got.CancelAtPeriodEnd)
	require.WithinDuration(t, newEnd, got.CurrentPeriodEnd, time.Second)

	require.NoError(t, s.Subscriptions().UpdateSubscriptionStatus(ctx, sub.ID, domain.SubscriptionCanceled))
	got, err = s.Subscriptions().GetSubscriptionByProviderID(ctx, "sub_123")
	require.NoError(t, err)
	require.Equal(t, domain.SubscriptionCanceled, got.Status)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "henry@example.com", domain.RoleParent)

	boom := context.Canceled
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Payments().CreatePayment(ctx, domain.Payment{
			ID:                idx.New().String(),
			UserID:            u.ID,
			ProviderPaymentID: "pi_tx",
			Amount:            100,
			Currency:          "usd",
			Type:              domain.PaymentOneTime,
			Status:            domain.PaymentPending,
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Payments().GetPaymentByProviderID(ctx, "pi_tx")
	require.ErrorIs(t, err, store.ErrNotFound)
}
