package service

import (
	"context"
	"testing"

	"github.com/hearthhq/hearth/internal/hearth/domain"
	"github.com/hearthhq/hearth/internal/hearth/store"
	"github.com/hearthhq/hearth/internal/hearth/store/drivers/sqlite"
	"github.com/hearthhq/hearth/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newNotificationService(t *testing.T) (*NotificationService, *sqlite.Store) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	return &NotificationService{Store: st, Audit: &AuditService{Store: st}}, st
}

func seedRecipient(t *testing.T, st *sqlite.Store, email string) domain.User {
	t.Helper()

	u := domain.User{
		ID:     idx.New().String(),
		Email:  email,
		Name:   "Recipient",
		Role:   domain.RoleParent,
		Status: domain.StatusActive,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func TestNotificationCreateAndList(t *testing.T) {
	svc, st := newNotificationService(t)
	ctx := context.Background()
	u := seedRecipient(t, st, "r1@example.com")

	created, err := svc.Create(ctx, "admin-1", domain.Notification{
		UserID:  u.ID,
		Title:   "Welcome",
		Message: "Hello there",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "general", created.Type)

	items, total, unread, err := svc.List(ctx, domain.NotificationFilter{UserID: u.ID})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, 1, unread)
	require.Equal(t, created.ID, items[0].ID)

	entries, err := st.AuditLogs().ListEntries(ctx, domain.AuditFilter{Action: domain.AuditNotificationCreated})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "admin-1", entries[0].ActorID)
}

func TestNotificationCreateUnknownRecipient(t *testing.T) {
	svc, _ := newNotificationService(t)

	_, err := svc.Create(context.Background(), "admin-1", domain.Notification{
		UserID:  "missing",
		Title:   "x",
		Message: "y",
	})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestNotificationMarkReadOwnerOnly(t *testing.T) {
	svc, st := newNotificationService(t)
	ctx := context.Background()
	owner := seedRecipient(t, st, "owner@example.com")
	other := seedRecipient(t, st, "other@example.com")

	created, err := svc.Create(ctx, "admin-1", domain.Notification{
		UserID:  owner.ID,
		Title:   "For owner",
		Message: "m",
	})
	require.NoError(t, err)

	require.ErrorIs(t, svc.MarkRead(ctx, other.ID, created.ID), ErrNotOwner)
	require.NoError(t, svc.MarkRead(ctx, owner.ID, created.ID))

	// Marking an already-read notification is quiet.
	require.NoError(t, svc.MarkRead(ctx, owner.ID, created.ID))

	_, _, unread, err := svc.List(ctx, domain.NotificationFilter{UserID: owner.ID})
	require.NoError(t, err)
	require.Zero(t, unread)
}
