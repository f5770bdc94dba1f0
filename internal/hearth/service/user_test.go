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

func newUserService(t *testing.T) (*UserService, *sqlite.Store) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	return &UserService{Store: st, Audit: &AuditService{Store: st}}, st
}

func seedAccount(t *testing.T, st *sqlite.Store, email string, role domain.Role) domain.User {
	t.Helper()

	u := domain.User{
		ID:     idx.New().String(),
		Email:  email,
		Name:   "Someone",
		Role:   role,
		Status: domain.StatusActive,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func TestUserServiceUpdateAudits(t *testing.T) {
	svc, st := newUserService(t)
	ctx := context.Background()

	admin := seedAccount(t, st, "admin@example.com", domain.RoleAdmin)
	target := seedAccount(t, st, "target@example.com", domain.RoleParent)

	name := "Renamed"
	role := domain.RoleSupporter
	updated, err := svc.UpdateUser(ctx, admin.ID, target.ID, domain.UserPatch{Name: &name, Role: &role})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	require.Equal(t, domain.RoleSupporter, updated.Role)

	entries, err := st.AuditLogs().ListEntries(ctx, domain.AuditFilter{Action: domain.AuditUserUpdated})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, admin.ID, entries[0].ActorID)
	require.Equal(t, target.ID, entries[0].Detail["target_user_id"])

	fields, ok := entries[0].Detail["fields"].([]any)
	require.True(t, ok)
	require.ElementsMatch(t, []any{"name", "role"}, fields)
}

func TestUserServiceDeleteAudits(t *testing.T) {
	svc, st := newUserService(t)
	ctx := context.Background()

	admin := seedAccount(t, st, "admin@example.com", domain.RoleAdmin)
	target := seedAccount(t, st, "gone@example.com", domain.RoleParent)

	require.NoError(t, svc.DeleteUser(ctx, admin.ID, target.ID))
	require.ErrorIs(t, svc.DeleteUser(ctx, admin.ID, target.ID), store.ErrNotFound)

	entries, err := st.AuditLogs().ListEntries(ctx, domain.AuditFilter{Action: domain.AuditUserDeleted})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, target.ID, entries[0].Detail["deleted_user_id"])
}
