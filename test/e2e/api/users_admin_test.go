package api_test

import (
	"net/http"
	"testing"

	"github.com/hearthhq/hearth/pkg/hearthsdk"
	"github.com/stretchr/testify/require"
)

// TestAdminUserManagement walks the admin surface: list, inspect, promote,
// suspend and delete accounts.
func TestAdminUserManagement(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := hearthsdk.NewClient(baseURL)
	admin := loginAdmin(t, client)

	parent, err := client.Register(t.Context(), hearthsdk.RegisterRequest{
		Email:    "managed@example.com",
		Password: "sup3rsecret",
		Name:     "Managed",
	})
	require.NoError(t, err)

	t.Run("list filters by role", func(t *testing.T) {
		list, err := admin.ListUsers(t.Context(), "PARENT", "", "", 0, 50)
		require.NoError(t, err)
		require.Equal(t, 1, list.Total)
		require.Equal(t, parent.User().ID, list.Users[0].ID)
	})

	t.Run("search matches email", func(t *testing.T) {
		list, err := admin.ListUsers(t.Context(), "", "", "managed", 0, 50)
		require.NoError(t, err)
		require.Equal(t, 1, list.Total)
	})

	t.Run("promote to supporter", func(t *testing.T) {
		role := "SUPPORTER"
		updated, err := admin.UpdateUser(t.Context(), parent.User().ID, hearthsdk.UpdateUserRequest{Role: &role})
		require.NoError(t, err)
		require.Equal(t, "SUPPORTER", updated.Role)
	})

	t.Run("suspend account blocks login", func(t *testing.T) {
		status := "SUSPENDED"
		_, err := admin.UpdateUser(t.Context(), parent.User().ID, hearthsdk.UpdateUserRequest{Status: &status})
		require.NoError(t, err)

		_, err = client.Login(t.Context(), "managed@example.com", "sup3rsecret")
		assertAPIError(t, err, http.StatusUnauthorized, "account_disabled")

		active := "ACTIVE"
		_, err = admin.UpdateUser(t.Context(), parent.User().ID, hearthsdk.UpdateUserRequest{Status: &active})
		require.NoError(t, err)
	})

	t.Run("self deletion denied", func(t *testing.T) {
		err := admin.DeleteUser(t.Context(), admin.User().ID)
		assertAPIError(t, err, http.StatusForbidden, "self_deletion")
	})

	t.Run("delete account", func(t *testing.T) {
		require.NoError(t, admin.DeleteUser(t.Context(), parent.User().ID))

		_, err := admin.GetUser(t.Context(), parent.User().ID)
		assertAPIError(t, err, http.StatusNotFound, "not_found")
	})
}

// TestNonAdminBoundaries verifies a regular account cannot reach the admin
// surface or other accounts.
func TestNonAdminBoundaries(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := hearthsdk.NewClient(baseURL)
	admin := loginAdmin(t, client)

	user, err := client.Register(t.Context(), hearthsdk.RegisterRequest{
		Email:    "regular@example.com",
		Password: "sup3rsecret",
		Name:     "Regular",
	})
	require.NoError(t, err)

	t.Run("cannot list users", func(t *testing.T) {
		_, err := user.ListUsers(t.Context(), "", "", "", 0, 50)
		assertAPIError(t, err, http.StatusForbidden, "forbidden")
	})

	t.Run("cannot read another account", func(t *testing.T) {
		_, err := user.GetUser(t.Context(), admin.User().ID)
		assertAPIError(t, err, http.StatusForbidden, "forbidden")
	})

	t.Run("cannot change own role", func(t *testing.T) {
		role := "ADMIN"
		_, err := user.UpdateUser(t.Context(), user.User().ID, hearthsdk.UpdateUserRequest{Role: &role})
		assertAPIError(t, err, http.StatusForbidden, "forbidden")
	})

	t.Run("can update own name", func(t *testing.T) {
		name := "Renamed"
		updated, err := user.UpdateUser(t.Context(), user.User().ID, hearthsdk.UpdateUserRequest{Name: &name})
		require.NoError(t, err)
		require.Equal(t, "Renamed", updated.Name)
	})

	t.Run("cannot read the audit log", func(t *testing.T) {
		_, err := user.ListAuditLog(t.Context(), "", "", 0, 50)
		assertAPIError(t, err, http.StatusForbidden, "forbidden")
	})
}

// TestAuditTrail verifies operations leave their trace in the audit log.
func TestAuditTrail(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := hearthsdk.NewClient(baseURL)
	admin := loginAdmin(t, client)

	audited, err := client.Register(t.Context(), hearthsdk.RegisterRequest{
		Email:    "audited@example.com",
		Password: "sup3rsecret",
		Name:     "Audited",
	})
	require.NoError(t, err)

	entries, err := admin.ListAuditLog(t.Context(), audited.User().ID, "REGISTER", 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "REGISTER", entries[0].Action)

	// Deleting the account keeps its audit history.
	require.NoError(t, admin.DeleteUser(t.Context(), audited.User().ID))

	entries, err = admin.ListAuditLog(t.Context(), audited.User().ID, "REGISTER", 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1, "audit entries must survive account deletion")
}
