package api_test

import (
	"net/http"
	"testing"

	"github.com/hearthhq/hearth/pkg/hearthsdk"
	"github.com/stretchr/testify/require"
)

// TestRegisterAndLoginFlow covers the full account lifecycle: register,
// re-login, fetch own record, log out.
func TestRegisterAndLoginFlow(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := hearthsdk.NewClient(baseURL)

	session, err := client.Register(t.Context(), hearthsdk.RegisterRequest{
		Email:    "parent@example.com",
		Password: "sup3rsecret",
		Name:     "Pat Parent",
	})
	require.NoError(t, err)
	require.Equal(t, "PARENT", session.User().Role)
	require.Equal(t, "ACTIVE", session.User().Status)
	require.NotEmpty(t, session.Token())

	// A fresh login works with the same credentials.
	login, err := client.Login(t.Context(), "parent@example.com", "sup3rsecret")
	require.NoError(t, err)
	require.Equal(t, session.User().ID, login.User().ID)

	// The session can read its own record.
	me, err := login.GetUser(t.Context(), login.User().ID)
	require.NoError(t, err)
	require.Equal(t, "Pat Parent", me.Name)
	require.NotNil(t, me.LastLoginAt, "login should stamp last_login_at")

	require.NoError(t, login.Logout(t.Context()))
}

// TestRegisterDuplicateEmail verifies the conflict is reported with a 409,
// regardless of email case.
func TestRegisterDuplicateEmail(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := hearthsdk.NewClient(baseURL)

	_, err := client.Register(t.Context(), hearthsdk.RegisterRequest{
		Email:    "taken@example.com",
		Password: "sup3rsecret",
		Name:     "First",
	})
	require.NoError(t, err)

	_, err = client.Register(t.Context(), hearthsdk.RegisterRequest{
		Email:    "TAKEN@example.com",
		Password: "sup3rsecret",
		Name:     "Second",
	})
	assertAPIError(t, err, http.StatusConflict, "conflict")
}

// TestLoginRejectsBadCredentials verifies unknown accounts and wrong
// passwords are indistinguishable to the caller.
func TestLoginRejectsBadCredentials(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := hearthsdk.NewClient(baseURL)

	_, err := client.Register(t.Context(), hearthsdk.RegisterRequest{
		Email:    "known@example.com",
		Password: "sup3rsecret",
		Name:     "Known",
	})
	require.NoError(t, err)

	_, err = client.Login(t.Context(), "known@example.com", "wrong-password")
	assertAPIError(t, err, http.StatusUnauthorized, "invalid_credentials")

	_, err = client.Login(t.Context(), "nobody@example.com", "wrong-password")
	assertAPIError(t, err, http.StatusUnauthorized, "invalid_credentials")
}

// TestCSRFTokenIssued verifies the CSRF endpoint hands out fresh tokens.
func TestCSRFTokenIssued(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := hearthsdk.NewClient(baseURL)

	session, err := client.Register(t.Context(), hearthsdk.RegisterRequest{
		Email:    "csrf@example.com",
		Password: "sup3rsecret",
		Name:     "CSRF",
	})
	require.NoError(t, err)

	first, err := session.CSRFToken(t.Context())
	require.NoError(t, err)
	require.Len(t, first, 64)

	second, err := session.CSRFToken(t.Context())
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}
