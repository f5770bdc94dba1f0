package api_test

import (
	"net/http"
	"testing"

	"github.com/hearthhq/hearth/pkg/hearthsdk"
	"github.com/stretchr/testify/require"
)

// TestNotificationLifecycle covers creation by an admin, inbox listing and
// the read transition for the recipient.
func TestNotificationLifecycle(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := hearthsdk.NewClient(baseURL)
	admin := loginAdmin(t, client)

	recipient, err := client.Register(t.Context(), hearthsdk.RegisterRequest{
		Email:    "inbox@example.com",
		Password: "sup3rsecret",
		Name:     "Inbox",
	})
	require.NoError(t, err)

	created, err := admin.CreateNotification(t.Context(), hearthsdk.CreateNotificationRequest{
		UserID:  recipient.User().ID,
		Title:   "Welcome",
		Message: "Your account is ready.",
	})
	require.NoError(t, err)
	require.False(t, created.Read)

	t.Run("recipient sees it unread", func(t *testing.T) {
		list, err := recipient.ListNotifications(t.Context(), true)
		require.NoError(t, err)
		require.Equal(t, 1, list.Unread)
		require.Len(t, list.Notifications, 1)
		require.Equal(t, "Welcome", list.Notifications[0].Title)
	})

	t.Run("recipient marks it read", func(t *testing.T) {
		require.NoError(t, recipient.MarkNotificationRead(t.Context(), created.ID))

		list, err := recipient.ListNotifications(t.Context(), true)
		require.NoError(t, err)
		require.Equal(t, 0, list.Unread)
	})

	t.Run("admin cannot mark it read", func(t *testing.T) {
		err := admin.MarkNotificationRead(t.Context(), created.ID)
		assertAPIError(t, err, http.StatusForbidden, "forbidden")
	})

	t.Run("regular account cannot create", func(t *testing.T) {
		_, err := recipient.CreateNotification(t.Context(), hearthsdk.CreateNotificationRequest{
			UserID:  recipient.User().ID,
			Title:   "Nope",
			Message: "Nope",
		})
		assertAPIError(t, err, http.StatusForbidden, "forbidden")
	})
}

// TestPaymentsWithoutProcessorKey verifies the payment endpoints fail
// closed when no processor credentials are configured.
func TestPaymentsWithoutProcessorKey(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := hearthsdk.NewClient(baseURL)

	payer, err := client.Register(t.Context(), hearthsdk.RegisterRequest{
		Email:    "payer@example.com",
		Password: "sup3rsecret",
		Name:     "Payer",
	})
	require.NoError(t, err)

	_, err = payer.CreatePaymentIntent(t.Context(), hearthsdk.CreateIntentRequest{
		Amount: 2500,
		Type:   "DONATION",
	})
	assertAPIError(t, err, http.StatusBadGateway, "provider_error")
}
