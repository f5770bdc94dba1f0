package hearthsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Session is an authenticated view of the API. Sessions are stateless on the
// server side: the token simply expires, and Logout records the event and
// discards the local copy.
type Session struct {
	client *Client
	token  string
	user   UserResponse
}

func newSession(c *Client, resp SessionResponse) *Session {
	return &Session{
		client: c,
		token:  resp.Token,
		user:   resp.User,
	}
}

// Token returns the raw session token.
func (s *Session) Token() string { return s.token }

// User returns the user snapshot taken at login.
func (s *Session) User() UserResponse { return s.user }

// Logout records the logout and invalidates the local token.
func (s *Session) Logout(ctx context.Context) error {
	err := s.client.doJSON(ctx, http.MethodPost, "/v1/auth/logout", s.token, nil, nil)
	s.token = ""
	return err
}

// CSRFToken fetches a fresh CSRF token.
func (s *Session) CSRFToken(ctx context.Context) (string, error) {
	var resp CSRFResponse
	if err := s.client.doJSON(ctx, http.MethodGet, "/v1/auth/csrf", s.token, nil, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// GetUser fetches one user record. Non-admins can only fetch themselves.
func (s *Session) GetUser(ctx context.Context, userID string) (UserResponse, error) {
	var resp UserResponse
	err := s.client.doJSON(ctx, http.MethodGet, "/v1/users/"+url.PathEscape(userID), s.token, nil, &resp)
	return resp, err
}

// ListUsers pages through users. Admin only.
func (s *Session) ListUsers(ctx context.Context, role, status, search string, offset, limit int) (UserListResponse, error) {
	q := url.Values{}
	if role != "" {
		q.Set("role", role)
	}
	if status != "" {
		q.Set("status", status)
	}
	if search != "" {
		q.Set("search", search)
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	path := "/v1/users"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp UserListResponse
	err := s.client.doJSON(ctx, http.MethodGet, path, s.token, nil, &resp)
	return resp, err
}

// UpdateUser patches a user record.
func (s *Session) UpdateUser(ctx context.Context, userID string, req UpdateUserRequest) (UserResponse, error) {
	var resp UserResponse
	err := s.client.doJSON(ctx, http.MethodPatch, "/v1/users/"+url.PathEscape(userID), s.token, req, &resp)
	return resp, err
}

// DeleteUser removes a user account. Admin only, never self.
func (s *Session) DeleteUser(ctx context.Context, userID string) error {
	return s.client.doJSON(ctx, http.MethodDelete, "/v1/users/"+url.PathEscape(userID), s.token, nil, nil)
}

// ListNotifications returns the caller's own notifications.
func (s *Session) ListNotifications(ctx context.Context, unreadOnly bool) (NotificationListResponse, error) {
	path := "/v1/notifications"
	if unreadOnly {
		path += "?unread=true"
	}

	var resp NotificationListResponse
	err := s.client.doJSON(ctx, http.MethodGet, path, s.token, nil, &resp)
	return resp, err
}

// CreateNotification creates a notification for a user. Admin only.
func (s *Session) CreateNotification(ctx context.Context, req CreateNotificationRequest) (NotificationResponse, error) {
	var resp NotificationResponse
	err := s.client.doJSON(ctx, http.MethodPost, "/v1/notifications", s.token, req, &resp)
	return resp, err
}

// MarkNotificationRead flips one of the caller's notifications to read.
func (s *Session) MarkNotificationRead(ctx context.Context, notificationID string) error {
	path := fmt.Sprintf("/v1/notifications/%s/read", url.PathEscape(notificationID))
	return s.client.doJSON(ctx, http.MethodPatch, path, s.token, nil, nil)
}

// CreatePaymentIntent starts a one-time payment or donation.
func (s *Session) CreatePaymentIntent(ctx context.Context, req CreateIntentRequest) (PaymentResponse, error) {
	var resp PaymentResponse
	err := s.client.doJSON(ctx, http.MethodPost, "/v1/payments/intents", s.token, req, &resp)
	return resp, err
}

// CreateSubscription starts a recurring subscription.
func (s *Session) CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (SubscriptionResponse, error) {
	var resp SubscriptionResponse
	err := s.client.doJSON(ctx, http.MethodPost, "/v1/payments/subscriptions", s.token, req, &resp)
	return resp, err
}

// ListAuditLog returns audit entries. Admin only.
func (s *Session) ListAuditLog(ctx context.Context, actorID, action string, offset, limit int) ([]AuditEntryResponse, error) {
	q := url.Values{}
	if actorID != "" {
		q.Set("actor_id", actorID)
	}
	if action != "" {
		q.Set("action", action)
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	path := "/v1/audit-logs"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp []AuditEntryResponse
	err := s.client.doJSON(ctx, http.MethodGet, path, s.token, nil, &resp)
	return resp, err
}
