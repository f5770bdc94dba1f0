package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/hearthhq/hearth/internal/hearth/domain"
	"github.com/hearthhq/hearth/internal/hearth/service"
	"github.com/hearthhq/hearth/internal/hearth/store"
	"github.com/hearthhq/hearth/pkg/hearthsdk"
	"github.com/hearthhq/hearth/pkg/httpx"
	"github.com/hearthhq/hearth/pkg/jwtx"
)

// identityFromContext rebuilds the verified identity the authn middleware
// stored. Returns nil for anonymous requests.
func identityFromContext(ctx context.Context) *domain.Identity {
	claims, ok := ctx.Value(httpx.CtxKeyClaims).(jwtx.Claims)
	if !ok || claims.Subject == "" {
		return nil
	}
	role, ok := domain.ParseRole(claims.Role)
	if !ok {
		return nil
	}
	return &domain.Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   role,
	}
}

// writeDenied maps a guard denial to its HTTP error.
func writeDenied(w http.ResponseWriter, d service.Decision) {
	switch d.Reason {
	case service.DenyUnauthenticated:
		hearthsdk.ErrUnauthenticated.WriteError(w)
	case service.DenySelfDeletion:
		hearthsdk.ErrSelfDeletion.WriteError(w)
	default:
		hearthsdk.ErrForbidden.WriteError(w)
	}
}

// writeStoreError maps store sentinels; anything unexpected becomes an
// opaque server error.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		hearthsdk.ErrNotFound.WriteError(w)
	case errors.Is(err, store.ErrAlreadyExists):
		hearthsdk.ErrConflict.WriteError(w)
	default:
		hearthsdk.ErrServerError.WriteError(w)
	}
}

func userResponse(u domain.User) hearthsdk.UserResponse {
	return hearthsdk.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		PhoneNumber: u.PhoneNumber,
		Role:        string(u.Role),
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func notificationResponse(n domain.Notification) hearthsdk.NotificationResponse {
	return hearthsdk.NotificationResponse{
		ID:          n.ID,
		UserID:      n.UserID,
		Title:       n.Title,
		Message:     n.Message,
		Type:        n.Type,
		Read:        n.Read,
		ReadAt:      n.ReadAt,
		ScheduledAt: n.ScheduledAt,
		CreatedAt:   n.CreatedAt,
	}
}

func paymentResponse(p domain.Payment, clientSecret string) hearthsdk.PaymentResponse {
	return hearthsdk.PaymentResponse{
		ID:           p.ID,
		Amount:       p.Amount,
		Currency:     p.Currency,
		Type:         string(p.Type),
		Status:       string(p.Status),
		Description:  p.Description,
		ClientSecret: clientSecret,
		CreatedAt:    p.CreatedAt,
	}
}

func subscriptionResponse(s domain.Subscription, clientSecret string) hearthsdk.SubscriptionResponse {
	return hearthsdk.SubscriptionResponse{
		ID:                 s.ID,
		Status:             string(s.Status),
		PriceID:            s.ProviderPriceID,
		CurrentPeriodStart: s.CurrentPeriodStart,
		CurrentPeriodEnd:   s.CurrentPeriodEnd,
		CancelAtPeriodEnd:  s.CancelAtPeriodEnd,
		ClientSecret:       clientSecret,
		CreatedAt:          s.CreatedAt,
	}
}

func auditEntryResponse(e domain.AuditLogEntry) hearthsdk.AuditEntryResponse {
	return hearthsdk.AuditEntryResponse{
		ID:        e.ID,
		ActorID:   e.ActorID,
		Action:    string(e.Action),
		Resource:  e.Resource,
		Detail:    e.Detail,
		CreatedAt: e.CreatedAt,
	}
}

func sessionResponse(u domain.User, t domain.SessionToken) hearthsdk.SessionResponse {
	return hearthsdk.SessionResponse{
		Token:     t.Token,
		TokenType: t.TokenType,
		ExpiresIn: t.ExpiresIn,
		User:      userResponse(u),
	}
}
