package service

import (
	"context"
	"errors"
	"time"

	"github.com/hearthhq/hearth/internal/hearth/domain"
	"github.com/hearthhq/hearth/internal/hearth/store"
	"github.com/hearthhq/hearth/pkg/idx"
)

var ErrNotOwner = errors.New("not_owner")

type NotificationService struct {
	Store store.Store
	Audit *AuditService
}

// Create inserts a notification for a user and records NOTIFICATION_CREATED.
func (s *NotificationService) Create(ctx context.Context, actorID string, n domain.Notification) (domain.Notification, error) {
	n.ID = idx.New().String()
	if n.Type == "" {
		n.Type = "general"
	}

	// The FK surfaces unknown recipients as a plain error; check first so
	// the caller gets a not-found instead.
	if _, err := s.Store.Users().GetUserByID(ctx, n.UserID); err != nil {
		return domain.Notification{}, err
	}

	if err := s.Store.Notifications().CreateNotification(ctx, n); err != nil {
		return domain.Notification{}, err
	}

	s.Audit.Record(ctx, actorID, domain.AuditNotificationCreated, "notification", domain.AuditDetail{
		"notification_id": n.ID,
		"user_id":         n.UserID,
		"type":            n.Type,
	})
	return n, nil
}

// List returns the user's own notifications plus the total and unread counts.
func (s *NotificationService) List(ctx context.Context, f domain.NotificationFilter) ([]domain.Notification, int, int, error) {
	items, total, err := s.Store.Notifications().ListNotifications(ctx, f)
	if err != nil {
		return nil, 0, 0, err
	}
	unread, err := s.Store.Notifications().CountUnread(ctx, f.UserID)
	if err != nil {
		return nil, 0, 0, err
	}
	return items, total, unread, nil
}

// MarkRead flips a notification to read. Only the owner may do this; the
// ownership check lives here because the id alone does not carry the owner.
func (s *NotificationService) MarkRead(ctx context.Context, ownerID, notificationID string) error {
	n, err := s.Store.Notifications().GetNotificationByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != ownerID {
		return ErrNotOwner
	}
	if n.Read {
		return nil
	}
	return s.Store.Notifications().MarkNotificationRead(ctx, notificationID, time.Now().UTC())
}
