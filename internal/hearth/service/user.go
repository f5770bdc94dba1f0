package service

import (
	"context"

	"github.com/hearthhq/hearth/internal/hearth/domain"
	"github.com/hearthhq/hearth/internal/hearth/store"
)

type UserService struct {
	Store store.Store
	Audit *AuditService
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// ListUsers returns a filtered page plus the total count.
func (s *UserService) ListUsers(ctx context.Context, f domain.UserFilter) ([]domain.User, int, error) {
	return s.Store.Users().ListUsers(ctx, f)
}

// UpdateUser applies a patch and records USER_UPDATED with the changed field
// names. Authorization, including the restricted-field rule, happens in the
// Guard before this is called.
func (s *UserService) UpdateUser(ctx context.Context, actorID, targetID string, patch domain.UserPatch) (domain.User, error) {
	user, err := s.Store.Users().UpdateUser(ctx, targetID, patch)
	if err != nil {
		return domain.User{}, err
	}

	s.Audit.Record(ctx, actorID, domain.AuditUserUpdated, "user", domain.AuditDetail{
		"target_user_id": targetID,
		"fields":         patch.Fields(),
	})
	return user, nil
}

// DeleteUser removes the account. Notifications, payments and subscriptions
// cascade; audit entries stay.
func (s *UserService) DeleteUser(ctx context.Context, actorID, targetID string) error {
	if err := s.Store.Users().DeleteUser(ctx, targetID); err != nil {
		return err
	}

	s.Audit.Record(ctx, actorID, domain.AuditUserDeleted, "user", domain.AuditDetail{
		"deleted_user_id": targetID,
	})
	return nil
}
