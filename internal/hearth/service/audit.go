package service

import (
	"context"
	"log/slog"

	"github.com/hearthhq/hearth/internal/hearth/domain"
	"github.com/hearthhq/hearth/internal/hearth/store"
	"github.com/hearthhq/hearth/pkg/idx"
	"github.com/hearthhq/hearth/pkg/slogx"
)

// AuditService appends entries to the append-only audit log. Recording is
// best-effort: a failed write is logged and swallowed so the operation that
// triggered it still succeeds.
type AuditService struct {
	Store store.Store
}

// Record appends one entry. Never returns an error to callers.
func (s *AuditService) Record(ctx context.Context, actorID string, action domain.AuditAction, resource string, detail domain.AuditDetail) {
	entry := domain.AuditLogEntry{
		ID:       idx.New().String(),
		ActorID:  actorID,
		Action:   action,
		Resource: resource,
		Detail:   detail,
	}

	if err := s.Store.AuditLogs().CreateEntry(ctx, entry); err != nil {
		slogx.FromContext(ctx).Error("audit write failed",
			slog.String("action", string(action)),
			slog.String("actor_id", actorID),
			slog.Any("error", err),
		)
	}
}

// RecordTx is Record against a transaction, for entries that must commit with
// the operation they describe (webhook effects).
func (s *AuditService) RecordTx(ctx context.Context, tx store.Tx, actorID string, action domain.AuditAction, resource string, detail domain.AuditDetail) {
	entry := domain.AuditLogEntry{
		ID:       idx.New().String(),
		ActorID:  actorID,
		Action:   action,
		Resource: resource,
		Detail:   detail,
	}

	if err := tx.AuditLogs().CreateEntry(ctx, entry); err != nil {
		slogx.FromContext(ctx).Error("audit write failed",
			slog.String("action", string(action)),
			slog.String("actor_id", actorID),
			slog.Any("error", err),
		)
	}
}

// List returns entries newest first for admin review.
func (s *AuditService) List(ctx context.Context, f domain.AuditFilter) ([]domain.AuditLogEntry, error) {
	return s.Store.AuditLogs().ListEntries(ctx, f)
}
