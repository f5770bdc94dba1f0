package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/hearthhq/hearth/internal/hearth/domain"
)

type auditLogsRepo struct {
	db dbtx
}

func (r *auditLogsRepo) CreateEntry(ctx context.Context, e domain.AuditLogEntry) error {
	detail, err := marshalDetail(e.Detail)
	if err != nil {
		return err
	}
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor_id, action, resource, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.ActorID, string(e.Action), e.Resource, detail, createdAt,
	)
	return err
}

func (r *auditLogsRepo) ListEntries(ctx context.Context, f domain.AuditFilter) ([]domain.AuditLogEntry, error) {
	where := make([]string, 0, 2)
	args := make([]any, 0, 4)

	if f.ActorID != "" {
		where = append(where, "actor_id = ?")
		args = append(args, f.ActorID)
	}
	if f.Action != "" {
		where = append(where, "action = ?")
		args = append(args, string(f.Action))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, actor_id, action, resource, detail, created_at
		FROM audit_logs`+clause+`
		ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditLogEntry
	for rows.Next() {
		var (
			e      domain.AuditLogEntry
			action string
			detail string
		)
		if err := rows.Scan(&e.ID, &e.ActorID, &action, &e.Resource, &detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Action = domain.AuditAction(action)
		e.Detail = unmarshalDetail(detail)
		out = append(out, e)
	}
	return out, rows.Err()
}
