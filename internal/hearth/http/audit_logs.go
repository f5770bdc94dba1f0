package http

import (
	"net/http"
	"strconv"

	"github.com/hearthhq/hearth/internal/hearth/domain"
	"github.com/hearthhq/hearth/internal/hearth/service"
	"github.com/hearthhq/hearth/pkg/hearthsdk"
	"github.com/hearthhq/hearth/pkg/httpx"
	"github.com/hearthhq/hearth/pkg/slogx"
)

type AuditLogsHandler struct {
	AuditService *service.AuditService
	Guard        *service.Guard
}

// ServeHTTP lists audit entries for admin review.
//
//	@Summary		List audit log entries
//	@Description	Returns audit entries newest first. Requires the ADMIN role.
//	@Tags			Audit
//	@Security		BearerAuth
//	@Produce		json
//	@Param			actor_id	query		string	false	"Filter by actor"
//	@Param			action		query		string	false	"Filter by action"
//	@Param			offset		query		int		false	"Page offset"
//	@Param			limit		query		int		false	"Page size (default 100)"
//	@Success		200			{array}		hearthsdk.AuditEntryResponse
//	@Failure		401			{object}	hearthsdk.ErrorResponse	"Missing or invalid session"
//	@Failure		403			{object}	hearthsdk.ErrorResponse	"Not an admin"
//	@Failure		500			{object}	hearthsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/audit-logs [get].
func (h *AuditLogsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	identity := identityFromContext(ctx)
	if d := h.Guard.Authorize(identity, service.ReadAuditLog()); !d.Allowed {
		writeDenied(w, d)
		return
	}

	filter := domain.AuditFilter{
		ActorID: r.URL.Query().Get("actor_id"),
		Action:  domain.AuditAction(r.URL.Query().Get("action")),
	}
	filter.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.AuditService.List(ctx, filter)
	if err != nil {
		log.Error("audit listing failed", "err", err)
		hearthsdk.ErrServerError.WriteError(w)
		return
	}

	out := make([]hearthsdk.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditEntryResponse(e))
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}
