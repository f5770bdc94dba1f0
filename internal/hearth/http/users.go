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

type UsersHandler struct {
	UserService *service.UserService
	Guard       *service.Guard
}

// HandleList lists users for admins.
//
//	@Summary		List users
//	@Description	Returns a filtered page of users plus the total count. Requires the ADMIN role.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			role	query		string	false	"Filter by role"
//	@Param			status	query		string	false	"Filter by status"
//	@Param			search	query		string	false	"Case-insensitive name or email substring"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			limit	query		int		false	"Page size (default 50)"
//	@Success		200		{object}	hearthsdk.UserListResponse
//	@Failure		401		{object}	hearthsdk.ErrorResponse	"Missing or invalid session"
//	@Failure		403		{object}	hearthsdk.ErrorResponse	"Not an admin"
//	@Failure		500		{object}	hearthsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	identity := identityFromContext(ctx)
	if d := h.Guard.Authorize(identity, service.ListUsers()); !d.Allowed {
		writeDenied(w, d)
		return
	}

	filter := domain.UserFilter{
		Search: r.URL.Query().Get("search"),
	}
	if s := r.URL.Query().Get("role"); s != "" {
		role, ok := domain.ParseRole(s)
		if !ok {
			hearthsdk.ErrInvalidRequest.WriteError(w)
			return
		}
		filter.Role = &role
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status, ok := domain.ParseStatus(s)
		if !ok {
			hearthsdk.ErrInvalidRequest.WriteError(w)
			return
		}
		filter.Status = &status
	}
	filter.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}

	users, total, err := h.UserService.ListUsers(ctx, filter)
	if err != nil {
		log.Error("user listing failed", "err", err)
		hearthsdk.ErrServerError.WriteError(w)
		return
	}

	out := make([]hearthsdk.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse(u))
	}

	httpx.WriteJSON(w, http.StatusOK, hearthsdk.UserListResponse{
		Users:  out,
		Total:  total,
		Offset: filter.Offset,
		Limit:  filter.Limit,
	})
}
