package http

import (
	"encoding/json"
	"net/http"

	"github.com/hearthhq/hearth/internal/hearth/domain"
	"github.com/hearthhq/hearth/internal/hearth/service"
	"github.com/hearthhq/hearth/pkg/hearthsdk"
	"github.com/hearthhq/hearth/pkg/httpx"
	"github.com/hearthhq/hearth/pkg/slogx"
)

type UserDetailHandler struct {
	UserService *service.UserService
	Guard       *service.Guard
}

// HandleGet fetches one user record.
//
//	@Summary		Get a user
//	@Description	Returns one user record. Callers may read their own record; everything else requires ADMIN.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"User id"
//	@Success		200	{object}	hearthsdk.UserResponse
//	@Failure		401	{object}	hearthsdk.ErrorResponse	"Missing or invalid session"
//	@Failure		403	{object}	hearthsdk.ErrorResponse	"Not the owner and not an admin"
//	@Failure		404	{object}	hearthsdk.ErrorResponse	"No such user"
//	@Router			/v1/users/{id} [get].
func (h *UserDetailHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	targetID := r.PathValue("id")

	identity := identityFromContext(ctx)
	if d := h.Guard.Authorize(identity, service.ReadUser(targetID)); !d.Allowed {
		writeDenied(w, d)
		return
	}

	user, err := h.UserService.GetUserByID(ctx, targetID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userResponse(user))
}

// HandlePatch applies a partial update.
//
//	@Summary		Update a user
//	@Description	Applies a partial update. Users may change their own name and phone number;
//	@Description	role and status changes require ADMIN, even on one's own record.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"User id"
//	@Param			request	body		hearthsdk.UpdateUserRequest	true	"Fields to change"
//	@Success		200		{object}	hearthsdk.UserResponse		"Updated record"
//	@Failure		400		{object}	hearthsdk.ErrorResponse		"Malformed request or invalid role/status"
//	@Failure		401		{object}	hearthsdk.ErrorResponse		"Missing or invalid session"
//	@Failure		403		{object}	hearthsdk.ErrorResponse		"Restricted field without ADMIN"
//	@Failure		404		{object}	hearthsdk.ErrorResponse		"No such user"
//	@Router			/v1/users/{id} [patch].
func (h *UserDetailHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	targetID := r.PathValue("id")

	var req hearthsdk.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		hearthsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	patch := domain.UserPatch{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
	}
	if req.Role != nil {
		role, ok := domain.ParseRole(*req.Role)
		if !ok {
			hearthsdk.ErrInvalidRequest.WriteError(w)
			return
		}
		patch.Role = &role
	}
	if req.Status != nil {
		status, ok := domain.ParseStatus(*req.Status)
		if !ok {
			hearthsdk.ErrInvalidRequest.WriteError(w)
			return
		}
		patch.Status = &status
	}
	if patch.IsEmpty() {
		hearthsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	identity := identityFromContext(ctx)
	if d := h.Guard.Authorize(identity, service.UpdateUser(targetID, patch.Fields())); !d.Allowed {
		writeDenied(w, d)
		return
	}

	user, err := h.UserService.UpdateUser(ctx, identity.UserID, targetID, patch)
	if err != nil {
		log.Warn("user update failed", "target_id", targetID, "err", err)
		writeStoreError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userResponse(user))
}

// HandleDelete removes an account.
//
//	@Summary		Delete a user
//	@Description	Removes the account and its notifications, payments and subscriptions.
//	@Description	Requires ADMIN. Self-deletion is always refused, admins included.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path	string	true	"User id"
//	@Success		204	"Account deleted"
//	@Failure		401	{object}	hearthsdk.ErrorResponse	"Missing or invalid session"
//	@Failure		403	{object}	hearthsdk.ErrorResponse	"Not an admin, or attempting self-deletion"
//	@Failure		404	{object}	hearthsdk.ErrorResponse	"No such user"
//	@Router			/v1/users/{id} [delete].
func (h *UserDetailHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	targetID := r.PathValue("id")

	identity := identityFromContext(ctx)
	if d := h.Guard.Authorize(identity, service.DeleteUser(targetID)); !d.Allowed {
		writeDenied(w, d)
		return
	}

	if err := h.UserService.DeleteUser(ctx, identity.UserID, targetID); err != nil {
		log.Warn("user deletion failed", "target_id", targetID, "err", err)
		writeStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
