package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hearthhq/hearth/internal/hearth/domain"
	"github.com/hearthhq/hearth/internal/hearth/service"
	"github.com/hearthhq/hearth/pkg/hearthsdk"
	"github.com/hearthhq/hearth/pkg/httpx"
	"github.com/hearthhq/hearth/pkg/slogx"
)

type NotificationsHandler struct {
	NotificationService *service.NotificationService
	Guard               *service.Guard
}

// HandleList returns the caller's own notifications.
//
//	@Summary		List own notifications
//	@Description	Returns the caller's notifications newest first, with total and unread counts.
//	@Tags			Notifications
//	@Security		BearerAuth
//	@Produce		json
//	@Param			unread	query		bool	false	"Only unread notifications"
//	@Success		200		{object}	hearthsdk.NotificationListResponse
//	@Failure		401		{object}	hearthsdk.ErrorResponse	"Missing or invalid session"
//	@Failure		500		{object}	hearthsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/notifications [get].
func (h *NotificationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	identity := identityFromContext(ctx)
	if identity == nil {
		hearthsdk.ErrUnauthenticated.WriteError(w)
		return
	}
	if d := h.Guard.Authorize(identity, service.ReadOwn(identity.UserID)); !d.Allowed {
		writeDenied(w, d)
		return
	}

	filter := domain.NotificationFilter{
		UserID:     identity.UserID,
		UnreadOnly: r.URL.Query().Get("unread") == "true",
	}

	items, total, unread, err := h.NotificationService.List(ctx, filter)
	if err != nil {
		log.Error("notification listing failed", "err", err)
		hearthsdk.ErrServerError.WriteError(w)
		return
	}

	out := make([]hearthsdk.NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, notificationResponse(n))
	}

	httpx.WriteJSON(w, http.StatusOK, hearthsdk.NotificationListResponse{
		Notifications: out,
		Total:         total,
		Unread:        unread,
	})
}

// HandleCreate creates a notification for a user, admin only.
//
//	@Summary		Create a notification
//	@Description	Creates a notification for any user. Requires the ADMIN role.
//	@Tags			Notifications
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		hearthsdk.CreateNotificationRequest	true	"Notification"
//	@Success		201		{object}	hearthsdk.NotificationResponse
//	@Failure		400		{object}	hearthsdk.ErrorResponse	"Malformed request"
//	@Failure		401		{object}	hearthsdk.ErrorResponse	"Missing or invalid session"
//	@Failure		403		{object}	hearthsdk.ErrorResponse	"Not an admin"
//	@Failure		404		{object}	hearthsdk.ErrorResponse	"Unknown recipient"
//	@Router			/v1/notifications [post].
func (h *NotificationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	identity := identityFromContext(ctx)
	if d := h.Guard.Authorize(identity, service.CreateNotification()); !d.Allowed {
		writeDenied(w, d)
		return
	}

	var req hearthsdk.CreateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		hearthsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.UserID == "" || req.Title == "" || req.Message == "" {
		hearthsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	created, err := h.NotificationService.Create(ctx, identity.UserID, domain.Notification{
		UserID:      req.UserID,
		Title:       req.Title,
		Message:     req.Message,
		Type:        req.Type,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		log.Warn("notification creation failed", "recipient", req.UserID, "err", err)
		writeStoreError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, notificationResponse(created))
}

// HandleMarkRead marks one of the caller's notifications as read.
//
//	@Summary		Mark a notification read
//	@Description	Flips the notification to read. Only the owner may do this.
//	@Tags			Notifications
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path	string	true	"Notification id"
//	@Success		204	"Marked read"
//	@Failure		401	{object}	hearthsdk.ErrorResponse	"Missing or invalid session"
//	@Failure		403	{object}	hearthsdk.ErrorResponse	"Not the owner"
//	@Failure		404	{object}	hearthsdk.ErrorResponse	"No such notification"
//	@Router			/v1/notifications/{id}/read [patch].
func (h *NotificationsHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity := identityFromContext(ctx)
	if identity == nil {
		hearthsdk.ErrUnauthenticated.WriteError(w)
		return
	}

	err := h.NotificationService.MarkRead(ctx, identity.UserID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotOwner) {
			hearthsdk.ErrForbidden.WriteError(w)
			return
		}
		writeStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
