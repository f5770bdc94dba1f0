package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hearthhq/hearth/internal/hearth/service"
	"github.com/hearthhq/hearth/pkg/hearthsdk"
	"github.com/hearthhq/hearth/pkg/httpx"
	"github.com/hearthhq/hearth/pkg/slogx"
)

type RegisterHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP handles account registration.
//
//	@Summary		Register a new account
//	@Description	Creates an account with the PARENT role and returns a session token.
//	@Description	Email is case-insensitive; registering an existing email returns 409.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		hearthsdk.RegisterRequest	true	"Registration details"
//	@Success		201		{object}	hearthsdk.SessionResponse	"Session token and user record"
//	@Failure		400		{object}	hearthsdk.ErrorResponse		"Malformed request or weak password"
//	@Failure		409		{object}	hearthsdk.ErrorResponse		"Email already registered"
//	@Failure		500		{object}	hearthsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req hearthsdk.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		hearthsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		hearthsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, token, err := h.SessionService.Register(ctx, req.Email, req.Password, req.Name, req.PhoneNumber, httpx.ClientIP(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			hearthsdk.ErrConflict.WriteError(w)
		case errors.Is(err, service.ErrWeakPassword), errors.Is(err, service.ErrInvalidCredentials):
			hearthsdk.ErrInvalidRequest.WriteError(w)
		default:
			log.Error("registration failed", "err", err)
			hearthsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, sessionResponse(user, token))
}
