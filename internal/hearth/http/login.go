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

type LoginHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP handles password login.
//
//	@Summary		Log in with email and password
//	@Description	Verifies credentials and returns a session token. Unknown email and
//	@Description	wrong password are indistinguishable in both response and timing.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		hearthsdk.LoginRequest		true	"Credentials"
//	@Success		200		{object}	hearthsdk.SessionResponse	"Session token and user record"
//	@Failure		400		{object}	hearthsdk.ErrorResponse		"Malformed request"
//	@Failure		401		{object}	hearthsdk.ErrorResponse		"Invalid credentials or disabled account"
//	@Failure		429		{object}	hearthsdk.ErrorResponse		"Too many failed attempts"
//	@Failure		500		{object}	hearthsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req hearthsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		hearthsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.Email == "" || req.Password == "" {
		hearthsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	remoteAddr := httpx.ClientIP(r)

	user, err := h.SessionService.Authenticate(ctx, req.Email, req.Password, remoteAddr)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			hearthsdk.ErrInvalidCredentials.WriteError(w)
		case errors.Is(err, service.ErrAccountDisabled):
			// Same status as bad credentials; a different code is fine since
			// reaching it already required the right password.
			(&hearthsdk.APIError{
				StatusCode:  http.StatusUnauthorized,
				Code:        "account_disabled",
				Description: "this account is not active",
			}).WriteError(w)
		case errors.Is(err, service.ErrTooManyAttempts):
			hearthsdk.ErrTooManyRequests.WriteError(w)
		default:
			log.Error("login failed", "err", err)
			hearthsdk.ErrServerError.WriteError(w)
		}
		return
	}

	token, err := h.SessionService.IssueSession(ctx, user, remoteAddr)
	if err != nil {
		log.Error("session issuance failed", "user_id", user.ID, "err", err)
		hearthsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, sessionResponse(user, token))
}
