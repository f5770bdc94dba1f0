package http

import (
	"net/http"

	"github.com/hearthhq/hearth/pkg/cryptox"
	"github.com/hearthhq/hearth/pkg/hearthsdk"
	"github.com/hearthhq/hearth/pkg/httpx"
	"github.com/hearthhq/hearth/pkg/slogx"
)

// CSRFHandler godoc
//
//	@Summary		Get a CSRF token
//	@Description	Returns a fresh random token for double-submit CSRF protection.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	hearthsdk.CSRFResponse	"csrf_token"
//	@Failure		500	{object}	hearthsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/auth/csrf [get].
func CSRFHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := cryptox.GenerateCSRFToken()
		if err != nil {
			slogx.FromContext(r.Context()).Error("csrf token generation failed", "err", err)
			hearthsdk.ErrServerError.WriteError(w)
			return
		}

		httpx.NoCache(w)
		httpx.WriteJSON(w, http.StatusOK, hearthsdk.CSRFResponse{Token: token})
	}
}
