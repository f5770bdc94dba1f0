package http

import (
	"net/http"

	"github.com/hearthhq/hearth/internal/hearth/service"
	"github.com/hearthhq/hearth/pkg/hearthsdk"
	"github.com/hearthhq/hearth/pkg/httpx"
)

type LogoutHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP records the logout event. Tokens are stateless, so the client is
// responsible for discarding its copy.
//
//	@Summary		Log out
//	@Description	Records the logout event. The session token stays valid until expiry;
//	@Description	clients must discard it.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		204	"Logout recorded"
//	@Failure		401	{object}	hearthsdk.ErrorResponse	"Missing or invalid session"
//	@Router			/v1/auth/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity := identityFromContext(ctx)
	if identity == nil {
		hearthsdk.ErrUnauthenticated.WriteError(w)
		return
	}

	h.SessionService.Revoke(ctx, *identity)

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
