package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/hearthhq/hearth/internal/hearth/service"
	"github.com/hearthhq/hearth/pkg/hearthsdk"
	"github.com/hearthhq/hearth/pkg/httpx"
	"github.com/hearthhq/hearth/pkg/slogx"
	"github.com/hearthhq/hearth/pkg/stripex"
)

// maxWebhookBody bounds the request body read. Real events are a few KB.
const maxWebhookBody = 1 << 20

type StripeWebhookHandler struct {
	WebhookService *service.WebhookService
	Secret         string
}

// ServeHTTP receives payment processor events.
//
//	@Summary		Payment processor webhook
//	@Description	Receives signed events from the payment processor. The signature is
//	@Description	verified before anything touches the database; unknown event types are
//	@Description	acknowledged so the processor stops retrying them.
//	@Tags			Webhooks
//	@Accept			json
//	@Produce		json
//	@Param			Stripe-Signature	header	string	true	"t=<unix>,v1=<hmac-sha256 hex>"
//	@Success		200	"Event processed or deliberately ignored"
//	@Failure		400	{object}	hearthsdk.ErrorResponse	"Unparseable payload"
//	@Failure		401	{object}	hearthsdk.ErrorResponse	"Bad or missing signature"
//	@Failure		500	{object}	hearthsdk.ErrorResponse	"Processing failed; processor will retry"
//	@Router			/v1/webhooks/stripe [post].
func (h *StripeWebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		hearthsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	event, err := stripex.ConstructEvent(body, r.Header.Get(stripex.SignatureHeader), h.Secret, stripex.DefaultTolerance)
	if err != nil {
		switch {
		case errors.Is(err, stripex.ErrInvalidSignature):
			log.Warn("webhook signature rejected", "remote_addr", httpx.ClientIP(r))
			(&hearthsdk.APIError{
				StatusCode:  http.StatusUnauthorized,
				Code:        "invalid_signature",
				Description: "webhook signature verification failed",
			}).WriteError(w)
		default:
			hearthsdk.ErrInvalidRequest.WriteError(w)
		}
		return
	}

	if err := h.WebhookService.Handle(ctx, event); err != nil {
		// 5xx makes the processor redeliver; effects are transactional so a
		// retry is safe.
		log.Error("webhook processing failed", "event_id", event.ID, "event_type", event.Type, "err", err)
		hearthsdk.ErrServerError.WriteError(w)
		return
	}

	w.WriteHeader(http.StatusOK)
}
