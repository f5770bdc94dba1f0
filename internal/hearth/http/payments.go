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

type PaymentsHandler struct {
	PaymentService *service.PaymentService
	UserService    *service.UserService
}

// HandleCreateIntent starts a one-time payment or donation.
//
//	@Summary		Create a payment intent
//	@Description	Asks the payment processor for an intent and records it locally as PENDING.
//	@Description	Amount is in minor units and must be at least 50. Types: ONE_TIME, DONATION.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		hearthsdk.CreateIntentRequest	true	"Intent details"
//	@Success		201		{object}	hearthsdk.PaymentResponse		"Payment with one-time client_secret"
//	@Failure		400		{object}	hearthsdk.ErrorResponse			"Amount too small or invalid type"
//	@Failure		401		{object}	hearthsdk.ErrorResponse			"Missing or invalid session"
//	@Failure		502		{object}	hearthsdk.ErrorResponse			"Payment processor unavailable"
//	@Router			/v1/payments/intents [post].
func (h *PaymentsHandler) HandleCreateIntent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	identity := identityFromContext(ctx)
	if identity == nil {
		hearthsdk.ErrUnauthenticated.WriteError(w)
		return
	}

	var req hearthsdk.CreateIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		hearthsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	result, err := h.PaymentService.CreateIntent(ctx, identity.UserID, req.Amount, req.Currency, domain.PaymentType(req.Type), req.Description)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAmountTooSmall), errors.Is(err, service.ErrInvalidPaymentType):
			hearthsdk.ErrInvalidRequest.WriteError(w)
		default:
			log.Error("payment intent creation failed", "err", err)
			(&hearthsdk.APIError{
				StatusCode:  http.StatusBadGateway,
				Code:        "provider_error",
				Description: "the payment processor could not be reached",
			}).WriteError(w)
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, paymentResponse(result.Payment, result.ClientSecret))
}

// HandleCreateSubscription starts a recurring subscription.
//
//	@Summary		Create a subscription
//	@Description	Provisions a subscription at the payment processor and mirrors it locally.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		hearthsdk.CreateSubscriptionRequest	true	"Subscription details"
//	@Success		201		{object}	hearthsdk.SubscriptionResponse		"Subscription with one-time client_secret"
//	@Failure		400		{object}	hearthsdk.ErrorResponse				"Missing price id"
//	@Failure		401		{object}	hearthsdk.ErrorResponse				"Missing or invalid session"
//	@Failure		502		{object}	hearthsdk.ErrorResponse				"Payment processor unavailable"
//	@Router			/v1/payments/subscriptions [post].
func (h *PaymentsHandler) HandleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	identity := identityFromContext(ctx)
	if identity == nil {
		hearthsdk.ErrUnauthenticated.WriteError(w)
		return
	}

	var req hearthsdk.CreateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PriceID == "" {
		hearthsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.UserService.GetUserByID(ctx, identity.UserID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	result, err := h.PaymentService.CreateSubscription(ctx, user, req.PriceID)
	if err != nil {
		log.Error("subscription creation failed", "err", err)
		(&hearthsdk.APIError{
			StatusCode:  http.StatusBadGateway,
			Code:        "provider_error",
			Description: "the payment processor could not be reached",
		}).WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, subscriptionResponse(result.Subscription, result.ClientSecret))
}
