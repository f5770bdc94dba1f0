package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hearthhq/hearth/internal/hearth/domain"
	"github.com/hearthhq/hearth/internal/hearth/store"
	"github.com/hearthhq/hearth/pkg/idx"
	"github.com/hearthhq/hearth/pkg/slogx"
	"github.com/hearthhq/hearth/pkg/stripex"
)

// WebhookService applies payment processor events to local state. The HTTP
// handler verifies the signature before Handle is called; by the time an
// event reaches this service it is authentic.
type WebhookService struct {
	Store store.Store
	Audit *AuditService
}

// Handle dispatches one verified event. Unknown event types are logged and
// acknowledged so the processor stops retrying them.
func (s *WebhookService) Handle(ctx context.Context, event stripex.Event) error {
	l := slogx.FromContext(ctx)

	switch event.Type {
	case "payment_intent.succeeded":
		return s.paymentIntentSucceeded(ctx, event)
	case "payment_intent.payment_failed":
		return s.paymentIntentFailed(ctx, event)
	case "invoice.payment_succeeded":
		return s.invoicePaymentSucceeded(ctx, event)
	case "invoice.payment_failed":
		return s.invoicePaymentFailed(ctx, event)
	case "customer.subscription.created", "customer.subscription.updated":
		return s.subscriptionUpserted(ctx, event)
	case "customer.subscription.deleted":
		return s.subscriptionDeleted(ctx, event)
	default:
		l.Info("ignoring unhandled webhook event",
			slog.String("event_id", event.ID),
			slog.String("event_type", event.Type),
		)
		return nil
	}
}

func (s *WebhookService) paymentIntentSucceeded(ctx context.Context, event stripex.Event) error {
	var intent stripex.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return fmt.Errorf("decode payment_intent: %w", err)
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		payment, err := tx.Payments().GetPaymentByProviderID(ctx, intent.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Intent created outside this system; nothing to update.
				slogx.FromContext(ctx).Info("webhook for unknown payment intent",
					slog.String("provider_payment_id", intent.ID))
				return nil
			}
			return err
		}
		if payment.Status == domain.PaymentCompleted {
			return nil // duplicate delivery
		}

		if err := tx.Payments().UpdatePaymentStatus(ctx, payment.ID, domain.PaymentCompleted); err != nil {
			return err
		}

		if err := tx.Notifications().CreateNotification(ctx, domain.Notification{
			ID:      idx.New().String(),
			UserID:  payment.UserID,
			Title:   "Payment received",
			Message: fmt.Sprintf("Your payment of %s was successful.", formatAmount(payment.Amount, payment.Currency)),
			Type:    "payment",
		}); err != nil {
			return err
		}

		s.Audit.RecordTx(ctx, tx, payment.UserID, domain.AuditPaymentCompleted, "payment", domain.AuditDetail{
			"payment_id": payment.ID,
			"amount":     payment.Amount,
		})
		return nil
	})
}

func (s *WebhookService) paymentIntentFailed(ctx context.Context, event stripex.Event) error {
	var intent stripex.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return fmt.Errorf("decode payment_intent: %w", err)
	}

	reason := "payment was declined"
	if intent.LastPaymentError != nil && intent.LastPaymentError.Message != "" {
		reason = intent.LastPaymentError.Message
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		payment, err := tx.Payments().GetPaymentByProviderID(ctx, intent.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			return err
		}
		if payment.Status == domain.PaymentFailed {
			return nil
		}

		if err := tx.Payments().UpdatePaymentStatus(ctx, payment.ID, domain.PaymentFailed); err != nil {
			return err
		}

		if err := tx.Notifications().CreateNotification(ctx, domain.Notification{
			ID:      idx.New().String(),
			UserID:  payment.UserID,
			Title:   "Payment failed",
			Message: fmt.Sprintf("Your payment could not be processed: %s.", reason),
			Type:    "payment",
		}); err != nil {
			return err
		}

		s.Audit.RecordTx(ctx, tx, payment.UserID, domain.AuditPaymentFailed, "payment", domain.AuditDetail{
			"payment_id": payment.ID,
			"reason":     reason,
		})
		return nil
	})
}

func (s *WebhookService) invoicePaymentSucceeded(ctx context.Context, event stripex.Event) error {
	var invoice stripex.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return fmt.Errorf("decode invoice: %w", err)
	}
	if invoice.Subscription == "" {
		return nil // one-off invoice, handled via payment_intent events
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		sub, err := tx.Subscriptions().GetSubscriptionByProviderID(ctx, invoice.Subscription)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Subscriptions().UpdateSubscriptionStatus(ctx, sub.ID, domain.SubscriptionActive); err != nil {
			return err
		}

		return tx.Notifications().CreateNotification(ctx, domain.Notification{
			ID:      idx.New().String(),
			UserID:  sub.UserID,
			Title:   "Subscription renewed",
			Message: fmt.Sprintf("Your subscription payment of %s was successful.", formatAmount(invoice.AmountPaid, invoice.Currency)),
			Type:    "subscription",
		})
	})
}

func (s *WebhookService) invoicePaymentFailed(ctx context.Context, event stripex.Event) error {
	var invoice stripex.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return fmt.Errorf("decode invoice: %w", err)
	}
	if invoice.Subscription == "" {
		return nil
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		sub, err := tx.Subscriptions().GetSubscriptionByProviderID(ctx, invoice.Subscription)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Subscriptions().UpdateSubscriptionStatus(ctx, sub.ID, domain.SubscriptionPastDue); err != nil {
			return err
		}

		return tx.Notifications().CreateNotification(ctx, domain.Notification{
			ID:      idx.New().String(),
			UserID:  sub.UserID,
			Title:   "Subscription payment failed",
			Message: "We could not collect your subscription payment. Please update your payment method.",
			Type:    "subscription",
		})
	})
}

func (s *WebhookService) subscriptionUpserted(ctx context.Context, event stripex.Event) error {
	var sub stripex.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("decode subscription: %w", err)
	}

	status := domain.ParseSubscriptionStatus(sub.Status)
	start := time.Unix(sub.CurrentPeriodStart, 0).UTC()
	end := time.Unix(sub.CurrentPeriodEnd, 0).UTC()

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		local, err := tx.Subscriptions().GetSubscriptionByProviderID(ctx, sub.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Created at the processor before the local row committed;
				// the create endpoint owns insertion, so just log it.
				slogx.FromContext(ctx).Info("webhook for unknown subscription",
					slog.String("provider_subscription_id", sub.ID))
				return nil
			}
			return err
		}

		return tx.Subscriptions().UpdateSubscription(ctx, local.ID, status, start, end, sub.CancelAtPeriodEnd)
	})
}

func (s *WebhookService) subscriptionDeleted(ctx context.Context, event stripex.Event) error {
	var sub stripex.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("decode subscription: %w", err)
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		local, err := tx.Subscriptions().GetSubscriptionByProviderID(ctx, sub.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Subscriptions().UpdateSubscriptionStatus(ctx, local.ID, domain.SubscriptionCanceled); err != nil {
			return err
		}

		return tx.Notifications().CreateNotification(ctx, domain.Notification{
			ID:      idx.New().String(),
			UserID:  local.UserID,
			Title:   "Subscription canceled",
			Message: "Your subscription has ended. You can resubscribe at any time.",
			Type:    "subscription",
		})
	})
}

func formatAmount(minor int64, currency string) string {
	if currency == "" {
		currency = "usd"
	}
	return fmt.Sprintf("%d.%02d %s", minor/100, minor%100, currency)
}
