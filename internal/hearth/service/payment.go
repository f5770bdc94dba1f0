package service

import (
	"context"
	"errors"
	"time"

	"github.com/hearthhq/hearth/internal/hearth/domain"
	"github.com/hearthhq/hearth/internal/hearth/store"
	"github.com/hearthhq/hearth/pkg/idx"
)

var (
	ErrAmountTooSmall     = errors.New("amount_too_small")
	ErrInvalidPaymentType = errors.New("invalid_payment_type")
)

// MinPaymentAmount is the processor's floor, in minor units.
const MinPaymentAmount = 50

// ProviderIntent is what the processor hands back for a new payment intent.
type ProviderIntent struct {
	ID           string
	ClientSecret string
}

// ProviderSubscription is the processor's view of a new subscription.
type ProviderSubscription struct {
	ID                 string
	PriceID            string
	Status             string
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	ClientSecret       string
}

// PaymentProvider abstracts the payment processor. The concrete client is
// injected at startup and faked in tests.
type PaymentProvider interface {
	CreateIntent(ctx context.Context, amount int64, currency, description string) (ProviderIntent, error)
	CreateSubscription(ctx context.Context, customerEmail, priceID string) (ProviderSubscription, error)
}

type PaymentService struct {
	Store    store.Store
	Provider PaymentProvider
	Audit    *AuditService
}

// CreateIntentResult pairs the stored payment with the client secret the
// frontend needs to confirm it. The secret is never persisted.
type CreateIntentResult struct {
	Payment      domain.Payment
	ClientSecret string
}

// CreateIntent asks the processor for a payment intent and records it
// locally as PENDING. The webhook moves it to COMPLETED or FAILED later.
func (s *PaymentService) CreateIntent(ctx context.Context, userID string, amount int64, currency string, ptype domain.PaymentType, description string) (CreateIntentResult, error) {
	if amount < MinPaymentAmount {
		return CreateIntentResult{}, ErrAmountTooSmall
	}
	if ptype != domain.PaymentOneTime && ptype != domain.PaymentDonation {
		return CreateIntentResult{}, ErrInvalidPaymentType
	}
	if currency == "" {
		currency = "usd"
	}

	intent, err := s.Provider.CreateIntent(ctx, amount, currency, description)
	if err != nil {
		return CreateIntentResult{}, err
	}

	payment := domain.Payment{
		ID:                idx.New().String(),
		UserID:            userID,
		ProviderPaymentID: intent.ID,
		Amount:            amount,
		Currency:          currency,
		Type:              ptype,
		Status:            domain.PaymentPending,
		Description:       description,
	}
	if err := s.Store.Payments().CreatePayment(ctx, payment); err != nil {
		return CreateIntentResult{}, err
	}

	s.Audit.Record(ctx, userID, domain.AuditPaymentIntentCreated, "payment", domain.AuditDetail{
		"payment_id": payment.ID,
		"amount":     amount,
		"currency":   currency,
		"type":       string(ptype),
	})

	return CreateIntentResult{Payment: payment, ClientSecret: intent.ClientSecret}, nil
}

// CreateSubscriptionResult pairs the stored subscription with the client
// secret for the initial invoice payment.
type CreateSubscriptionResult struct {
	Subscription domain.Subscription
	ClientSecret string
}

// CreateSubscription provisions a subscription at the processor and mirrors
// it locally.
func (s *PaymentService) CreateSubscription(ctx context.Context, user domain.User, priceID string) (CreateSubscriptionResult, error) {
	sub, err := s.Provider.CreateSubscription(ctx, user.Email, priceID)
	if err != nil {
		return CreateSubscriptionResult{}, err
	}

	record := domain.Subscription{
		ID:                     idx.New().String(),
		UserID:                 user.ID,
		ProviderSubscriptionID: sub.ID,
		ProviderPriceID:        sub.PriceID,
		Status:                 domain.ParseSubscriptionStatus(sub.Status),
		CurrentPeriodStart:     sub.CurrentPeriodStart,
		CurrentPeriodEnd:       sub.CurrentPeriodEnd,
	}
	if record.ProviderPriceID == "" {
		record.ProviderPriceID = priceID
	}
	if err := s.Store.Subscriptions().CreateSubscription(ctx, record); err != nil {
		return CreateSubscriptionResult{}, err
	}

	s.Audit.Record(ctx, user.ID, domain.AuditSubscriptionCreated, "subscription", domain.AuditDetail{
		"subscription_id": record.ID,
		"price_id":        record.ProviderPriceID,
	})

	return CreateSubscriptionResult{Subscription: record, ClientSecret: sub.ClientSecret}, nil
}
