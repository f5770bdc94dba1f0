package app

import (
	"context"
	"time"

	"github.com/hearthhq/hearth/internal/hearth/service"
	"github.com/hearthhq/hearth/pkg/stripex"
)

// stripeProvider adapts the stripex REST client to the payment service's
// provider interface. Subscriptions create a fresh billing customer per
// call; the processor deduplicates by email on its side.
type stripeProvider struct {
	client *stripex.Client
}

func newStripeProvider(apiKey string) *stripeProvider {
	return &stripeProvider{client: stripex.NewClient(apiKey)}
}

func (p *stripeProvider) CreateIntent(ctx context.Context, amount int64, currency, description string) (service.ProviderIntent, error) {
	intent, err := p.client.CreatePaymentIntent(ctx, stripex.IntentParams{
		Amount:      amount,
		Currency:    currency,
		Description: description,
	})
	if err != nil {
		return service.ProviderIntent{}, err
	}
	return service.ProviderIntent{ID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

func (p *stripeProvider) CreateSubscription(ctx context.Context, customerEmail, priceID string) (service.ProviderSubscription, error) {
	customer, err := p.client.CreateCustomer(ctx, customerEmail)
	if err != nil {
		return service.ProviderSubscription{}, err
	}

	sub, err := p.client.CreateSubscription(ctx, stripex.SubscriptionParams{
		CustomerID: customer.ID,
		PriceID:    priceID,
	})
	if err != nil {
		return service.ProviderSubscription{}, err
	}

	return service.ProviderSubscription{
		ID:                 sub.ID,
		PriceID:            priceID,
		Status:             sub.Status,
		CurrentPeriodStart: time.Unix(sub.CurrentPeriodStart, 0).UTC(),
		CurrentPeriodEnd:   time.Unix(sub.CurrentPeriodEnd, 0).UTC(),
		ClientSecret:       sub.LatestInvoice.PaymentIntent.ClientSecret,
	}, nil
}
