package stripex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the processor's live API endpoint.
const DefaultBaseURL = "https://api.stripe.com/v1"

// ErrNoAPIKey is returned by every client call when the client was built
// without a key. Lets the service boot without payment credentials while
// keeping the failure mode explicit.
var ErrNoAPIKey = errors.New("stripex: no api key configured")

// APIError is a non-2xx response from the processor, decoded from its
// error envelope.
type APIError struct {
	StatusCode int
	Type       string `json:"type"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stripex: %s (status %d, code %q)", e.Message, e.StatusCode, e.Code)
}

// Client is a minimal form-encoded REST client covering the calls this
// service makes: payment intents, customers and subscriptions. The vendor
// SDK pulls in far more surface than those three endpoints justify.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:     apiKey,
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// IntentParams describes a new payment intent.
type IntentParams struct {
	Amount      int64  // minor units
	Currency    string // lowercase ISO 4217
	Description string
}

// Intent is the subset of the created payment_intent object callers need.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

// CreatePaymentIntent registers a one-off charge with the processor and
// returns the client secret the frontend confirms with.
func (c *Client) CreatePaymentIntent(ctx context.Context, p IntentParams) (Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(p.Amount, 10))
	form.Set("currency", p.Currency)
	if p.Description != "" {
		form.Set("description", p.Description)
	}

	var out Intent
	if err := c.post(ctx, "/payment_intents", form, &out); err != nil {
		return Intent{}, err
	}
	return out, nil
}

// Customer is the subset of the processor's customer object callers need.
type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// CreateCustomer registers a billing customer keyed by email.
func (c *Client) CreateCustomer(ctx context.Context, email string) (Customer, error) {
	form := url.Values{}
	form.Set("email", email)

	var out Customer
	if err := c.post(ctx, "/customers", form, &out); err != nil {
		return Customer{}, err
	}
	return out, nil
}

// SubscriptionParams describes a new recurring subscription.
type SubscriptionParams struct {
	CustomerID string
	PriceID    string
}

// CreatedSubscription is the created subscription expanded with the first
// invoice's payment intent, so the caller gets the confirmation secret in
// one round trip.
type CreatedSubscription struct {
	ID                 string `json:"id"`
	Status             string `json:"status"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
	LatestInvoice      struct {
		PaymentIntent struct {
			ClientSecret string `json:"client_secret"`
		} `json:"payment_intent"`
	} `json:"latest_invoice"`
}

// CreateSubscription starts a subscription for the customer on the given
// price, left incomplete until the first payment is confirmed client-side.
func (c *Client) CreateSubscription(ctx context.Context, p SubscriptionParams) (CreatedSubscription, error) {
	form := url.Values{}
	form.Set("customer", p.CustomerID)
	form.Set("items[0][price]", p.PriceID)
	form.Set("payment_behavior", "default_incomplete")
	form.Set("expand[]", "latest_invoice.payment_intent")

	var out CreatedSubscription
	if err := c.post(ctx, "/subscriptions", form, &out); err != nil {
		return CreatedSubscription{}, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values, out any) error {
	if c.APIKey == "" {
		return ErrNoAPIKey
	}

	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("stripex: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("stripex: %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("stripex: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope struct {
			Error APIError `json:"error"`
		}
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: "unexpected response"}
		if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
			envelope.Error.StatusCode = resp.StatusCode
			apiErr = &envelope.Error
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("stripex: decode %s response: %w", path, err)
	}
	return nil
}
