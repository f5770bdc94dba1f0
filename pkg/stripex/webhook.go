// Package stripex contains the pieces of the payment processor integration
// this service owns: webhook signature verification, the minimal event
// envelope the dispatcher needs, and a thin REST client for the few calls
// the payment service makes outbound.
package stripex

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignatureHeader is the HTTP header carrying the webhook signature.
const SignatureHeader = "Stripe-Signature"

// DefaultTolerance bounds how old a signed timestamp may be. Protects
// against replay of captured webhook deliveries.
const DefaultTolerance = 5 * time.Minute

var (
	// ErrInvalidSignature covers every signature failure: missing header,
	// malformed header, digest mismatch, or a timestamp outside tolerance.
	// Deliberately one error so callers cannot leak which check failed.
	ErrInvalidSignature = errors.New("stripex: invalid webhook signature")

	// ErrMalformedPayload means the signature checked out but the body is not
	// a well-formed event. Kept distinct from ErrInvalidSignature per the
	// webhook contract.
	ErrMalformedPayload = errors.New("stripex: malformed webhook payload")
)

// Event is the envelope of a webhook delivery. Data.Raw is the event object,
// decoded further by whichever handler the type dispatches to.
type Event struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Data    struct {
		Raw json.RawMessage `json:"object"`
	} `json:"data"`
}

// PaymentIntent is the subset of the processor's payment_intent object the
// webhook handlers read.
type PaymentIntent struct {
	ID               string `json:"id"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	LastPaymentError *struct {
		Message string `json:"message"`
	} `json:"last_payment_error"`
}

// Invoice is the subset of the processor's invoice object the webhook
// handlers read.
type Invoice struct {
	ID           string `json:"id"`
	Number       string `json:"number"`
	Subscription string `json:"subscription"`
	AmountPaid   int64  `json:"amount_paid"`
	AmountDue    int64  `json:"amount_due"`
	Currency     string `json:"currency"`
}

// Subscription is the subset of the processor's subscription object the
// webhook handlers read.
type Subscription struct {
	ID                 string `json:"id"`
	Status             string `json:"status"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
	CancelAtPeriodEnd  bool   `json:"cancel_at_period_end"`
}

// ConstructEvent verifies the signature header against the raw body and
// shared secret, then decodes the envelope. Verification happens before any
// JSON parsing so an unsigned payload never reaches a decoder.
func ConstructEvent(body []byte, header, secret string, tolerance time.Duration) (Event, error) {
	if err := verifyHeader(body, header, secret, tolerance, time.Now()); err != nil {
		return Event{}, err
	}

	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return Event{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if ev.Type == "" {
		return Event{}, fmt.Errorf("%w: missing event type", ErrMalformedPayload)
	}
	return ev, nil
}

// verifyHeader checks a "t=<unix>,v1=<hex hmac>" header. The signed payload
// is "<t>.<body>" and the MAC is HMAC-SHA256 over it with the shared secret.
func verifyHeader(body []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	if header == "" || secret == "" {
		return ErrInvalidSignature
	}

	var timestamp int64
	var signatures [][]byte

	for _, pair := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return ErrInvalidSignature
			}
			timestamp = ts
		case "v1":
			sig, err := hex.DecodeString(v)
			if err != nil {
				continue // skip undecodable entries, another v1 may match
			}
			signatures = append(signatures, sig)
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return ErrInvalidSignature
	}

	if tolerance > 0 {
		age := now.Sub(time.Unix(timestamp, 0))
		if age > tolerance || age < -tolerance {
			return ErrInvalidSignature
		}
	}

	expected := computeSignature(body, timestamp, secret)
	for _, sig := range signatures {
		if hmac.Equal(sig, expected) {
			return nil
		}
	}
	return ErrInvalidSignature
}

func computeSignature(body []byte, timestamp int64, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(body)
	return mac.Sum(nil)
}

// SignPayload produces a valid signature header for a body. Used by tests and
// by local tooling that replays captured events.
func SignPayload(body []byte, secret string, at time.Time) string {
	ts := at.Unix()
	sig := computeSignature(body, ts, secret)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(sig))
}
