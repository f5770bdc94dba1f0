package domain

import "time"

type PaymentType string

const (
	PaymentOneTime      PaymentType = "ONE_TIME"
	PaymentDonation     PaymentType = "DONATION"
	PaymentSubscription PaymentType = "SUBSCRIPTION"
)

func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentOneTime, PaymentDonation, PaymentSubscription:
		return true
	default:
		return false
	}
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

// Payment mirrors a payment intent at the processor. ProviderPaymentID is the
// processor's identifier and is how webhook events find their way back to the
// local row.
type Payment struct {
	ID                string
	UserID            string
	ProviderPaymentID string
	Amount            int64  // minor units (cents)
	Currency          string // lowercase ISO 4217
	Type              PaymentType
	Status            PaymentStatus
	Description       string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "ACTIVE"
	SubscriptionInactive SubscriptionStatus = "INACTIVE"
	SubscriptionPastDue  SubscriptionStatus = "PAST_DUE"
	SubscriptionCanceled SubscriptionStatus = "CANCELED"
	SubscriptionUnpaid   SubscriptionStatus = "UNPAID"
)

// ParseSubscriptionStatus maps the processor's status strings onto the local
// enum; unknown values become INACTIVE rather than failing the webhook.
func ParseSubscriptionStatus(s string) SubscriptionStatus {
	switch s {
	case "active", "ACTIVE":
		return SubscriptionActive
	case "past_due", "PAST_DUE":
		return SubscriptionPastDue
	case "canceled", "CANCELED":
		return SubscriptionCanceled
	case "unpaid", "UNPAID":
		return SubscriptionUnpaid
	default:
		return SubscriptionInactive
	}
}

type Subscription struct {
	ID                     string
	UserID                 string
	ProviderSubscriptionID string
	ProviderPriceID        string
	Status                 SubscriptionStatus
	CurrentPeriodStart     time.Time
	CurrentPeriodEnd       time.Time
	CancelAtPeriodEnd      bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
