// Package payment abstracts the payment gateway. The storefront initiates
// a payment and later receives lifecycle events on a webhook; everything
// between those two points belongs to the provider.
package payment

import (
	"context"
	"time"
)

type Request struct {
	OrderNumber    string
	UserID         uint
	AmountCents    int64
	Currency       string
	IdempotencyKey string
	Description    string
	CallbackURL    string
	ExpiresIn      time.Duration
}

type Response struct {
	Reference   string // provider-side payment id
	Status      string
	CheckoutURL string
	ExpiresAt   time.Time
}

// Event is the normalized webhook payload: completed, expired, failed or
// refunded, tied to an order by the provider reference.
type Event struct {
	Type        string
	EventID     string
	OrderNumber string
	ProviderRef string
	AmountCents int64
}

type Provider interface {
	Name() string
	InitiatePayment(ctx context.Context, req Request) (*Response, error)
	VerifyPayment(ctx context.Context, reference string) (*Response, error)
}
