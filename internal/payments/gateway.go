// Package payments holds the HTTP clients for the card and PayPal
// gateways. Both are consumed through interfaces so tests can substitute
// stub servers or fakes.
package payments

import (
	"context"
	"errors"
)

// ErrGateway wraps any non-2xx or malformed response from a gateway.
var ErrGateway = errors.New("payment gateway error")

// Intent is the subset of a Stripe PaymentIntent the storefront uses.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
}

// StripeIntentSucceeded is the only intent status that marks an order paid.
const StripeIntentSucceeded = "succeeded"

type StripeGateway interface {
	// CreateIntent opens a PaymentIntent for amountCents in the given
	// currency, tagged with the order id for reconciliation.
	CreateIntent(ctx context.Context, amountCents int64, currency string, orderID int64) (*Intent, error)
	RetrieveIntent(ctx context.Context, intentID string) (*Intent, error)
}

// PayPalPayment is the subset of a PayPal payment resource the storefront
// uses: the id, its state, and the buyer approval URL extracted from links.
type PayPalPayment struct {
	ID          string
	State       string
	ApprovalURL string
}

// PayPalApproved is the state an executed payment must reach before the
// order flips to paid.
const PayPalApproved = "approved"

type PayPalGateway interface {
	CreatePayment(ctx context.Context, total float64, currency, description string) (*PayPalPayment, error)
	ExecutePayment(ctx context.Context, paymentID, payerID string) (*PayPalPayment, error)
}
