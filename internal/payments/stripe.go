package payments

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// StripeClient talks to the Stripe REST API with form-encoded requests and
// a Bearer secret key, the way the official SDKs do on the wire.
type StripeClient struct {
	client *resty.Client
}

var _ StripeGateway = (*StripeClient)(nil)

// NewStripeClient builds a client against baseURL, normally
// https://api.stripe.com; tests point it at a local stub.
func NewStripeClient(baseURL, secretKey string) *StripeClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(secretKey).
		SetTimeout(15 * time.Second).
		SetHeader("Content-Type", "application/x-www-form-urlencoded")
	return &StripeClient{client: c}
}

type stripeIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Error        *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (r *stripeIntentResponse) toIntent() *Intent {
	return &Intent{
		ID:           r.ID,
		ClientSecret: r.ClientSecret,
		Status:       r.Status,
		Amount:       r.Amount,
		Currency:     r.Currency,
	}
}

func (s *StripeClient) CreateIntent(ctx context.Context, amountCents int64, currency string, orderID int64) (*Intent, error) {
	var out stripeIntentResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"amount":             strconv.FormatInt(amountCents, 10),
			"currency":           currency,
			"metadata[order_id]": strconv.FormatInt(orderID, 10),
		}).
		SetResult(&out).
		SetError(&out).
		Post("/v1/payment_intents")
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	if resp.IsError() {
		return nil, stripeError(resp, &out)
	}
	return out.toIntent(), nil
}

func (s *StripeClient) RetrieveIntent(ctx context.Context, intentID string) (*Intent, error) {
	var out stripeIntentResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&out).
		Get("/v1/payment_intents/" + intentID)
	if err != nil {
		return nil, fmt.Errorf("retrieve payment intent: %w", err)
	}
	if resp.IsError() {
		return nil, stripeError(resp, &out)
	}
	return out.toIntent(), nil
}

func stripeError(resp *resty.Response, out *stripeIntentResponse) error {
	if out.Error != nil && out.Error.Message != "" {
		return fmt.Errorf("%w: stripe: %s", ErrGateway, out.Error.Message)
	}
	return fmt.Errorf("%w: stripe: status %d", ErrGateway, resp.StatusCode())
}
