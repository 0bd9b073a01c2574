package payments

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// PayPalClient talks to the PayPal REST payments API. Access tokens come
// from the client-credentials OAuth flow and are cached until shortly
// before expiry.
type PayPalClient struct {
	client       *resty.Client
	clientID     string
	clientSecret string
	returnURL    string
	cancelURL    string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

var _ PayPalGateway = (*PayPalClient)(nil)

func NewPayPalClient(baseURL, clientID, clientSecret, returnURL, cancelURL string) *PayPalClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second)
	return &PayPalClient{
		client:       c,
		clientID:     clientID,
		clientSecret: clientSecret,
		returnURL:    returnURL,
		cancelURL:    cancelURL,
	}
}

type paypalTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (p *PayPalClient) token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.accessToken != "" && time.Now().Before(p.tokenExpiry) {
		return p.accessToken, nil
	}

	var out paypalTokenResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBasicAuth(p.clientID, p.clientSecret).
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		SetResult(&out).
		Post("/v1/oauth2/token")
	if err != nil {
		return "", fmt.Errorf("paypal token: %w", err)
	}
	if resp.IsError() || out.AccessToken == "" {
		return "", fmt.Errorf("%w: paypal token: status %d", ErrGateway, resp.StatusCode())
	}

	p.accessToken = out.AccessToken
	// Refresh a minute early so in-flight calls never carry a stale token.
	p.tokenExpiry = time.Now().Add(time.Duration(out.ExpiresIn-60) * time.Second)
	return p.accessToken, nil
}

type paypalPaymentResponse struct {
	ID    string `json:"id"`
	State string `json:"state"`
	Links []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

func (r *paypalPaymentResponse) toPayment() *PayPalPayment {
	p := &PayPalPayment{ID: r.ID, State: r.State}
	for _, link := range r.Links {
		if link.Rel == "approval_url" {
			p.ApprovalURL = link.Href
			break
		}
	}
	return p
}

func (p *PayPalClient) CreatePayment(ctx context.Context, total float64, currency, description string) (*PayPalPayment, error) {
	tok, err := p.token(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"intent": "sale",
		"payer":  map[string]any{"payment_method": "paypal"},
		"redirect_urls": map[string]any{
			"return_url": p.returnURL,
			"cancel_url": p.cancelURL,
		},
		"transactions": []map[string]any{{
			"amount": map[string]any{
				"total":    strconv.FormatFloat(total, 'f', 2, 64),
				"currency": currency,
			},
			"description": description,
		}},
	}

	var out paypalPaymentResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(tok).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&out).
		Post("/v1/payments/payment")
	if err != nil {
		return nil, fmt.Errorf("paypal create payment: %w", err)
	}
	if resp.IsError() || out.ID == "" {
		return nil, fmt.Errorf("%w: paypal create payment: status %d", ErrGateway, resp.StatusCode())
	}
	return out.toPayment(), nil
}

func (p *PayPalClient) ExecutePayment(ctx context.Context, paymentID, payerID string) (*PayPalPayment, error) {
	tok, err := p.token(ctx)
	if err != nil {
		return nil, err
	}

	var out paypalPaymentResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(tok).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"payer_id": payerID}).
		SetResult(&out).
		Post("/v1/payments/payment/" + paymentID + "/execute")
	if err != nil {
		return nil, fmt.Errorf("paypal execute payment: %w", err)
	}
	if resp.IsError() || out.ID == "" {
		return nil, fmt.Errorf("%w: paypal execute payment: status %d", ErrGateway, resp.StatusCode())
	}
	return out.toPayment(), nil
}
