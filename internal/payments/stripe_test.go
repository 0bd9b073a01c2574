package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripeCreateIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/payment_intents", r.URL.Path)
		require.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		require.Equal(t, "6497", r.PostFormValue("amount"))
		require.Equal(t, "usd", r.PostFormValue("currency"))
		require.Equal(t, "12", r.PostFormValue("metadata[order_id]"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_123","client_secret":"pi_123_secret","status":"requires_payment_method","amount":6497,"currency":"usd"}`))
	}))
	defer srv.Close()

	client := NewStripeClient(srv.URL, "sk_test_123")
	intent, err := client.CreateIntent(context.Background(), 6497, "usd", 12)
	require.NoError(t, err)
	require.Equal(t, "pi_123", intent.ID)
	require.Equal(t, "pi_123_secret", intent.ClientSecret)
	require.EqualValues(t, 6497, intent.Amount)
}

func TestStripeRetrieveIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/v1/payment_intents/pi_123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_123","status":"succeeded","amount":6497,"currency":"usd"}`))
	}))
	defer srv.Close()

	client := NewStripeClient(srv.URL, "sk_test_123")
	intent, err := client.RetrieveIntent(context.Background(), "pi_123")
	require.NoError(t, err)
	require.Equal(t, StripeIntentSucceeded, intent.Status)
}

func TestStripeErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"message":"Your card was declined."}}`))
	}))
	defer srv.Close()

	client := NewStripeClient(srv.URL, "sk_test_123")
	_, err := client.CreateIntent(context.Background(), 100, "usd", 1)
	require.ErrorIs(t, err, ErrGateway)
	require.Contains(t, err.Error(), "declined")
}
