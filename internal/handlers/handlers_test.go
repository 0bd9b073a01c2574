package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/opaline/storefront/internal/config"
	"github.com/opaline/storefront/internal/handlers"
	"github.com/opaline/storefront/internal/models"
	"github.com/opaline/storefront/internal/payments"
	"github.com/opaline/storefront/internal/repository"
	"github.com/opaline/storefront/internal/routes"
	"github.com/opaline/storefront/internal/service"
	"github.com/opaline/storefront/pkg/metrics"
)

type stubStripe struct{ status string }

func (s *stubStripe) CreateIntent(ctx context.Context, amountCents int64, currency string, orderID int64) (*payments.Intent, error) {
	return &payments.Intent{ID: "pi_test", ClientSecret: "pi_test_secret", Status: "requires_payment_method", Amount: amountCents, Currency: currency}, nil
}

func (s *stubStripe) RetrieveIntent(ctx context.Context, intentID string) (*payments.Intent, error) {
	return &payments.Intent{ID: intentID, Status: s.status}, nil
}

type stubPayPal struct{ state string }

func (s *stubPayPal) CreatePayment(ctx context.Context, total float64, currency, description string) (*payments.PayPalPayment, error) {
	return &payments.PayPalPayment{ID: "PAY-test", State: "created", ApprovalURL: "https://paypal.test/approve"}, nil
}

func (s *stubPayPal) ExecutePayment(ctx context.Context, paymentID, payerID string) (*payments.PayPalPayment, error) {
	return &payments.PayPalPayment{ID: paymentID, State: s.state}, nil
}

type testApp struct {
	router  *gin.Engine
	store   *repository.MemoryStore
	stripe  *stubStripe
	paypal  *stubPayPal
	metrics *metrics.Metrics
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = 1
	cfg.Uploads.Dir = t.TempDir()

	store := repository.NewMemoryStore()
	stripe := &stubStripe{status: "requires_payment_method"}
	paypal := &stubPayPal{state: payments.PayPalApproved}

	// Fresh instruments per app, never registered globally.
	m := metrics.New()

	users := service.NewUserService(store)
	products := service.NewProductService(store, nil, time.Minute, nil)
	cart := service.NewCartService(store)
	wishlist := service.NewWishlistService(store)
	orders := service.NewOrderService(store, nil)
	pay := service.NewPaymentService(store, stripe, paypal, "usd", nil)

	h := handlers.New(cfg, store, users, products, cart, wishlist, orders, pay, m)
	return &testApp{router: routes.Setup(h), store: store, stripe: stripe, paypal: paypal, metrics: m}
}

// doJSON performs a request with an optional JSON body and bearer token.
func (a *testApp) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (a *testApp) registerAndLogin(t *testing.T, username string) string {
	t.Helper()
	w := a.doJSON(t, http.MethodPost, "/v1/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = a.doJSON(t, http.MethodPost, "/v1/login", "", gin.H{
		"username": username,
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token, ok := decode(t, w)["token"].(string)
	require.True(t, ok)
	return token
}

// adminToken promotes a fresh account to admin directly in the store and
// logs in again so the token carries the admin role.
func (a *testApp) adminToken(t *testing.T) string {
	t.Helper()
	u := &models.User{Username: "root", Email: "root@example.com", Role: models.RoleAdmin}
	var pw models.Password
	require.NoError(t, pw.Set("s3cret-pass"))
	u.PasswordHash = pw.Hash
	require.NoError(t, a.store.CreateUser(context.Background(), u))

	w := a.doJSON(t, http.MethodPost, "/v1/login", "", gin.H{
		"username": "root",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token, ok := decode(t, w)["token"].(string)
	require.True(t, ok)
	return token
}

func (a *testApp) seedProduct(t *testing.T, name string, price float64) int64 {
	t.Helper()
	p := &models.Product{Name: name, Description: name, Price: price, Visible: true}
	require.NoError(t, a.store.CreateProduct(context.Background(), p))
	return p.ID
}

func TestRegisterLoginProfile(t *testing.T) {
	app := newTestApp(t)
	token := app.registerAndLogin(t, "alice")

	w := app.doJSON(t, http.MethodGet, "/v1/profile/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decode(t, w)["user"].(map[string]any)
	require.Equal(t, "alice", user["username"])
	require.Equal(t, models.RoleCustomer, user["role"])
	require.NotContains(t, w.Body.String(), "password")
}

func TestRegisterDuplicateConflict(t *testing.T) {
	app := newTestApp(t)
	app.registerAndLogin(t, "alice")

	w := app.doJSON(t, http.MethodPost, "/v1/register", "", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthRequired(t *testing.T) {
	app := newTestApp(t)

	w := app.doJSON(t, http.MethodGet, "/v1/cart", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.doJSON(t, http.MethodGet, "/v1/cart", "bogus-token", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminGroupForbiddenForCustomers(t *testing.T) {
	app := newTestApp(t)
	token := app.registerAndLogin(t, "alice")

	w := app.doJSON(t, http.MethodGet, "/v1/admin/orders", token, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestCartLifecycle(t *testing.T) {
	app := newTestApp(t)
	token := app.registerAndLogin(t, "alice")
	productID := app.seedProduct(t, "candle", 12.50)

	w := app.doJSON(t, http.MethodPost, "/v1/cart/items", token, gin.H{"product_id": productID})
	require.Equal(t, http.StatusCreated, w.Code)
	w = app.doJSON(t, http.MethodPost, "/v1/cart/items", token, gin.H{"product_id": productID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.doJSON(t, http.MethodGet, "/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	require.InDelta(t, 25.0, body["total"].(float64), 1e-9)

	itemID := int64(items[0].(map[string]any)["id"].(float64))

	// Update to zero deletes the row.
	w = app.doJSON(t, http.MethodPut, fmt.Sprintf("/v1/cart/items/%d", itemID), token, gin.H{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.doJSON(t, http.MethodGet, "/v1/cart/count", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Zero(t, decode(t, w)["count"].(float64))
}

func TestCartUpdateWithoutQuantityKeepsItem(t *testing.T) {
	app := newTestApp(t)
	token := app.registerAndLogin(t, "alice")
	productID := app.seedProduct(t, "candle", 12.50)

	w := app.doJSON(t, http.MethodPost, "/v1/cart/items", token, gin.H{"product_id": productID, "quantity": 3})
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.doJSON(t, http.MethodGet, "/v1/cart", token, nil)
	itemID := int64(decode(t, w)["items"].([]any)[0].(map[string]any)["id"].(float64))

	// A body without a quantity falls back to 1 instead of wiping the row.
	w = app.doJSON(t, http.MethodPut, fmt.Sprintf("/v1/cart/items/%d", itemID), token, gin.H{})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.doJSON(t, http.MethodGet, "/v1/cart", token, nil)
	items := decode(t, w)["items"].([]any)
	require.Len(t, items, 1)
	require.EqualValues(t, 1, items[0].(map[string]any)["quantity"].(float64))
}

func TestCartCrossUserForbidden(t *testing.T) {
	app := newTestApp(t)
	alice := app.registerAndLogin(t, "alice")
	mallory := app.registerAndLogin(t, "mallory")
	productID := app.seedProduct(t, "mug", 9.99)

	w := app.doJSON(t, http.MethodPost, "/v1/cart/items", alice, gin.H{"product_id": productID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.doJSON(t, http.MethodGet, "/v1/cart", alice, nil)
	itemID := int64(decode(t, w)["items"].([]any)[0].(map[string]any)["id"].(float64))

	w = app.doJSON(t, http.MethodDelete, fmt.Sprintf("/v1/cart/items/%d", itemID), mallory, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	// The row is untouched.
	w = app.doJSON(t, http.MethodGet, "/v1/cart", alice, nil)
	require.Len(t, decode(t, w)["items"].([]any), 1)
}

func TestCheckoutAndStripeFlow(t *testing.T) {
	app := newTestApp(t)
	token := app.registerAndLogin(t, "alice")
	productID := app.seedProduct(t, "candle", 19.99)

	w := app.doJSON(t, http.MethodPost, "/v1/cart/items", token, gin.H{"product_id": productID, "quantity": 3})
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.doJSON(t, http.MethodPost, "/v1/checkout", token, gin.H{
		"payment_method":   "stripe",
		"shipping_address": "1 Main St",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	order := decode(t, w)["order"].(map[string]any)
	orderID := int64(order["id"].(float64))
	require.InDelta(t, 59.97, order["totalAmount"].(float64), 1e-9)

	w = app.doJSON(t, http.MethodPost, "/v1/api/create-payment-intent", token, gin.H{"order_id": orderID})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "pi_test_secret", decode(t, w)["clientSecret"])

	// Not succeeded yet: 400 and no state change.
	w = app.doJSON(t, http.MethodPost, "/v1/api/confirm-stripe-payment", token, gin.H{
		"order_id": orderID, "payment_intent_id": "pi_test",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = app.doJSON(t, http.MethodGet, fmt.Sprintf("/v1/orders/%d", orderID), token, nil)
	require.Equal(t, "pending", decode(t, w)["order"].(map[string]any)["paymentStatus"])

	// Succeeded flips both statuses.
	app.stripe.status = payments.StripeIntentSucceeded
	w = app.doJSON(t, http.MethodPost, "/v1/api/confirm-stripe-payment", token, gin.H{
		"order_id": orderID, "payment_intent_id": "pi_test",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.doJSON(t, http.MethodGet, fmt.Sprintf("/v1/orders/%d", orderID), token, nil)
	got := decode(t, w)["order"].(map[string]any)
	require.Equal(t, "processing", got["status"])
	require.Equal(t, "paid", got["paymentStatus"])
}

func TestPaymentMetricsIgnoreClientMistakes(t *testing.T) {
	app := newTestApp(t)
	alice := app.registerAndLogin(t, "alice")
	mallory := app.registerAndLogin(t, "mallory")
	productID := app.seedProduct(t, "candle", 19.99)

	app.doJSON(t, http.MethodPost, "/v1/cart/items", alice, gin.H{"product_id": productID})
	w := app.doJSON(t, http.MethodPost, "/v1/checkout", alice, gin.H{
		"payment_method":   "stripe",
		"shipping_address": "1 Main St",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := int64(decode(t, w)["order"].(map[string]any)["id"].(float64))

	w = app.doJSON(t, http.MethodPost, "/v1/api/create-payment-intent", alice, gin.H{"order_id": orderID})
	require.Equal(t, http.StatusOK, w.Code)

	failed := func() float64 {
		return testutil.ToFloat64(app.metrics.PaymentsTotal.WithLabelValues(models.MethodStripe, "failed"))
	}

	// Someone else's confirm attempt is a 403, not a gateway failure.
	w = app.doJSON(t, http.MethodPost, "/v1/api/confirm-stripe-payment", mallory, gin.H{
		"order_id": orderID, "payment_intent_id": "pi_test",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Zero(t, failed())

	// An intent the gateway reports as unfinished does count.
	w = app.doJSON(t, http.MethodPost, "/v1/api/confirm-stripe-payment", alice, gin.H{
		"order_id": orderID, "payment_intent_id": "pi_test",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.EqualValues(t, 1, failed())
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	app := newTestApp(t)
	token := app.registerAndLogin(t, "alice")

	w := app.doJSON(t, http.MethodPost, "/v1/checkout", token, gin.H{
		"payment_method":   "stripe",
		"shipping_address": "1 Main St",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPayPalRedirectFlow(t *testing.T) {
	app := newTestApp(t)
	token := app.registerAndLogin(t, "alice")
	productID := app.seedProduct(t, "candle", 10.00)

	app.doJSON(t, http.MethodPost, "/v1/cart/items", token, gin.H{"product_id": productID})
	w := app.doJSON(t, http.MethodPost, "/v1/checkout", token, gin.H{
		"payment_method":   "paypal",
		"shipping_address": "1 Main St",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := int64(decode(t, w)["order"].(map[string]any)["id"].(float64))

	w = app.doJSON(t, http.MethodPost, "/v1/api/create-paypal-order", token, gin.H{"order_id": orderID})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "https://paypal.test/approve", decode(t, w)["approvalUrl"])

	w = app.doJSON(t, http.MethodGet, "/v1/paypal-success?paymentId=PAY-test&PayerID=PAYER123", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.doJSON(t, http.MethodGet, fmt.Sprintf("/v1/orders/%d", orderID), token, nil)
	require.Equal(t, "paid", decode(t, w)["order"].(map[string]any)["paymentStatus"])
}

func TestAdminOrderStatusUpdateNotifiesCustomer(t *testing.T) {
	app := newTestApp(t)
	alice := app.registerAndLogin(t, "alice")
	admin := app.adminToken(t)
	productID := app.seedProduct(t, "candle", 5.00)

	app.doJSON(t, http.MethodPost, "/v1/cart/items", alice, gin.H{"product_id": productID})
	w := app.doJSON(t, http.MethodPost, "/v1/checkout", alice, gin.H{
		"payment_method":   "cod",
		"shipping_address": "1 Main St",
	})
	orderID := int64(decode(t, w)["order"].(map[string]any)["id"].(float64))

	w = app.doJSON(t, http.MethodPut, fmt.Sprintf("/v1/admin/orders/%d", orderID), admin, gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.doJSON(t, http.MethodPut, fmt.Sprintf("/v1/admin/orders/%d", orderID), admin, gin.H{"status": "shipped"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = app.doJSON(t, http.MethodGet, "/v1/notifications", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	notifications := decode(t, w)["notifications"].([]any)
	require.NotEmpty(t, notifications)
}

func TestHiddenProductsNotServed(t *testing.T) {
	app := newTestApp(t)
	hidden := &models.Product{Name: "secret", Description: "d", Price: 5, Visible: false}
	require.NoError(t, app.store.CreateProduct(context.Background(), hidden))
	app.seedProduct(t, "public", 10)

	w := app.doJSON(t, http.MethodGet, "/v1/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	products := decode(t, w)["products"].([]any)
	require.Len(t, products, 1)

	w = app.doJSON(t, http.MethodGet, fmt.Sprintf("/v1/products/%d", hidden.ID), "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscribeAndContact(t *testing.T) {
	app := newTestApp(t)

	w := app.doJSON(t, http.MethodPost, "/v1/api/subscribe", "", gin.H{"email": "fan@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = app.doJSON(t, http.MethodPost, "/v1/api/subscribe", "", gin.H{"email": "fan@example.com"})
	require.Equal(t, http.StatusConflict, w.Code)

	w = app.doJSON(t, http.MethodPost, "/v1/api/contact", "", gin.H{
		"name": "Fan", "email": "fan@example.com", "message": "hello",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	admin := app.adminToken(t)
	w = app.doJSON(t, http.MethodGet, "/v1/admin/stats", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode(t, w)
	require.EqualValues(t, 1, stats["subscribers"].(float64))
	require.EqualValues(t, 1, stats["unreadMessages"].(float64))
}

func TestAdminProductCRUD(t *testing.T) {
	app := newTestApp(t)
	admin := app.adminToken(t)

	w := app.doJSON(t, http.MethodPost, "/v1/admin/products", admin, gin.H{
		"name": "vase", "description": "ceramic", "price": 45.00,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := int64(decode(t, w)["product"].(map[string]any)["id"].(float64))

	w = app.doJSON(t, http.MethodPut, fmt.Sprintf("/v1/admin/products/%d", id), admin, gin.H{
		"name": "vase", "description": "ceramic", "price": 50.00, "visible": false,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Hidden after the update, so the public catalog is empty.
	w = app.doJSON(t, http.MethodGet, "/v1/products", "", nil)
	require.Empty(t, decode(t, w)["products"].([]any))

	w = app.doJSON(t, http.MethodDelete, fmt.Sprintf("/v1/admin/products/%d", id), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = app.doJSON(t, http.MethodDelete, fmt.Sprintf("/v1/admin/products/%d", id), admin, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotificationOwnershipAndReadAll(t *testing.T) {
	app := newTestApp(t)
	alice := app.registerAndLogin(t, "alice")
	mallory := app.registerAndLogin(t, "mallory")

	aliceID := int64(1)
	n := &models.Notification{UserID: aliceID, Message: "hi", Type: models.NotificationGeneral}
	require.NoError(t, app.store.CreateNotification(context.Background(), n))

	// Mallory cannot mark Alice's notification.
	w := app.doJSON(t, http.MethodPatch, fmt.Sprintf("/v1/notifications/%d/read", n.ID), mallory, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = app.doJSON(t, http.MethodPatch, fmt.Sprintf("/v1/notifications/%d/read", n.ID), alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.doJSON(t, http.MethodPost, "/v1/notifications/read-all", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.doJSON(t, http.MethodGet, "/v1/notifications", alice, nil)
	for _, raw := range decode(t, w)["notifications"].([]any) {
		require.True(t, raw.(map[string]any)["isRead"].(bool))
	}
}
