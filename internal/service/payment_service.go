package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/opaline/storefront/internal/models"
	"github.com/opaline/storefront/internal/payments"
	"github.com/opaline/storefront/internal/repository"
	"github.com/opaline/storefront/pkg/metrics"
)

type PaymentService struct {
	store    repository.Store
	stripe   payments.StripeGateway
	paypal   payments.PayPalGateway
	currency string
	metrics  *metrics.Metrics
}

func NewPaymentService(store repository.Store, stripe payments.StripeGateway, paypal payments.PayPalGateway, currency string, m *metrics.Metrics) *PaymentService {
	if currency == "" {
		currency = "usd"
	}
	return &PaymentService{store: store, stripe: stripe, paypal: paypal, currency: currency, metrics: m}
}

// toCents converts a decimal amount to the integer minor units gateways
// expect. Rounding guards against float drift on sums like 19.99*3.
func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// StripeIntent opens a PaymentIntent for the order and records a pending
// Payment row keyed by the intent id. Only the order's owner may pay it.
func (s *PaymentService) StripeIntent(ctx context.Context, userID, orderID int64) (*payments.Intent, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotOwner
	}

	intent, err := s.stripe.CreateIntent(ctx, toCents(order.TotalAmount), s.currency, order.ID)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		OrderID:         order.ID,
		UserID:          userID,
		PaymentMethod:   models.MethodStripe,
		PaymentIntentID: intent.ID,
		PaymentStatus:   models.GatewayStatusPending,
		Amount:          order.TotalAmount,
		Currency:        s.currency,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}
	return intent, nil
}

// ConfirmStripe re-reads the intent from the gateway and, only when its
// status is exactly "succeeded", flips the Payment row to completed and
// the order to processing/paid and notifies the buyer. Any other status
// returns ErrPaymentNotComplete and changes nothing.
func (s *PaymentService) ConfirmStripe(ctx context.Context, userID, orderID int64, intentID string) error {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order.UserID != userID {
		return ErrNotOwner
	}

	intent, err := s.stripe.RetrieveIntent(ctx, intentID)
	if err != nil {
		return err
	}
	if intent.Status != payments.StripeIntentSucceeded {
		return ErrPaymentNotComplete
	}
	return s.settle(ctx, order, intentID)
}

// PayPalPayment creates a PayPal payment for the order and records the
// pending Payment row; the caller redirects the buyer to the approval URL.
func (s *PaymentService) PayPalPayment(ctx context.Context, userID, orderID int64) (*payments.PayPalPayment, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotOwner
	}

	// PayPal wants the ISO code upper-cased; Stripe takes it lower-cased.
	currency := strings.ToUpper(s.currency)
	pp, err := s.paypal.CreatePayment(ctx, order.TotalAmount,
		currency, fmt.Sprintf("Order #%d", order.ID))
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		OrderID:         order.ID,
		UserID:          userID,
		PaymentMethod:   models.MethodPayPal,
		PaymentIntentID: pp.ID,
		PaymentStatus:   models.GatewayStatusPending,
		Amount:          order.TotalAmount,
		Currency:        currency,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}
	return pp, nil
}

// ExecutePayPal finishes the redirect flow. On an approved execution the
// same dual status flip as the card path runs; otherwise nothing changes.
// It returns the order id for the confirmation page.
func (s *PaymentService) ExecutePayPal(ctx context.Context, userID int64, paymentID, payerID string) (int64, error) {
	payment, err := s.store.GetPaymentByIntentID(ctx, paymentID)
	if err != nil {
		return 0, err
	}
	if payment.UserID != userID {
		return 0, ErrNotOwner
	}

	pp, err := s.paypal.ExecutePayment(ctx, paymentID, payerID)
	if err != nil {
		return 0, err
	}
	if pp.State != payments.PayPalApproved {
		return 0, ErrPaymentNotComplete
	}

	order, err := s.store.GetOrder(ctx, payment.OrderID)
	if err != nil {
		return 0, err
	}
	if err := s.settle(ctx, order, paymentID); err != nil {
		return 0, err
	}
	return order.ID, nil
}

// settle flips the Payment row and its order together and notifies the
// buyer. It runs in one transaction so the two records never disagree.
func (s *PaymentService) settle(ctx context.Context, order *models.Order, intentID string) error {
	return s.store.WithTransaction(ctx, func(ctx context.Context) error {
		payment, err := s.store.GetPaymentByIntentID(ctx, intentID)
		if err != nil {
			return err
		}
		if err := s.store.SetPaymentStatus(ctx, payment.ID, models.GatewayStatusCompleted); err != nil {
			return err
		}
		if err := s.store.SetOrderPaymentOutcome(ctx, order.ID,
			models.OrderStatusProcessing, models.PaymentStatusPaid); err != nil {
			return err
		}
		orderID := order.ID
		if err := s.store.CreateNotification(ctx, &models.Notification{
			UserID:    order.UserID,
			Message:   fmt.Sprintf("Payment received for order #%d", order.ID),
			Type:      models.NotificationPayment,
			RelatedID: &orderID,
		}); err != nil {
			return err
		}
		if s.metrics != nil {
			s.metrics.NotificationsTotal.Inc()
		}
		return nil
	})
}

func (s *PaymentService) ListAll(ctx context.Context) ([]models.Payment, error) {
	return s.store.ListPayments(ctx)
}
