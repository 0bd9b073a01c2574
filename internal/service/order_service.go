package service

import (
	"context"
	"fmt"
	"time"

	"github.com/opaline/storefront/internal/models"
	"github.com/opaline/storefront/internal/repository"
	"github.com/opaline/storefront/pkg/logger"
	"github.com/opaline/storefront/pkg/metrics"
)

type OrderService struct {
	store   repository.Store
	metrics *metrics.Metrics
}

func NewOrderService(store repository.Store, m *metrics.Metrics) *OrderService {
	return &OrderService{store: store, metrics: m}
}

func (s *OrderService) countNotification() {
	if s.metrics != nil {
		s.metrics.NotificationsTotal.Inc()
	}
}

// CheckoutInput carries what the checkout endpoint collects from the buyer.
type CheckoutInput struct {
	PaymentMethod   string
	ShippingAddress string
	BillingAddress  string
}

// Checkout converts the user's cart into an order inside one transaction:
// the cart is re-read under the transaction, item prices are snapshotted,
// the cart is cleared, and every admin gets a notification. An empty cart
// aborts with ErrEmptyCart and no order is created.
func (s *OrderService) Checkout(ctx context.Context, userID int64, username string, in CheckoutInput) (*models.Order, []models.OrderItem, error) {
	method := in.PaymentMethod
	switch method {
	case models.MethodStripe, models.MethodPayPal:
	default:
		// Anything else falls back to pay on delivery.
		method = models.MethodCOD
	}

	var order *models.Order
	var items []models.OrderItem

	err := s.store.WithTransaction(ctx, func(ctx context.Context) error {
		lines, err := s.store.ListCartLines(ctx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		var total float64
		for _, l := range lines {
			total += l.ProductPrice * float64(l.Quantity)
		}

		order = &models.Order{
			UserID:          userID,
			Status:          models.OrderStatusPending,
			PaymentMethod:   method,
			PaymentStatus:   models.PaymentStatusPending,
			TotalAmount:     total,
			ShippingAddress: in.ShippingAddress,
			BillingAddress:  in.BillingAddress,
		}
		if err := s.store.CreateOrder(ctx, order); err != nil {
			return err
		}

		for _, l := range lines {
			item := models.OrderItem{
				OrderID:   order.ID,
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				Price:     l.ProductPrice,
			}
			if err := s.store.AddOrderItem(ctx, &item); err != nil {
				return err
			}
			items = append(items, item)
		}

		if err := s.store.ClearCart(ctx, userID); err != nil {
			return err
		}

		return s.notifyAdmins(ctx, order, username)
	})
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

func (s *OrderService) notifyAdmins(ctx context.Context, order *models.Order, username string) error {
	admins, err := s.store.ListAdmins(ctx)
	if err != nil {
		return err
	}
	for _, admin := range admins {
		orderID := order.ID
		n := &models.Notification{
			UserID:    admin.ID,
			Message:   fmt.Sprintf("New order #%d from %s (%.2f)", order.ID, username, order.TotalAmount),
			Type:      models.NotificationOrder,
			RelatedID: &orderID,
		}
		if err := s.store.CreateNotification(ctx, n); err != nil {
			return err
		}
		s.countNotification()
	}
	return nil
}

// Get returns the order with its items. Customers only see their own
// orders; admins see all of them.
func (s *OrderService) Get(ctx context.Context, requesterID int64, isAdmin bool, orderID int64) (*models.Order, []models.OrderItem, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if order.UserID != requesterID && !isAdmin {
		return nil, nil, ErrNotOwner
	}
	items, err := s.store.ListOrderItems(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

func (s *OrderService) ListMine(ctx context.Context, userID int64) ([]models.Order, error) {
	return s.store.ListOrdersByUser(ctx, userID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.store.ListAllOrders(ctx)
}

// SetStatus force-sets an order's status from the admin dashboard. Any
// member of the status set is accepted regardless of the current value,
// and the order's owner is notified.
func (s *OrderService) SetStatus(ctx context.Context, orderID int64, status string) error {
	if !models.ValidOrderStatus(status) {
		return ErrInvalidStatus
	}
	return s.store.WithTransaction(ctx, func(ctx context.Context) error {
		order, err := s.store.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if err := s.store.UpdateOrderStatus(ctx, orderID, status); err != nil {
			return err
		}
		id := orderID
		if err := s.store.CreateNotification(ctx, &models.Notification{
			UserID:    order.UserID,
			Message:   fmt.Sprintf("Your order #%d is now %s", orderID, status),
			Type:      models.NotificationOrder,
			RelatedID: &id,
		}); err != nil {
			return err
		}
		s.countNotification()
		return nil
	})
}

// CancelOverdue cancels orders that stayed pending and unpaid longer than
// maxAge. The background sweeper calls it on a ticker.
func (s *OrderService) CancelOverdue(ctx context.Context, maxAge time.Duration) (int64, error) {
	n, err := s.store.CancelOverdueOrders(ctx, time.Now().Add(-maxAge))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Info("cancelled overdue orders", "count", n)
	}
	return n, nil
}
