package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opaline/storefront/internal/models"
	"github.com/opaline/storefront/internal/repository"
)

func seedAdmin(t *testing.T, store repository.Store) *models.User {
	t.Helper()
	u := &models.User{Username: "admin", Email: "admin@example.com", PasswordHash: "x", Role: models.RoleAdmin}
	require.NoError(t, store.CreateUser(context.Background(), u))
	return u
}

func TestCheckoutSnapshotsPricesAndClearsCart(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewOrderService(store, nil)
	ctx := context.Background()

	admin := seedAdmin(t, store)
	a := seedProduct(t, store, "a", 19.99)
	b := seedProduct(t, store, "b", 5.00)
	require.NoError(t, store.UpsertCartItem(ctx, 42, a.ID, 3))
	require.NoError(t, store.UpsertCartItem(ctx, 42, b.ID, 1))

	order, items, err := svc.Checkout(ctx, 42, "buyer", CheckoutInput{
		PaymentMethod:   models.MethodStripe,
		ShippingAddress: "1 Main St",
		BillingAddress:  "1 Main St",
	})
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusPending, order.Status)
	require.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	require.InDelta(t, 64.97, order.TotalAmount, 1e-9)
	require.Len(t, items, 2)

	// Cart is gone after checkout.
	n, err := store.CountCartItems(ctx, 42)
	require.NoError(t, err)
	require.Zero(t, n)

	// Admins were notified about the new order.
	notifications, err := store.ListNotifications(ctx, admin.ID, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, models.NotificationOrder, notifications[0].Type)
	require.Equal(t, order.ID, *notifications[0].RelatedID)

	// Editing the product later must not touch the snapshot.
	a.Price = 99.99
	require.NoError(t, store.UpdateProduct(ctx, a))

	got, gotItems, err := svc.Get(ctx, 42, false, order.ID)
	require.NoError(t, err)
	require.InDelta(t, 64.97, got.TotalAmount, 1e-9)
	for _, item := range gotItems {
		if item.ProductID == a.ID {
			require.InDelta(t, 19.99, item.Price, 1e-9)
		}
	}
}

func TestCheckoutWorkedExample(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewOrderService(store, nil)
	ctx := context.Background()

	seedAdmin(t, store)
	p := seedProduct(t, store, "A", 10.00)
	require.NoError(t, store.UpsertCartItem(ctx, 1, p.ID, 2))

	order, items, err := svc.Checkout(ctx, 1, "alice", CheckoutInput{
		PaymentMethod:   models.MethodCOD,
		ShippingAddress: "addr",
		BillingAddress:  "addr",
	})
	require.NoError(t, err)
	require.InDelta(t, 20.00, order.TotalAmount, 1e-9)
	require.Len(t, items, 1)
	require.Equal(t, 2, items[0].Quantity)

	n, err := store.CountCartItems(ctx, 1)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestCheckoutEmptyCart(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewOrderService(store, nil)

	_, _, err := svc.Checkout(context.Background(), 1, "alice", CheckoutInput{
		PaymentMethod:   models.MethodStripe,
		ShippingAddress: "addr",
	})
	require.ErrorIs(t, err, ErrEmptyCart)

	orders, err := store.ListAllOrders(context.Background())
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestCheckoutUnknownMethodFallsBackToCOD(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewOrderService(store, nil)
	ctx := context.Background()

	p := seedProduct(t, store, "a", 1.00)
	require.NoError(t, store.UpsertCartItem(ctx, 1, p.ID, 1))

	order, _, err := svc.Checkout(ctx, 1, "alice", CheckoutInput{
		PaymentMethod:   "bank_transfer",
		ShippingAddress: "addr",
	})
	require.NoError(t, err)
	require.Equal(t, models.MethodCOD, order.PaymentMethod)
}

func TestOrderAccessControl(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewOrderService(store, nil)
	ctx := context.Background()

	p := seedProduct(t, store, "a", 2.00)
	require.NoError(t, store.UpsertCartItem(ctx, 1, p.ID, 1))
	order, _, err := svc.Checkout(ctx, 1, "alice", CheckoutInput{
		PaymentMethod: models.MethodCOD, ShippingAddress: "addr",
	})
	require.NoError(t, err)

	_, _, err = svc.Get(ctx, 2, false, order.ID)
	require.ErrorIs(t, err, ErrNotOwner)

	// Admins bypass the ownership check.
	_, _, err = svc.Get(ctx, 2, true, order.ID)
	require.NoError(t, err)
}

func TestSetStatusValidatesMembershipAndNotifies(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewOrderService(store, nil)
	ctx := context.Background()

	p := seedProduct(t, store, "a", 2.00)
	require.NoError(t, store.UpsertCartItem(ctx, 9, p.ID, 1))
	order, _, err := svc.Checkout(ctx, 9, "bob", CheckoutInput{
		PaymentMethod: models.MethodCOD, ShippingAddress: "addr",
	})
	require.NoError(t, err)

	require.ErrorIs(t, svc.SetStatus(ctx, order.ID, "shipped"), ErrInvalidStatus)

	// Any member of the set is accepted, including backwards moves.
	require.NoError(t, svc.SetStatus(ctx, order.ID, models.OrderStatusCompleted))
	require.NoError(t, svc.SetStatus(ctx, order.ID, models.OrderStatusPending))

	got, err := store.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusPending, got.Status)

	notifications, err := store.ListNotifications(ctx, 9, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
}

func TestCancelOverdueOnlyTouchesPendingUnpaid(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewOrderService(store, nil)
	ctx := context.Background()

	pending := &models.Order{UserID: 1, Status: models.OrderStatusPending,
		PaymentMethod: models.MethodStripe, PaymentStatus: models.PaymentStatusPending}
	paid := &models.Order{UserID: 1, Status: models.OrderStatusProcessing,
		PaymentMethod: models.MethodStripe, PaymentStatus: models.PaymentStatusPaid}
	require.NoError(t, store.CreateOrder(ctx, pending))
	require.NoError(t, store.CreateOrder(ctx, paid))

	time.Sleep(5 * time.Millisecond)

	// A negative age puts the cutoff in the future so fresh rows qualify.
	n, err := svc.CancelOverdue(ctx, -time.Second)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	got, err := store.GetOrder(ctx, pending.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusCancelled, got.Status)

	got, err = store.GetOrder(ctx, paid.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusProcessing, got.Status)
}
