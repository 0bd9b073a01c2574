// Package repository defines the persistence interfaces for the storefront
// and their MySQL and in-memory implementations.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/opaline/storefront/internal/models"
)

// ErrNotFound is returned when an entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a uniqueness constraint would be violated.
var ErrDuplicate = errors.New("already exists")

// TxManager runs fn inside a transaction. Repository calls made with the
// context passed to fn join that transaction.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository persists accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListAdmins(ctx context.Context) ([]models.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

// ProductRepository persists the catalog.
type ProductRepository interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, visibleOnly bool) ([]models.Product, error)
}

// CartRepository persists per-user cart rows, at most one per
// (user, product) pair.
type CartRepository interface {
	// UpsertCartItem adds quantity to an existing row for the pair or
	// inserts a new one.
	UpsertCartItem(ctx context.Context, userID, productID int64, quantity int) error
	GetCartItem(ctx context.Context, itemID int64) (*models.CartItem, error)
	ListCartLines(ctx context.Context, userID int64) ([]models.CartLine, error)
	SetCartItemQuantity(ctx context.Context, itemID int64, quantity int) error
	DeleteCartItem(ctx context.Context, itemID int64) error
	ClearCart(ctx context.Context, userID int64) error
	CountCartItems(ctx context.Context, userID int64) (int64, error)
}

// WishlistRepository persists wishlist rows, unique per (user, product).
type WishlistRepository interface {
	// AddWishlistItem inserts the pair if absent; added reports whether a
	// row was created.
	AddWishlistItem(ctx context.Context, userID, productID int64) (added bool, err error)
	GetWishlistItem(ctx context.Context, itemID int64) (*models.WishlistItem, error)
	ListWishlistLines(ctx context.Context, userID int64) ([]models.WishlistLine, error)
	DeleteWishlistItem(ctx context.Context, itemID int64) error
}

// OrderRepository persists orders and their immutable item snapshots.
type OrderRepository interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	AddOrderItem(ctx context.Context, item *models.OrderItem) error
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	ListOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, error)
	ListAllOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status string) error
	// SetOrderPaymentOutcome flips order status and payment status together.
	SetOrderPaymentOutcome(ctx context.Context, id int64, status, paymentStatus string) error
	// CancelOverdueOrders cancels orders still pending and unpaid created
	// before cutoff, returning how many were touched.
	CancelOverdueOrders(ctx context.Context, cutoff time.Time) (int64, error)
	CountOrders(ctx context.Context) (int64, error)
	PaidRevenue(ctx context.Context) (float64, error)
}

// PaymentRepository persists gateway transaction records.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, p *models.Payment) error
	GetPaymentByIntentID(ctx context.Context, intentID string) (*models.Payment, error)
	SetPaymentStatus(ctx context.Context, id int64, status string) error
	ListPayments(ctx context.Context) ([]models.Payment, error)
}

// NotificationRepository persists the notification fan-out rows.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID int64, limit int) ([]models.Notification, error)
	// MarkNotificationRead flips is_read for the row only if it belongs to
	// userID; reports whether a row was touched.
	MarkNotificationRead(ctx context.Context, id, userID int64) (bool, error)
	MarkAllNotificationsRead(ctx context.Context, userID int64) error
}

// ContentRepository persists the homepage/admin content entities.
type ContentRepository interface {
	CreateSubscriber(ctx context.Context, email string) error
	ListSubscribers(ctx context.Context) ([]models.Subscriber, error)
	DeleteSubscriber(ctx context.Context, id int64) error
	CountSubscribers(ctx context.Context) (int64, error)

	CreateMessage(ctx context.Context, m *models.Message) error
	ListMessages(ctx context.Context, limit int) ([]models.Message, error)
	DeleteMessage(ctx context.Context, id int64) error
	CountUnreadMessages(ctx context.Context) (int64, error)

	ListTestimonials(ctx context.Context, visibleOnly bool) ([]models.Testimonial, error)
	CreateTestimonial(ctx context.Context, t *models.Testimonial) error
	UpdateTestimonial(ctx context.Context, t *models.Testimonial) error
	DeleteTestimonial(ctx context.Context, id int64) error

	ListVideos(ctx context.Context, visibleOnly bool) ([]models.Video, error)
	CreateVideo(ctx context.Context, v *models.Video) error
	UpdateVideo(ctx context.Context, v *models.Video) error
	DeleteVideo(ctx context.Context, id int64) error

	// GetGiveaway returns the visible giveaway with the latest end date.
	GetGiveaway(ctx context.Context) (*models.Giveaway, error)
	// SaveGiveaway inserts when g.ID is zero, updates otherwise.
	SaveGiveaway(ctx context.Context, g *models.Giveaway) error
	DeleteGiveaway(ctx context.Context, id int64) error

	ListSections(ctx context.Context) ([]models.Section, error)
	SetSectionVisibility(ctx context.Context, name string, visible bool) error
}

// Store aggregates every repository plus the transaction boundary; both the
// MySQL and the in-memory implementations satisfy it.
type Store interface {
	TxManager
	UserRepository
	ProductRepository
	CartRepository
	WishlistRepository
	OrderRepository
	PaymentRepository
	NotificationRepository
	ContentRepository
}
