package models

import "time"

// Order statuses.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// Order payment statuses.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Payment methods accepted at checkout.
const (
	MethodStripe = "stripe"
	MethodPayPal = "paypal"
	MethodCOD    = "cod"
)

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted,
		OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// Order is the model for the 'orders' table. TotalAmount is snapshotted at
// checkout time and never recomputed.
type Order struct {
	ID              int64     `json:"id" db:"id"`
	UserID          int64     `json:"userId" db:"user_id"`
	Status          string    `json:"status" db:"status"`
	PaymentMethod   string    `json:"paymentMethod" db:"payment_method"`
	PaymentStatus   string    `json:"paymentStatus" db:"payment_status"`
	TotalAmount     float64   `json:"totalAmount" db:"total_amount"`
	ShippingAddress string    `json:"shippingAddress" db:"shipping_address"`
	BillingAddress  string    `json:"billingAddress" db:"billing_address"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// OrderItem is the model for the 'order_items' table. Price is the product
// price at the time of purchase; later product edits must not change it.
type OrderItem struct {
	ID        int64   `json:"id" db:"id"`
	OrderID   int64   `json:"orderId" db:"order_id"`
	ProductID int64   `json:"productId" db:"product_id"`
	Quantity  int     `json:"quantity" db:"quantity"`
	Price     float64 `json:"price" db:"price"`
}
