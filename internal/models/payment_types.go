package models

import "time"

// Gateway payment statuses. These track the Payment row itself and are
// deliberately distinct from Order.PaymentStatus; handler code keeps the
// two in sync, not a constraint.
const (
	GatewayStatusPending   = "pending"
	GatewayStatusCompleted = "completed"
	GatewayStatusFailed    = "failed"
	GatewayStatusRefunded  = "refunded"
)

// Payment is the model for the 'payments' table, one row per gateway
// transaction attempt.
type Payment struct {
	ID              int64     `json:"id" db:"id"`
	OrderID         int64     `json:"orderId" db:"order_id"`
	UserID          int64     `json:"userId" db:"user_id"`
	PaymentMethod   string    `json:"paymentMethod" db:"payment_method"`
	PaymentIntentID string    `json:"paymentIntentId" db:"payment_intent_id"`
	PaymentStatus   string    `json:"paymentStatus" db:"payment_status"`
	Amount          float64   `json:"amount" db:"amount"`
	Currency        string    `json:"currency" db:"currency"`
	TransactionData *string   `json:"transactionData,omitempty" db:"transaction_data"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}
