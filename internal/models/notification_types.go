package models

import "time"

// Notification types.
const (
	NotificationOrder   = "order"
	NotificationPayment = "payment"
	NotificationGeneral = "general"
)

// Notification is the model for the 'notifications' table.
type Notification struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Message   string    `json:"message" db:"message"`
	Type      string    `json:"type" db:"notification_type"`
	RelatedID *int64    `json:"relatedId,omitempty" db:"related_id"`
	IsRead    bool      `json:"isRead" db:"is_read"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
