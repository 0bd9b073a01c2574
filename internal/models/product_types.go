package models

import "time"

// Product is the model for the 'products' table.
// Nullable columns use pointers for clean JSON serialization.
type Product struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Details     *string   `json:"details,omitempty" db:"details"`
	Price       float64   `json:"price" db:"price"`
	Image       *string   `json:"image,omitempty" db:"image"`
	Visible     bool      `json:"visible" db:"visible"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
