package models

import "time"

// CartItem is the model for the 'cart_items' table.
// At most one row exists per (user, product) pair.
type CartItem struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	ProductID int64     `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartLine is a cart item joined with its product for display.
type CartLine struct {
	CartItem
	ProductName  string  `json:"productName"`
	ProductPrice float64 `json:"productPrice"`
	ProductImage *string `json:"productImage,omitempty"`
	LineTotal    float64 `json:"lineTotal"`
}

// WishlistItem is the model for the 'wishlist_items' table, unique per
// (user, product) pair.
type WishlistItem struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	ProductID int64     `json:"productId" db:"product_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// WishlistLine is a wishlist item joined with its product for display.
type WishlistLine struct {
	WishlistItem
	ProductName  string  `json:"productName"`
	ProductPrice float64 `json:"productPrice"`
	ProductImage *string `json:"productImage,omitempty"`
}
