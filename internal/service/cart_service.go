package service

import (
	"context"

	"github.com/opaline/storefront/internal/models"
	"github.com/opaline/storefront/internal/repository"
)

type CartService struct {
	store repository.Store
}

func NewCartService(store repository.Store) *CartService {
	return &CartService{store: store}
}

// Add puts quantity units of the product in the user's cart. Adding a
// product already present increments the existing row instead of creating
// a second one.
func (s *CartService) Add(ctx context.Context, userID, productID int64, quantity int) error {
	if quantity <= 0 {
		quantity = 1
	}
	p, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if !p.Visible {
		return ErrProductUnavailable
	}
	return s.store.UpsertCartItem(ctx, userID, productID, quantity)
}

// List returns the cart joined with product data plus the running total.
func (s *CartService) List(ctx context.Context, userID int64) ([]models.CartLine, float64, error) {
	lines, err := s.store.ListCartLines(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	var total float64
	for _, l := range lines {
		total += l.LineTotal
	}
	return lines, total, nil
}

// UpdateQuantity sets the row's quantity; zero or negative removes it.
// Only the owner may touch the row.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) error {
	item, err := s.store.GetCartItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item.UserID != userID {
		return ErrNotOwner
	}
	if quantity <= 0 {
		return s.store.DeleteCartItem(ctx, itemID)
	}
	return s.store.SetCartItemQuantity(ctx, itemID, quantity)
}

func (s *CartService) Remove(ctx context.Context, userID, itemID int64) error {
	item, err := s.store.GetCartItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item.UserID != userID {
		return ErrNotOwner
	}
	return s.store.DeleteCartItem(ctx, itemID)
}

// Count returns the total unit count for the cart badge.
func (s *CartService) Count(ctx context.Context, userID int64) (int64, error) {
	return s.store.CountCartItems(ctx, userID)
}
