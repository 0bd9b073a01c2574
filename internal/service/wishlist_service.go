package service

import (
	"context"

	"github.com/opaline/storefront/internal/models"
	"github.com/opaline/storefront/internal/repository"
)

type WishlistService struct {
	store repository.Store
}

func NewWishlistService(store repository.Store) *WishlistService {
	return &WishlistService{store: store}
}

// Add saves the product to the user's wishlist. Re-adding is a no-op;
// added reports whether a new row was created.
func (s *WishlistService) Add(ctx context.Context, userID, productID int64) (bool, error) {
	p, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return false, err
	}
	if !p.Visible {
		return false, ErrProductUnavailable
	}
	return s.store.AddWishlistItem(ctx, userID, productID)
}

func (s *WishlistService) List(ctx context.Context, userID int64) ([]models.WishlistLine, error) {
	return s.store.ListWishlistLines(ctx, userID)
}

func (s *WishlistService) Remove(ctx context.Context, userID, itemID int64) error {
	item, err := s.store.GetWishlistItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item.UserID != userID {
		return ErrNotOwner
	}
	return s.store.DeleteWishlistItem(ctx, itemID)
}
