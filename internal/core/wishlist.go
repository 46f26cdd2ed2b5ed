package core

import (
	"context"

	"affordhostel/pkg/domain"
)

// AddToWishlist saves hostelID for the current user. Saving twice is a no-op.
func (s *Service) AddToWishlist(ctx context.Context, hostelID string) error {
	_, err := s.run(ctx, opAddToWishlist, func(tx Transaction) (string, error) {
		user, err := s.requireUser()
		if err != nil {
			return hostelID, err
		}
		if _, ok := tx.FindHostel(hostelID); !ok {
			return hostelID, domain.NotFoundError{Entity: domain.EntityHostel, ID: hostelID}
		}
		if _, ok := findWishlistItem(tx.Snapshot().ListWishlistItems(), user.ID, hostelID); ok {
			return hostelID, nil
		}
		_, err = tx.CreateWishlistItem(WishlistItem{UserID: user.ID, HostelID: hostelID})
		return hostelID, err
	})
	return err
}

// RemoveFromWishlist drops hostelID from the current user's wishlist.
func (s *Service) RemoveFromWishlist(ctx context.Context, hostelID string) error {
	_, err := s.run(ctx, opRemoveFromWishlist, func(tx Transaction) (string, error) {
		user, err := s.requireUser()
		if err != nil {
			return hostelID, err
		}
		item, ok := findWishlistItem(tx.Snapshot().ListWishlistItems(), user.ID, hostelID)
		if !ok {
			return hostelID, nil
		}
		return hostelID, tx.DeleteWishlistItem(item.ID)
	})
	return err
}

// IsInWishlist reports whether the current user saved hostelID.
func (s *Service) IsInWishlist(hostelID string) bool {
	user, ok := s.CurrentUser()
	if !ok {
		return false
	}
	_, found := findWishlistItem(s.store.ListWishlistItems(), user.ID, hostelID)
	return found
}

// Wishlist returns the current user's saved hostels in the order they were saved.
func (s *Service) Wishlist() []WishlistItem {
	user, ok := s.CurrentUser()
	if !ok {
		return nil
	}
	var out []WishlistItem
	for _, item := range s.store.ListWishlistItems() {
		if item.UserID == user.ID {
			out = append(out, item)
		}
	}
	return out
}

func findWishlistItem(items []WishlistItem, userID, hostelID string) (WishlistItem, bool) {
	for _, item := range items {
		if item.UserID == userID && item.HostelID == hostelID {
			return item, true
		}
	}
	return WishlistItem{}, false
}
