package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/app/repositories"
)

// WishlistService saves products a buyer wants to come back to.
type WishlistService struct {
	wishlist *repositories.WishlistRepository
	products *repositories.ProductRepository
}

func NewWishlistService(wishlist *repositories.WishlistRepository, products *repositories.ProductRepository) *WishlistService {
	return &WishlistService{wishlist: wishlist, products: products}
}

// Add saves a product. Adding the same product twice is a no-op.
func (s *WishlistService) Add(userID, productID uint) error {
	if userID == 0 {
		return ErrUnauthenticated
	}
	if _, err := s.products.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return s.wishlist.Add(userID, productID)
}

func (s *WishlistService) Remove(userID, productID uint) error {
	if userID == 0 {
		return ErrUnauthenticated
	}
	return s.wishlist.Remove(userID, productID)
}

func (s *WishlistService) List(userID uint) ([]models.WishlistItem, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	return s.wishlist.List(userID)
}
