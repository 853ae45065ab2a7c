package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/binodghimire/agrihaat/app/models"
)

// WishlistRepository handles database operations for WishlistItem.
type WishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) *WishlistRepository {
	return &WishlistRepository{db: db}
}

// Add bookmarks a product for the user. Adding a product that is already
// bookmarked is a no-op.
func (r *WishlistRepository) Add(userID, productID uint) error {
	var existing models.WishlistItem
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.Create(&models.WishlistItem{UserID: userID, ProductID: productID}).Error
}

// Remove deletes a bookmark. Removing an absent bookmark is a no-op.
func (r *WishlistRepository) Remove(userID, productID uint) error {
	return r.db.Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{}).Error
}

// List returns the user's bookmarks with products preloaded, newest first.
func (r *WishlistRepository) List(userID uint) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := r.db.Where("user_id = ?", userID).
		Preload("Product").
		Order("created_at desc").
		Find(&items).Error
	return items, err
}
