package models

import "gorm.io/gorm"

// WishlistItem bookmarks a product for a buyer. The pair is unique, so
// re-adding is a no-op at the database level.
type WishlistItem struct {
	gorm.Model
	UserID    uint `gorm:"not null;index;uniqueIndex:idx_wishlist_once" json:"user_id"`
	ProductID uint `gorm:"not null;index;uniqueIndex:idx_wishlist_once" json:"product_id"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
