package models

import "gorm.io/gorm"

// Review is a buyer's rating of a product. One review per buyer per
// product, and only after a completed order.
type Review struct {
	gorm.Model
	ProductID uint   `gorm:"not null;index;uniqueIndex:idx_review_once" json:"product_id"`
	BuyerID   uint   `gorm:"not null;index;uniqueIndex:idx_review_once" json:"buyer_id"`
	Rating    int    `gorm:"not null"  json:"rating"` // 1..5
	Comment   string `gorm:"type:text" json:"comment"`

	Buyer *User `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
}
