package models

import "gorm.io/gorm"

// Product listing statuses. StatusOutOfStock is the single canonical
// value applied whenever quantity hits zero.
const (
	ProductAvailable  = "available"
	ProductDraft      = "draft"
	ProductOutOfStock = "out_of_stock"
	ProductArchived   = "archived"
)

// Product is a farmer's listing. Prices are stored in paisa so money
// arithmetic stays in integers; Quantity is the live available stock and
// must never go negative.
type Product struct {
	gorm.Model
	FarmerID    uint   `gorm:"not null;index"                  json:"farmer_id"`
	Name        string `gorm:"size:255;not null;index"         json:"name"`
	Description string `gorm:"type:text"                       json:"description"`
	Category    string `gorm:"size:100;index"                  json:"category"`
	Unit        string `gorm:"size:20;default:kg"              json:"unit"`
	PricePaisa  int64  `gorm:"not null;default:0"              json:"price_paisa"`
	Quantity    int    `gorm:"not null;default:0"              json:"quantity"`
	MinOrderQty int    `gorm:"not null;default:1"              json:"min_order_qty"`
	Status      string `gorm:"size:50;default:draft;index"     json:"status"`
	Image       string `gorm:"size:512"                        json:"image"`

	Farmer *User `gorm:"foreignKey:FarmerID" json:"farmer,omitempty"`
}

// Purchasable reports whether orders may be placed against the listing.
func (p Product) Purchasable() bool {
	return p.Status == ProductAvailable && p.Quantity > 0
}
