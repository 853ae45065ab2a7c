package models

import "gorm.io/gorm"

// Order statuses. The workflow moves forward only:
// pending → confirmed → shipped → completed, with cancellation allowed
// from pending and confirmed. Orders are never deleted.
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderShipped   = "shipped"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

// Payment methods accepted at checkout.
const (
	PaymentCash = "cash"
	PaymentBank = "bank"
)

// Order is a single-product purchase. ProductName, Unit and
// UnitPricePaisa are snapshots taken at placement time; later edits to
// the listing never touch an existing order. TotalPaisa is always
// Quantity × UnitPricePaisa, computed server-side.
//
// AttemptID is the client-generated idempotency key: replaying a
// checkout with the same attempt returns the original order instead of
// decrementing stock twice. It is NULL when the client sent no key, so
// attempt-less orders never collide on the unique index.
type Order struct {
	gorm.Model
	AttemptID       *string `gorm:"size:64;uniqueIndex"     json:"attempt_id,omitempty"`
	BuyerID         uint   `gorm:"not null;index"           json:"buyer_id"`
	FarmerID        uint   `gorm:"not null;index"           json:"farmer_id"`
	ProductID       uint   `gorm:"not null;index"           json:"product_id"`
	ProductName     string `gorm:"size:255;not null"        json:"product_name"`
	Unit            string `gorm:"size:20"                  json:"unit"`
	Quantity        int    `gorm:"not null"                 json:"quantity"`
	UnitPricePaisa  int64  `gorm:"not null"                 json:"unit_price_paisa"`
	TotalPaisa      int64  `gorm:"not null"                 json:"total_paisa"`
	Status          string `gorm:"size:50;default:pending;index" json:"status"`
	PaymentMethod   string `gorm:"size:20;not null"         json:"payment_method"`
	DeliveryAddress string `gorm:"size:512;not null"        json:"delivery_address"`
	District        string `gorm:"size:100"                 json:"district"`
	Province        string `gorm:"size:100"                 json:"province"`
	ContactPhone    string `gorm:"size:512"                 json:"-"` // AES-GCM encrypted at rest
	Note            string `gorm:"type:text"                json:"note"`
}

// orderTransitions is the status whitelist. An empty slice means the
// status is terminal.
var orderTransitions = map[string][]string{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderShipped, OrderCancelled},
	OrderShipped:   {OrderCompleted},
	OrderCompleted: {},
	OrderCancelled: {},
}

// CanTransition reports whether an order may move from to next.
func CanTransition(from, next string) bool {
	for _, s := range orderTransitions[from] {
		if s == next {
			return true
		}
	}
	return false
}
