package models

import (
	"time"

	"gorm.io/gorm"
)

// Message is one chat message between a buyer and a farmer, usually
// about a specific product. Delivery is best-effort over the WebSocket
// hub; the row here is the durable record.
type Message struct {
	gorm.Model
	SenderID   uint       `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint       `gorm:"not null;index" json:"receiver_id"`
	ProductID  uint       `gorm:"index"          json:"product_id"` // 0 for general conversation
	Body       string     `gorm:"type:text;not null" json:"body"`
	ReadAt     *time.Time `json:"read_at"`
}
