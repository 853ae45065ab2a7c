package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification types fired by the domain event listeners.
const (
	NotifyOrderPlaced   = "order.placed"
	NotifyOrderStatus   = "order.status_changed"
	NotifyMessageSent   = "message.sent"
	NotifyReviewCreated = "review.created"
)

// Notification is a persisted in-app notification. Data holds an
// optional JSON payload (order id, product id and the like) for the
// client to deep-link from.
type Notification struct {
	gorm.Model
	UserID  uint       `gorm:"not null;index"     json:"user_id"`
	Type    string     `gorm:"size:100;not null"  json:"type"`
	Message string     `gorm:"size:512;not null"  json:"message"`
	Data    string     `gorm:"type:text"          json:"data"`
	ReadAt  *time.Time `json:"read_at"`
}
