package services

import (
	"encoding/json"
	"fmt"

	"github.com/binodghimire/agrihaat/app/jobs"
	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/app/repositories"
	"github.com/binodghimire/agrihaat/config"
	"github.com/binodghimire/agrihaat/pkg/database"
	"github.com/binodghimire/agrihaat/pkg/event"
	"github.com/binodghimire/agrihaat/pkg/logger"
	"github.com/binodghimire/agrihaat/pkg/notification"
	"github.com/binodghimire/agrihaat/pkg/queue"
	"github.com/binodghimire/agrihaat/pkg/ws"
)

// NotificationService turns domain events into persisted notifications,
// websocket pushes and queued mail.
type NotificationService struct {
	notifications *repositories.NotificationRepository
	users         *repositories.UserRepository
	products      *repositories.ProductRepository
	hub           *ws.Hub
}

func NewNotificationService(
	notifications *repositories.NotificationRepository,
	users *repositories.UserRepository,
	products *repositories.ProductRepository,
	hub *ws.Hub,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		products:      products,
		hub:           hub,
	}
}

// Bootstrap subscribes to domain events and installs the database
// channel hook. Call once at boot, after the hub is running.
func (s *NotificationService) Bootstrap() {
	event.Listen(models.NotifyOrderPlaced, s.onOrderPlaced)
	event.Listen(models.NotifyOrderStatus, s.onOrderStatus)
	event.Listen(models.NotifyMessageSent, s.onMessageSent)
	event.Listen(models.NotifyReviewCreated, s.onReviewCreated)

	notification.SetDatabaseHook(func(d notification.DatabaseData) error {
		return s.persist(d.UserID, d.Type, d.Message, d.Data)
	})
}

func (s *NotificationService) List(userID uint, page, perPage int) ([]models.Notification, database.Pagination, error) {
	if userID == 0 {
		return nil, database.Pagination{}, ErrUnauthenticated
	}
	return s.notifications.List(userID, page, perPage)
}

func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	if userID == 0 {
		return 0, ErrUnauthenticated
	}
	return s.notifications.UnreadCount(userID)
}

func (s *NotificationService) MarkRead(userID, id uint) error {
	if userID == 0 {
		return ErrUnauthenticated
	}
	return s.notifications.MarkRead(userID, id)
}

func (s *NotificationService) MarkAllRead(userID uint) error {
	if userID == 0 {
		return ErrUnauthenticated
	}
	return s.notifications.MarkAllRead(userID)
}

// ───────────────────────────────────────────────
// Event handlers
// ───────────────────────────────────────────────

func (s *NotificationService) onOrderPlaced(payload interface{}) {
	order, ok := payload.(models.Order)
	if !ok {
		return
	}

	msg := fmt.Sprintf("New order #%d: %d %s of %s", order.ID, order.Quantity, order.Unit, order.ProductName)
	s.notify(order.FarmerID, models.NotifyOrderPlaced, msg, order)

	buyer, err := s.users.FindByID(order.BuyerID)
	if err != nil {
		logger.Warn("order mail skipped, buyer lookup failed", "order_id", order.ID, "error", err.Error())
		return
	}
	job := &jobs.OrderPlacedMail{
		OrderID:    order.ID,
		Email:      buyer.Email,
		BuyerName:  buyer.Name,
		Product:    order.ProductName,
		Quantity:   order.Quantity,
		Unit:       order.Unit,
		TotalPaisa: order.TotalPaisa,
	}
	if err := queue.Dispatch(job); err != nil {
		logger.Error("order mail dispatch failed", "order_id", order.ID, "error", err.Error())
	}

	if config.SlackWebhook() != "" {
		notification.SendAsync("", &orderAlert{Order: order, Buyer: buyer.Name})
	}
}

// orderAlert goes to the admin ops Slack channel on every placed order.
type orderAlert struct {
	Order models.Order
	Buyer string
}

func (a *orderAlert) Via() []string { return []string{"slack"} }

func (a *orderAlert) ToSlack() notification.SlackData {
	o := a.Order
	return notification.SlackData{
		Text: fmt.Sprintf("Order #%d placed", o.ID),
		Attachments: []notification.SlackAttachment{{
			Color: "good",
			Title: fmt.Sprintf("%d %s of %s", o.Quantity, o.Unit, o.ProductName),
			Text: fmt.Sprintf("Buyer: %s | Total: Rs. %d.%02d | Deliver to: %s, %s",
				a.Buyer, o.TotalPaisa/100, o.TotalPaisa%100, o.District, o.DeliveryAddress),
			Footer: "agrihaat",
		}},
	}
}

func (s *NotificationService) onOrderStatus(payload interface{}) {
	order, ok := payload.(models.Order)
	if !ok {
		return
	}

	msg := fmt.Sprintf("Order #%d is now %s", order.ID, order.Status)
	s.notify(order.BuyerID, models.NotifyOrderStatus, msg, order)
	if order.Status == models.OrderCancelled {
		s.notify(order.FarmerID, models.NotifyOrderStatus, msg, order)
	}

	buyer, err := s.users.FindByID(order.BuyerID)
	if err != nil {
		return
	}
	job := &jobs.OrderStatusMail{
		OrderID:   order.ID,
		Email:     buyer.Email,
		BuyerName: buyer.Name,
		Product:   order.ProductName,
		Status:    order.Status,
	}
	if err := queue.Dispatch(job); err != nil {
		logger.Error("status mail dispatch failed", "order_id", order.ID, "error", err.Error())
	}
}

func (s *NotificationService) onMessageSent(payload interface{}) {
	msg, ok := payload.(models.Message)
	if !ok {
		return
	}
	// The websocket push happens in ChatService; here we only persist so
	// offline users find the message waiting.
	if err := s.persist(msg.ReceiverID, models.NotifyMessageSent, "New message received", msg); err != nil {
		logger.Warn("message notification not persisted", "message_id", msg.ID, "error", err.Error())
	}
}

func (s *NotificationService) onReviewCreated(payload interface{}) {
	review, ok := payload.(models.Review)
	if !ok {
		return
	}
	product, err := s.products.FindByID(review.ProductID)
	if err != nil {
		return
	}
	msg := fmt.Sprintf("%s received a %d-star review", product.Name, review.Rating)
	s.notify(product.FarmerID, models.NotifyReviewCreated, msg, review)
}

// notify persists a notification and pushes it to any open websocket.
func (s *NotificationService) notify(userID uint, typ, message string, data interface{}) {
	if err := s.persist(userID, typ, message, data); err != nil {
		logger.Warn("notification not persisted", "user_id", userID, "type", typ, "error", err.Error())
	}
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"type":    typ,
		"message": message,
		"data":    data,
	})
	if err != nil {
		return
	}
	s.hub.SendToUser(userID, payload)
}

func (s *NotificationService) persist(userID uint, typ, message string, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		raw = []byte("{}")
	}
	return s.notifications.Create(&models.Notification{
		UserID:  userID,
		Type:    typ,
		Message: message,
		Data:    string(raw),
	})
}
