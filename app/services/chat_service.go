package services

import (
	"encoding/json"
	"strings"

	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/app/repositories"
	"github.com/binodghimire/agrihaat/pkg/event"
	"github.com/binodghimire/agrihaat/pkg/logger"
	"github.com/binodghimire/agrihaat/pkg/ws"
)

// SendMessageInput is one chat message, optionally anchored to a product
// the two parties are haggling over.
type SendMessageInput struct {
	ReceiverID uint   `json:"receiver_id" validate:"required"`
	ProductID  uint   `json:"product_id"`
	Body       string `json:"body"        validate:"required,max=2000"`
}

// ChatService persists buyer-farmer messages and pushes them over any
// open websocket the receiver has.
type ChatService struct {
	messages *repositories.MessageRepository
	users    *repositories.UserRepository
	hub      *ws.Hub
}

func NewChatService(messages *repositories.MessageRepository, users *repositories.UserRepository, hub *ws.Hub) *ChatService {
	return &ChatService{messages: messages, users: users, hub: hub}
}

func (s *ChatService) Send(senderID uint, in SendMessageInput) (models.Message, error) {
	if senderID == 0 {
		return models.Message{}, ErrUnauthenticated
	}
	body := strings.TrimSpace(in.Body)
	if body == "" || in.ReceiverID == 0 {
		fields := map[string]string{}
		if body == "" {
			fields["body"] = "message body is required"
		}
		if in.ReceiverID == 0 {
			fields["receiver_id"] = "receiver is required"
		}
		return models.Message{}, ValidationError{Fields: fields}
	}
	if in.ReceiverID == senderID {
		return models.Message{}, ValidationError{Fields: map[string]string{
			"receiver_id": "cannot message yourself",
		}}
	}
	if _, err := s.users.FindByID(in.ReceiverID); err != nil {
		return models.Message{}, err
	}

	msg := models.Message{
		SenderID:   senderID,
		ReceiverID: in.ReceiverID,
		ProductID:  in.ProductID,
		Body:       body,
	}
	if err := s.messages.Create(&msg); err != nil {
		return models.Message{}, err
	}

	s.push(msg)
	event.Fire(models.NotifyMessageSent, msg)
	return msg, nil
}

// Conversation returns the recent thread between the caller and another
// user, oldest first, and marks the other side's messages as read.
func (s *ChatService) Conversation(userID, withID uint, limit int) ([]models.Message, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	msgs, err := s.messages.Conversation(userID, withID, limit)
	if err != nil {
		return nil, err
	}
	if err := s.messages.MarkRead(withID, userID); err != nil {
		logger.Warn("mark read failed", "user_id", userID, "with", withID, "error", err.Error())
	}
	return msgs, nil
}

// Partners lists the user ids the caller has an open thread with.
func (s *ChatService) Partners(userID uint) ([]uint, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	return s.messages.Partners(userID)
}

func (s *ChatService) push(msg models.Message) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"type": models.NotifyMessageSent,
		"data": msg,
	})
	if err != nil {
		return
	}
	s.hub.SendToUser(msg.ReceiverID, payload)
}
