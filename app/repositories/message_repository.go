package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/binodghimire/agrihaat/app/models"
)

// MessageRepository handles database operations for Message.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create persists a new chat message.
func (r *MessageRepository) Create(m *models.Message) error {
	return r.db.Create(m).Error
}

// Conversation returns the messages between two users in creation order.
func (r *MessageRepository) Conversation(a, b uint, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	var msgs []models.Message
	err := r.db.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at asc").
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

// Partners returns the distinct user ids this user has exchanged
// messages with, for the conversation list.
func (r *MessageRepository) Partners(userID uint) ([]uint, error) {
	var sent, received []uint
	if err := r.db.Model(&models.Message{}).
		Where("sender_id = ?", userID).
		Distinct().
		Pluck("receiver_id", &sent).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Message{}).
		Where("receiver_id = ?", userID).
		Distinct().
		Pluck("sender_id", &received).Error; err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{}, len(sent)+len(received))
	var out []uint
	for _, id := range append(sent, received...) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out, nil
}

// MarkRead stamps every unread message from sender to receiver.
func (r *MessageRepository) MarkRead(receiverID, senderID uint) error {
	now := time.Now()
	return r.db.Model(&models.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND read_at IS NULL", receiverID, senderID).
		Update("read_at", &now).Error
}
