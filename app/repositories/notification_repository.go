package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/pkg/database"
)

// NotificationRepository handles database operations for Notification.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create persists a new notification.
func (r *NotificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

// List returns the user's notifications, newest first.
func (r *NotificationRepository) List(userID uint, page, perPage int) ([]models.Notification, database.Pagination, error) {
	var items []models.Notification
	query := r.db.Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Order("created_at desc")
	pagination, err := database.Paginate(query, &items, page, perPage)
	return items, pagination, err
}

// UnreadCount returns the number of unread notifications for a user.
func (r *NotificationRepository) UnreadCount(userID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&n).Error
	return n, err
}

// MarkRead stamps one notification; the user scope prevents cross-user
// marking.
func (r *NotificationRepository) MarkRead(userID, id uint) error {
	now := time.Now()
	return r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read_at", &now).Error
}

// MarkAllRead stamps every unread notification for the user.
func (r *NotificationRepository) MarkAllRead(userID uint) error {
	now := time.Now()
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", &now).Error
}
