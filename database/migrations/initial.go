package migrations

import (
	"gorm.io/gorm"

	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/pkg/migration"
	"github.com/binodghimire/agrihaat/pkg/queue"
)

func init() {
	migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260101000001_create_products_table", &CreateProductsTable{})
	migration.Register("20260101000002_create_orders_table", &CreateOrdersTable{})
	migration.Register("20260101000003_create_reviews_table", &CreateReviewsTable{})
	migration.Register("20260101000004_create_wishlist_items_table", &CreateWishlistItemsTable{})
	migration.Register("20260101000005_create_messages_table", &CreateMessagesTable{})
	migration.Register("20260101000006_create_notifications_table", &CreateNotificationsTable{})
	migration.Register("20260101000007_create_failed_jobs_table", &CreateFailedJobsTable{})
}

// -------- 0000: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0001: products --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

// -------- 0002: orders --------

type CreateOrdersTable struct{}

func (m *CreateOrdersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{})
}

func (m *CreateOrdersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("orders")
}

// -------- 0003: reviews --------

type CreateReviewsTable struct{}

func (m *CreateReviewsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Review{})
}

func (m *CreateReviewsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("reviews")
}

// -------- 0004: wishlist --------

type CreateWishlistItemsTable struct{}

func (m *CreateWishlistItemsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.WishlistItem{})
}

func (m *CreateWishlistItemsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("wishlist_items")
}

// -------- 0005: messages --------

type CreateMessagesTable struct{}

func (m *CreateMessagesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Message{})
}

func (m *CreateMessagesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("messages")
}

// -------- 0006: notifications --------

type CreateNotificationsTable struct{}

func (m *CreateNotificationsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Notification{})
}

func (m *CreateNotificationsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("notifications")
}

// -------- 0007: failed queue jobs --------

type CreateFailedJobsTable struct{}

func (m *CreateFailedJobsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&queue.FailedJobRecord{})
}

func (m *CreateFailedJobsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("failed_jobs")
}
