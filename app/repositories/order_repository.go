package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/pkg/database"
)

// OrderRepository handles database operations for Order.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists a new order.
func (r *OrderRepository) Create(o *models.Order) error {
	return r.db.Create(o).Error
}

// Update persists changes to an existing order.
func (r *OrderRepository) Update(o *models.Order) error {
	return r.db.Save(o).Error
}

// FindByID looks up an order by primary key.
func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	var o models.Order
	err := r.db.First(&o, id).Error
	return o, err
}

// FindByAttemptID looks up an order by its idempotency key.
func (r *OrderRepository) FindByAttemptID(attemptID string) (models.Order, error) {
	var o models.Order
	err := r.db.Where("attempt_id = ?", attemptID).First(&o).Error
	return o, err
}

// ListByBuyer returns a buyer's orders, newest first.
func (r *OrderRepository) ListByBuyer(buyerID uint, page, perPage int) ([]models.Order, database.Pagination, error) {
	var orders []models.Order
	query := r.db.Model(&models.Order{}).Where("buyer_id = ?", buyerID).Order("created_at desc")
	pagination, err := database.Paginate(query, &orders, page, perPage)
	return orders, pagination, err
}

// ListByFarmer returns the orders against a farmer's listings, newest first.
func (r *OrderRepository) ListByFarmer(farmerID uint, page, perPage int) ([]models.Order, database.Pagination, error) {
	var orders []models.Order
	query := r.db.Model(&models.Order{}).Where("farmer_id = ?", farmerID).Order("created_at desc")
	pagination, err := database.Paginate(query, &orders, page, perPage)
	return orders, pagination, err
}

// StalePending returns pending orders created before the cutoff, for the
// scheduler's expiry sweep.
func (r *OrderRepository) StalePending(cutoff time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("status = ? AND created_at < ?", models.OrderPending, cutoff).Find(&orders).Error
	return orders, err
}

// HasCompleted reports whether the buyer has a completed order for the
// product, which gates review eligibility.
func (r *OrderRepository) HasCompleted(buyerID, productID uint) (bool, error) {
	var n int64
	err := r.db.Model(&models.Order{}).
		Where("buyer_id = ? AND product_id = ? AND status = ?", buyerID, productID, models.OrderCompleted).
		Count(&n).Error
	return n > 0, err
}

// CountByStatus returns order counts grouped by status, for the admin
// dashboard.
func (r *OrderRepository) CountByStatus() (map[string]int64, error) {
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	err := r.db.Model(&models.Order{}).
		Select("status, count(*) as n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, rw := range rows {
		out[rw.Status] = rw.N
	}
	return out, nil
}
