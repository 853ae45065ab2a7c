package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/app/repositories"
)

// Tx is the set of order and inventory operations the checkout and order
// services need inside one transaction. The production implementation is
// GORM-backed; tests substitute an in-memory fake to drive the
// concurrency properties without a database.
type Tx interface {
	ProductByID(id uint) (models.Product, error)
	DecrementStock(productID uint, qty int) (bool, error)
	RestoreStock(productID uint, qty int) error
	CreateOrder(o *models.Order) error
	SaveOrder(o *models.Order) error
	OrderByID(id uint) (models.Order, error)
	OrderByAttemptID(attemptID string) (models.Order, error)
}

// Store opens transactions over the order/inventory aggregate and serves
// the read paths that need no transaction.
type Store interface {
	InTransaction(fn func(tx Tx) error) error
	OrderByID(id uint) (models.Order, error)
	OrderByAttemptID(attemptID string) (models.Order, error)
	StalePendingOrders(cutoff time.Time) ([]models.Order, error)
}

// ─── GORM implementation ──────────────────────────────────────────────────────

type gormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a database handle as a Store. Every InTransaction
// call maps onto one database transaction, so the stock decrement and
// the order write commit or roll back together.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) InTransaction(fn func(tx Tx) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{
			products: repositories.NewProductRepository(tx),
			orders:   repositories.NewOrderRepository(tx),
		})
	})
}

func (s *gormStore) OrderByID(id uint) (models.Order, error) {
	return repositories.NewOrderRepository(s.db).FindByID(id)
}

func (s *gormStore) OrderByAttemptID(attemptID string) (models.Order, error) {
	return repositories.NewOrderRepository(s.db).FindByAttemptID(attemptID)
}

func (s *gormStore) StalePendingOrders(cutoff time.Time) ([]models.Order, error) {
	return repositories.NewOrderRepository(s.db).StalePending(cutoff)
}

type gormTx struct {
	products *repositories.ProductRepository
	orders   *repositories.OrderRepository
}

func (t *gormTx) ProductByID(id uint) (models.Product, error) {
	return t.products.FindByID(id)
}

func (t *gormTx) DecrementStock(productID uint, qty int) (bool, error) {
	return t.products.DecrementStock(productID, qty)
}

func (t *gormTx) RestoreStock(productID uint, qty int) error {
	return t.products.RestoreStock(productID, qty)
}

func (t *gormTx) CreateOrder(o *models.Order) error {
	return t.orders.Create(o)
}

func (t *gormTx) SaveOrder(o *models.Order) error {
	return t.orders.Update(o)
}

func (t *gormTx) OrderByID(id uint) (models.Order, error) {
	return t.orders.FindByID(id)
}

func (t *gormTx) OrderByAttemptID(attemptID string) (models.Order, error) {
	return t.orders.FindByAttemptID(attemptID)
}
