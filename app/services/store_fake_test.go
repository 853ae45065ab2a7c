package services

import (
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/binodghimire/agrihaat/app/models"
)

// fakeStore is an in-memory Store. Transactions run serialized under one
// mutex and roll back by snapshot, which is close enough to a real
// database to drive the concurrency and rollback behavior of checkout.
type fakeStore struct {
	mu        sync.Mutex
	products  map[uint]models.Product
	orders    map[uint]models.Order
	byAttempt map[string]uint
	nextID    uint
}

func newFakeStore(products ...models.Product) *fakeStore {
	s := &fakeStore{
		products:  map[uint]models.Product{},
		orders:    map[uint]models.Order{},
		byAttempt: map[string]uint{},
		nextID:    1,
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeStore) InTransaction(fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapProducts := make(map[uint]models.Product, len(s.products))
	for k, v := range s.products {
		snapProducts[k] = v
	}
	snapOrders := make(map[uint]models.Order, len(s.orders))
	for k, v := range s.orders {
		snapOrders[k] = v
	}
	snapAttempts := make(map[string]uint, len(s.byAttempt))
	for k, v := range s.byAttempt {
		snapAttempts[k] = v
	}
	snapNext := s.nextID

	if err := fn(&fakeTx{s: s}); err != nil {
		s.products = snapProducts
		s.orders = snapOrders
		s.byAttempt = snapAttempts
		s.nextID = snapNext
		return err
	}
	return nil
}

func (s *fakeStore) OrderByID(id uint) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return models.Order{}, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (s *fakeStore) OrderByAttemptID(attemptID string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byAttempt[attemptID]
	if !ok {
		return models.Order{}, gorm.ErrRecordNotFound
	}
	return s.orders[id], nil
}

func (s *fakeStore) StalePendingOrders(cutoff time.Time) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.Status == models.OrderPending && o.CreatedAt.Before(cutoff) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeStore) product(id uint) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id]
}

func (s *fakeStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// fakeTx operates on the store directly; InTransaction already holds the
// lock and handles rollback.
type fakeTx struct {
	s *fakeStore
}

func (t *fakeTx) ProductByID(id uint) (models.Product, error) {
	p, ok := t.s.products[id]
	if !ok {
		return models.Product{}, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (t *fakeTx) DecrementStock(productID uint, qty int) (bool, error) {
	p, ok := t.s.products[productID]
	if !ok || p.Quantity < qty {
		return false, nil
	}
	p.Quantity -= qty
	if p.Quantity <= 0 {
		p.Status = models.ProductOutOfStock
	}
	t.s.products[productID] = p
	return true, nil
}

func (t *fakeTx) RestoreStock(productID uint, qty int) error {
	p, ok := t.s.products[productID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Quantity += qty
	if p.Status == models.ProductOutOfStock {
		p.Status = models.ProductAvailable
	}
	t.s.products[productID] = p
	return nil
}

func (t *fakeTx) CreateOrder(o *models.Order) error {
	// NULL attempt ids stay outside the unique index, matching the
	// schema: only real keys may collide.
	if o.AttemptID != nil {
		if _, taken := t.s.byAttempt[*o.AttemptID]; taken {
			return errors.New("UNIQUE constraint failed: orders.attempt_id")
		}
	}
	o.ID = t.s.nextID
	t.s.nextID++
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	t.s.orders[o.ID] = *o
	if o.AttemptID != nil {
		t.s.byAttempt[*o.AttemptID] = o.ID
	}
	return nil
}

func (t *fakeTx) SaveOrder(o *models.Order) error {
	if _, ok := t.s.orders[o.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	t.s.orders[o.ID] = *o
	return nil
}

func (t *fakeTx) OrderByID(id uint) (models.Order, error) {
	o, ok := t.s.orders[id]
	if !ok {
		return models.Order{}, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (t *fakeTx) OrderByAttemptID(attemptID string) (models.Order, error) {
	id, ok := t.s.byAttempt[attemptID]
	if !ok {
		return models.Order{}, gorm.ErrRecordNotFound
	}
	return t.s.orders[id], nil
}
