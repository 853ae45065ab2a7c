package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/app/repositories"
	"github.com/binodghimire/agrihaat/pkg/database"
	"github.com/binodghimire/agrihaat/pkg/event"
	"github.com/binodghimire/agrihaat/pkg/logger"
)

// OrderService drives the order status workflow. Orders move forward
// only; cancellation of an order that still holds stock restores the
// product quantity in the same transaction.
type OrderService struct {
	store  Store
	orders *repositories.OrderRepository
}

func NewOrderService(store Store, orders *repositories.OrderRepository) *OrderService {
	return &OrderService{store: store, orders: orders}
}

// Find returns an order visible to the actor: the buyer, the farmer or
// an admin.
func (s *OrderService) Find(actorID uint, role string, orderID uint) (models.Order, error) {
	order, err := s.store.OrderByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, err
	}
	if order.BuyerID != actorID && order.FarmerID != actorID && role != models.RoleAdmin {
		return models.Order{}, ErrForbidden
	}
	return order, nil
}

// ListForBuyer returns the actor's purchases, newest first.
func (s *OrderService) ListForBuyer(buyerID uint, page, perPage int) ([]models.Order, database.Pagination, error) {
	return s.orders.ListByBuyer(buyerID, page, perPage)
}

// ListForFarmer returns the orders placed against the actor's listings.
func (s *OrderService) ListForFarmer(farmerID uint, page, perPage int) ([]models.Order, database.Pagination, error) {
	return s.orders.ListByFarmer(farmerID, page, perPage)
}

// Transition moves an order to next. The farmer owning the order may
// advance it; the buyer may only cancel; admins may do either. The
// whitelist in models decides which moves are legal, and a cancellation
// that still holds stock restores the product quantity atomically.
func (s *OrderService) Transition(actorID uint, role string, orderID uint, next string) (models.Order, error) {
	if actorID == 0 {
		return models.Order{}, ErrUnauthenticated
	}

	var order models.Order
	err := s.store.InTransaction(func(tx Tx) error {
		var err error
		order, err = tx.OrderByID(orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		switch {
		case role == models.RoleAdmin:
			// Admins may force any whitelisted transition.
		case order.FarmerID == actorID:
			// Farmers run the fulfilment side.
		case order.BuyerID == actorID && next == models.OrderCancelled:
			// Buyers may only back out.
		default:
			return ErrForbidden
		}

		if !models.CanTransition(order.Status, next) {
			return fmt.Errorf("%s to %s: %w", order.Status, next, ErrInvalidTransition)
		}

		if next == models.OrderCancelled {
			if err := tx.RestoreStock(order.ProductID, order.Quantity); err != nil {
				return fmt.Errorf("restore stock: %w", err)
			}
		}

		order.Status = next
		return tx.SaveOrder(&order)
	})
	if err != nil {
		return models.Order{}, err
	}

	logger.Info("order status changed", "order_id", order.ID, "status", next, "actor_id", actorID)
	event.Fire(models.NotifyOrderStatus, order)
	return order, nil
}

// ExpireStalePending cancels pending orders older than ttl and restores
// their stock. The scheduler runs this periodically so abandoned
// checkouts do not hold inventory forever.
func (s *OrderService) ExpireStalePending(ttl time.Duration) (int, error) {
	stale, err := s.store.StalePendingOrders(time.Now().Add(-ttl))
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, o := range stale {
		var cancelled *models.Order
		err := s.store.InTransaction(func(tx Tx) error {
			current, err := tx.OrderByID(o.ID)
			if err != nil {
				return err
			}
			// Re-check under the transaction: the farmer may have
			// confirmed it since the sweep query ran.
			if current.Status != models.OrderPending {
				return nil
			}
			if err := tx.RestoreStock(current.ProductID, current.Quantity); err != nil {
				return err
			}
			current.Status = models.OrderCancelled
			if err := tx.SaveOrder(&current); err != nil {
				return err
			}
			cancelled = &current
			return nil
		})
		if err != nil {
			logger.Error("order expiry failed", "order_id", o.ID, "error", err)
			continue
		}
		if cancelled != nil {
			expired++
			event.Fire(models.NotifyOrderStatus, *cancelled)
		}
	}

	if expired > 0 {
		logger.Info("expired stale pending orders", "count", expired)
	}
	return expired, nil
}
