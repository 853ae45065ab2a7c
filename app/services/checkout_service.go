package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/pkg/crypt"
	"github.com/binodghimire/agrihaat/pkg/event"
	"github.com/binodghimire/agrihaat/pkg/logger"
	"github.com/binodghimire/agrihaat/pkg/metrics"
)

// PlaceOrderInput is a checkout request. AttemptID is the client's
// idempotency key; when a retry carries the same attempt the original
// order is returned and stock is not touched again.
type PlaceOrderInput struct {
	AttemptID       string `json:"attempt_id"`
	ProductID       uint   `json:"product_id"`
	Quantity        int    `json:"quantity"`
	PaymentMethod   string `json:"payment_method"`
	DeliveryAddress string `json:"delivery_address"`
	District        string `json:"district"`
	Province        string `json:"province"`
	ContactPhone    string `json:"contact_phone"`
	Note            string `json:"note"`
}

// CheckoutService turns a cart line into a durable order. The whole
// pipeline runs in one transaction: the stock check, the order write and
// the inventory decrement commit or roll back together, so two buyers
// racing for the last units can never both win.
type CheckoutService struct {
	store Store
}

func NewCheckoutService(store Store) *CheckoutService {
	return &CheckoutService{store: store}
}

// errAttemptConflict marks an insert that lost the race against a
// concurrent request carrying the same attempt id.
var errAttemptConflict = errors.New("attempt id already taken")

// PlaceOrder validates the request, snapshots the product's price and
// name, writes the order as pending and decrements stock with a
// conditional update. The decrement matches only while enough quantity
// remains, which is what closes the read-then-write window between
// concurrent checkouts.
func (s *CheckoutService) PlaceOrder(buyerID uint, in PlaceOrderInput) (models.Order, error) {
	if buyerID == 0 {
		return models.Order{}, ErrUnauthenticated
	}
	if errs := validateOrderInput(in); len(errs) > 0 {
		metrics.OrdersRejected.WithLabelValues("validation").Inc()
		return models.Order{}, ValidationError{Fields: errs}
	}

	var (
		order  models.Order
		replay bool
	)

	err := s.store.InTransaction(func(tx Tx) error {
		// Idempotent replay: same attempt id returns the original order.
		if in.AttemptID != "" {
			existing, err := tx.OrderByAttemptID(in.AttemptID)
			if err == nil {
				order, replay = existing, true
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		product, err := tx.ProductByID(in.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				metrics.OrdersRejected.WithLabelValues("not_found").Inc()
				return ErrProductNotFound
			}
			return err
		}

		if product.FarmerID == buyerID {
			metrics.OrdersRejected.WithLabelValues("self_trade").Inc()
			return ErrSelfTrade
		}
		if product.Status != models.ProductAvailable && product.Status != models.ProductOutOfStock {
			metrics.OrdersRejected.WithLabelValues("unavailable").Inc()
			return ErrProductUnavailable
		}
		if product.PricePaisa <= 0 {
			metrics.OrdersRejected.WithLabelValues("validation").Inc()
			return ValidationError{Fields: map[string]string{"product": "listing has no valid price"}}
		}
		if in.Quantity < product.MinOrderQty {
			metrics.OrdersRejected.WithLabelValues("validation").Inc()
			return fmt.Errorf("minimum order is %d %s: %w", product.MinOrderQty, product.Unit, ErrBelowMinimum)
		}
		if in.Quantity > product.Quantity {
			metrics.OrdersRejected.WithLabelValues("insufficient_stock").Inc()
			return InsufficientStockError{Available: product.Quantity}
		}

		phone := in.ContactPhone
		if phone != "" {
			if phone, err = crypt.Encrypt(phone); err != nil {
				return fmt.Errorf("encrypt contact phone: %w", err)
			}
		}

		var attemptID *string
		if in.AttemptID != "" {
			attemptID = &in.AttemptID
		}

		order = models.Order{
			AttemptID:       attemptID,
			BuyerID:         buyerID,
			FarmerID:        product.FarmerID,
			ProductID:       product.ID,
			ProductName:     product.Name,
			Unit:            product.Unit,
			Quantity:        in.Quantity,
			UnitPricePaisa:  product.PricePaisa,
			TotalPaisa:      int64(in.Quantity) * product.PricePaisa,
			Status:          models.OrderPending,
			PaymentMethod:   in.PaymentMethod,
			DeliveryAddress: in.DeliveryAddress,
			District:        in.District,
			Province:        in.Province,
			ContactPhone:    phone,
			Note:            in.Note,
		}
		if err := tx.CreateOrder(&order); err != nil {
			// A concurrent request with the same attempt id can hit the
			// unique index between our lookup and this insert. The failed
			// insert poisons the transaction on some drivers, so the
			// winning order is fetched after the rollback, not here.
			if in.AttemptID != "" {
				return fmt.Errorf("create order: %v: %w", err, errAttemptConflict)
			}
			return fmt.Errorf("create order: %w", err)
		}

		ok, err := tx.DecrementStock(product.ID, in.Quantity)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if !ok {
			// The guard above passed on a snapshot that a concurrent
			// checkout has since consumed. Roll back the order write.
			metrics.StockConflicts.Inc()
			metrics.OrdersRejected.WithLabelValues("insufficient_stock").Inc()

			current, readErr := tx.ProductByID(product.ID)
			if readErr != nil {
				return InsufficientStockError{Available: 0}
			}
			return InsufficientStockError{Available: current.Quantity}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, errAttemptConflict) {
			if existing, lookupErr := s.store.OrderByAttemptID(in.AttemptID); lookupErr == nil {
				return existing, nil
			}
		}
		return models.Order{}, err
	}

	if !replay {
		metrics.OrdersPlaced.Inc()
		logger.Info("order placed",
			"order_id", order.ID, "buyer_id", buyerID,
			"product_id", order.ProductID, "quantity", order.Quantity,
			"total_paisa", order.TotalPaisa)
		event.Fire(models.NotifyOrderPlaced, order)
	}

	return order, nil
}

// validateOrderInput checks the request fields that need no product
// context. Product-dependent rules run inside the transaction.
func validateOrderInput(in PlaceOrderInput) map[string]string {
	errs := map[string]string{}
	if in.ProductID == 0 {
		errs["product_id"] = "The product_id field is required."
	}
	if in.Quantity <= 0 {
		errs["quantity"] = "The quantity must be greater than zero."
	}
	if in.PaymentMethod != models.PaymentCash && in.PaymentMethod != models.PaymentBank {
		errs["payment_method"] = "The selected payment_method is invalid."
	}
	if strings.TrimSpace(in.DeliveryAddress) == "" {
		errs["delivery_address"] = "The delivery_address field is required."
	}
	return errs
}
