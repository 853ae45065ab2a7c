package services

import (
	"encoding/json"
	"fmt"

	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/pkg/collection"
)

// CartItem is one advisory cart line. Price, unit, name, available
// quantity and minimum order quantity are snapshots taken when the item
// was added; they are UX hints, not authority. Checkout re-validates
// everything against live stock.
type CartItem struct {
	ProductID      uint   `json:"product_id"`
	Name           string `json:"name"`
	Unit           string `json:"unit"`
	UnitPricePaisa int64  `json:"unit_price_paisa"`
	Quantity       int    `json:"quantity"`
	Available      int    `json:"available"`     // snapshot of product quantity
	MinOrderQty    int    `json:"min_order_qty"` // snapshot of minimum order
}

// Cart is the full cart for one owner.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Total sums price × quantity across lines. Pure: the same cart state
// always yields the same total.
func (c Cart) Total() int64 {
	return collection.SumInt(c.Items, func(it CartItem) int64 {
		return it.UnitPricePaisa * int64(it.Quantity)
	})
}

// ItemCount sums quantities across lines, which is distinct from the
// number of lines.
func (c Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// CartService maintains per-owner advisory carts. Owners are opaque
// strings: "user:<id>" for signed-in buyers, "guest:<session-id>" before
// that. A corrupt stored blob is silently replaced with an empty cart;
// it is never an error the caller sees.
type CartService struct {
	store CartStore
}

func NewCartService(store CartStore) *CartService {
	return &CartService{store: store}
}

// Get loads the owner's cart. Absent or unparseable state yields an
// empty cart.
func (s *CartService) Get(owner string) Cart {
	raw, ok := s.store.LoadBlob(owner)
	if !ok {
		return Cart{}
	}
	var cart Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return Cart{}
	}
	return cart
}

// AddItem puts qty units of product in the cart, merging with an
// existing line for the same product. The merged quantity must stay
// within the line's snapshot bounds or the cart is left unchanged.
func (s *CartService) AddItem(owner string, product models.Product, qty int) (Cart, error) {
	if qty <= 0 {
		return s.Get(owner), fmt.Errorf("quantity must be positive: %w", ErrBelowMinimum)
	}
	// The cart is advisory, but a draft or archived listing can only
	// fail at checkout, so turn it away here.
	if !product.Purchasable() {
		return s.Get(owner), ErrProductUnavailable
	}

	cart := s.Get(owner)

	for i, it := range cart.Items {
		if it.ProductID != product.ID {
			continue
		}
		merged := it.Quantity + qty
		if merged > it.Available {
			return cart, InsufficientStockError{Available: it.Available}
		}
		cart.Items[i].Quantity = merged
		return cart, s.save(owner, cart)
	}

	if qty < product.MinOrderQty {
		return cart, fmt.Errorf("minimum order is %d %s: %w", product.MinOrderQty, product.Unit, ErrBelowMinimum)
	}
	if qty > product.Quantity {
		return cart, InsufficientStockError{Available: product.Quantity}
	}

	cart.Items = append(cart.Items, CartItem{
		ProductID:      product.ID,
		Name:           product.Name,
		Unit:           product.Unit,
		UnitPricePaisa: product.PricePaisa,
		Quantity:       qty,
		Available:      product.Quantity,
		MinOrderQty:    product.MinOrderQty,
	})
	return cart, s.save(owner, cart)
}

// UpdateQuantity sets a line's quantity in place. Values outside
// [minimum order, snapshot available] are rejected and the line is left
// as it was.
func (s *CartService) UpdateQuantity(owner string, productID uint, qty int) (Cart, error) {
	cart := s.Get(owner)

	for i, it := range cart.Items {
		if it.ProductID != productID {
			continue
		}
		if qty < it.MinOrderQty {
			return cart, fmt.Errorf("minimum order is %d: %w", it.MinOrderQty, ErrBelowMinimum)
		}
		if qty > it.Available {
			return cart, InsufficientStockError{Available: it.Available}
		}
		cart.Items[i].Quantity = qty
		return cart, s.save(owner, cart)
	}

	return cart, ErrCartItemNotFound
}

// RemoveItem deletes a line. Removing an absent line is a no-op.
func (s *CartService) RemoveItem(owner string, productID uint) (Cart, error) {
	cart := s.Get(owner)

	kept := cart.Items[:0]
	for _, it := range cart.Items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	cart.Items = kept
	return cart, s.save(owner, cart)
}

// Clear empties the cart, typically after a successful checkout.
func (s *CartService) Clear(owner string) error {
	return s.store.DeleteBlob(owner)
}

func (s *CartService) save(owner string, cart Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("serialize cart: %w", err)
	}
	return s.store.SaveBlob(owner, raw)
}
