package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binodghimire/agrihaat/app/models"
)

const (
	buyerID  = uint(42)
	farmerID = uint(7)
	adminID  = uint(1)
)

// seedOrder places one order through checkout so the store holds a
// consistent order/stock pair.
func seedOrder(t *testing.T, store *fakeStore) models.Order {
	t.Helper()
	order, err := NewCheckoutService(store).PlaceOrder(buyerID, orderInput())
	require.NoError(t, err)
	return order
}

func TestTransitionWhitelist(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{models.OrderPending, models.OrderConfirmed, true},
		{models.OrderPending, models.OrderCancelled, true},
		{models.OrderPending, models.OrderShipped, false},
		{models.OrderPending, models.OrderCompleted, false},
		{models.OrderConfirmed, models.OrderShipped, true},
		{models.OrderConfirmed, models.OrderCancelled, true},
		{models.OrderConfirmed, models.OrderCompleted, false},
		{models.OrderShipped, models.OrderCompleted, true},
		{models.OrderShipped, models.OrderCancelled, false},
		{models.OrderCompleted, models.OrderCancelled, false},
		{models.OrderCancelled, models.OrderPending, false},
		{models.OrderCancelled, models.OrderConfirmed, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.ok, models.CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestFarmerAdvancesOwnOrder(t *testing.T) {
	store := newFakeStore(testProduct())
	order := seedOrder(t, store)
	svc := NewOrderService(store, nil)

	got, err := svc.Transition(farmerID, models.RoleFarmer, order.ID, models.OrderConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, got.Status)

	got, err = svc.Transition(farmerID, models.RoleFarmer, order.ID, models.OrderShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, got.Status)

	got, err = svc.Transition(farmerID, models.RoleFarmer, order.ID, models.OrderCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, got.Status)
}

func TestIllegalTransitionRejected(t *testing.T) {
	store := newFakeStore(testProduct())
	order := seedOrder(t, store)
	svc := NewOrderService(store, nil)

	_, err := svc.Transition(farmerID, models.RoleFarmer, order.ID, models.OrderCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := store.OrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, stored.Status, "failed transition must not change the order")
}

func TestBuyerMayOnlyCancel(t *testing.T) {
	store := newFakeStore(testProduct())
	order := seedOrder(t, store)
	svc := NewOrderService(store, nil)

	_, err := svc.Transition(buyerID, models.RoleBuyer, order.ID, models.OrderConfirmed)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.Transition(buyerID, models.RoleBuyer, order.ID, models.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, got.Status)
}

func TestStrangerCannotTouchOrder(t *testing.T) {
	store := newFakeStore(testProduct())
	order := seedOrder(t, store)
	svc := NewOrderService(store, nil)

	_, err := svc.Transition(999, models.RoleBuyer, order.ID, models.OrderCancelled)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Transition(999, models.RoleFarmer, order.ID, models.OrderConfirmed)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAdminMayForceTransitions(t *testing.T) {
	store := newFakeStore(testProduct())
	order := seedOrder(t, store)
	svc := NewOrderService(store, nil)

	_, err := svc.Transition(adminID, models.RoleAdmin, order.ID, models.OrderConfirmed)
	require.NoError(t, err)
}

func TestCancelRestoresStock(t *testing.T) {
	p := testProduct()
	p.Quantity = 3
	p.MinOrderQty = 1
	store := newFakeStore(p)
	svc := NewOrderService(store, nil)

	in := orderInput()
	in.Quantity = 3 // takes the last units, product flips to out_of_stock
	order, err := NewCheckoutService(store).PlaceOrder(buyerID, in)
	require.NoError(t, err)
	require.Equal(t, models.ProductOutOfStock, store.product(1).Status)

	_, err = svc.Transition(buyerID, models.RoleBuyer, order.ID, models.OrderCancelled)
	require.NoError(t, err)

	restored := store.product(1)
	assert.Equal(t, 3, restored.Quantity)
	assert.Equal(t, models.ProductAvailable, restored.Status, "restock must relist the product")
}

func TestFindRespectsVisibility(t *testing.T) {
	store := newFakeStore(testProduct())
	order := seedOrder(t, store)
	svc := NewOrderService(store, nil)

	for _, tc := range []struct {
		actor uint
		role  string
	}{
		{buyerID, models.RoleBuyer},
		{farmerID, models.RoleFarmer},
		{adminID, models.RoleAdmin},
	} {
		got, err := svc.Find(tc.actor, tc.role, order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.ID, got.ID)
	}

	_, err := svc.Find(999, models.RoleBuyer, order.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Find(buyerID, models.RoleBuyer, 12345)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestExpireStalePending(t *testing.T) {
	store := newFakeStore(testProduct())
	svc := NewOrderService(store, nil)

	stale := seedOrder(t, store)
	fresh, err := NewCheckoutService(store).PlaceOrder(buyerID, PlaceOrderInput{
		ProductID:       1,
		Quantity:        2,
		PaymentMethod:   models.PaymentBank,
		DeliveryAddress: "Pokhara",
	})
	require.NoError(t, err)

	// Age the first order past the TTL.
	err = store.InTransaction(func(tx Tx) error {
		o, err := tx.OrderByID(stale.ID)
		if err != nil {
			return err
		}
		o.CreatedAt = time.Now().Add(-2 * time.Hour)
		return tx.SaveOrder(&o)
	})
	require.NoError(t, err)

	expired, err := svc.ExpireStalePending(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	got, err := store.OrderByID(stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, got.Status)

	got, err = store.OrderByID(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, got.Status)

	// 3 + 2 bought, 3 restored on expiry.
	assert.Equal(t, 10-2, store.product(1).Quantity)
}
