package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/pkg/database"
)

func testProduct() models.Product {
	return models.Product{
		Model:       gorm.Model{ID: 1},
		FarmerID:    7,
		Name:        "Basmati Rice",
		Unit:        "kg",
		PricePaisa:  18500,
		Quantity:    10,
		MinOrderQty: 2,
		Status:      models.ProductAvailable,
	}
}

func orderInput() PlaceOrderInput {
	return PlaceOrderInput{
		ProductID:       1,
		Quantity:        3,
		PaymentMethod:   models.PaymentCash,
		DeliveryAddress: "Ward 4, Lalitpur",
		District:        "Lalitpur",
		Province:        "Bagmati",
	}
}

func TestPlaceOrderSnapshotsAndTotals(t *testing.T) {
	store := newFakeStore(testProduct())
	svc := NewCheckoutService(store)

	order, err := svc.PlaceOrder(42, orderInput())
	require.NoError(t, err)

	assert.Equal(t, uint(42), order.BuyerID)
	assert.Equal(t, uint(7), order.FarmerID)
	assert.Equal(t, "Basmati Rice", order.ProductName)
	assert.Equal(t, int64(18500), order.UnitPricePaisa)
	assert.Equal(t, int64(3*18500), order.TotalPaisa)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, 7, store.product(1).Quantity)
}

func TestPlaceOrderRequiresAuthentication(t *testing.T) {
	svc := NewCheckoutService(newFakeStore(testProduct()))

	_, err := svc.PlaceOrder(0, orderInput())
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestPlaceOrderValidatesInput(t *testing.T) {
	svc := NewCheckoutService(newFakeStore(testProduct()))

	_, err := svc.PlaceOrder(42, PlaceOrderInput{PaymentMethod: "credit_card", Quantity: -1})

	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "product_id")
	assert.Contains(t, ve.Fields, "quantity")
	assert.Contains(t, ve.Fields, "payment_method")
	assert.Contains(t, ve.Fields, "delivery_address")
}

func TestPlaceOrderRejectsSelfTrade(t *testing.T) {
	store := newFakeStore(testProduct())
	svc := NewCheckoutService(store)

	_, err := svc.PlaceOrder(7, orderInput()) // farmer buying own listing
	assert.ErrorIs(t, err, ErrSelfTrade)
	assert.Equal(t, 10, store.product(1).Quantity)
}

func TestPlaceOrderRejectsDraftAndArchived(t *testing.T) {
	for _, status := range []string{models.ProductDraft, models.ProductArchived} {
		p := testProduct()
		p.Status = status
		svc := NewCheckoutService(newFakeStore(p))

		_, err := svc.PlaceOrder(42, orderInput())
		assert.ErrorIs(t, err, ErrProductUnavailable, "status %s", status)
	}
}

func TestPlaceOrderEnforcesMinimum(t *testing.T) {
	svc := NewCheckoutService(newFakeStore(testProduct()))

	in := orderInput()
	in.Quantity = 1 // below MinOrderQty of 2
	_, err := svc.PlaceOrder(42, in)
	assert.ErrorIs(t, err, ErrBelowMinimum)
}

func TestPlaceOrderReportsRemainingStock(t *testing.T) {
	store := newFakeStore(testProduct())
	svc := NewCheckoutService(store)

	in := orderInput()
	in.Quantity = 11
	_, err := svc.PlaceOrder(42, in)

	var stockErr InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 10, stockErr.Available)
	assert.Equal(t, 0, store.orderCount(), "rejected checkout must not leave an order behind")
}

func TestPlaceOrderMarksProductOutOfStock(t *testing.T) {
	store := newFakeStore(testProduct())
	svc := NewCheckoutService(store)

	in := orderInput()
	in.Quantity = 10
	_, err := svc.PlaceOrder(42, in)
	require.NoError(t, err)

	p := store.product(1)
	assert.Equal(t, 0, p.Quantity)
	assert.Equal(t, models.ProductOutOfStock, p.Status)
}

func TestPlaceOrderIdempotentReplay(t *testing.T) {
	store := newFakeStore(testProduct())
	svc := NewCheckoutService(store)

	in := orderInput()
	in.AttemptID = "attempt-abc"

	first, err := svc.PlaceOrder(42, in)
	require.NoError(t, err)

	second, err := svc.PlaceOrder(42, in)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.orderCount())
	assert.Equal(t, 7, store.product(1).Quantity, "stock must be decremented exactly once")
}

func TestPlaceOrderConcurrentBuyersNeverOversell(t *testing.T) {
	p := testProduct()
	p.Quantity = 5
	p.MinOrderQty = 1
	store := newFakeStore(p)
	svc := NewCheckoutService(store)

	const buyers = 20
	var wg sync.WaitGroup
	results := make(chan error, buyers)

	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			in := orderInput()
			in.Quantity = 1
			_, err := svc.PlaceOrder(uint(100+n), in)
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	placed, rejected := 0, 0
	for err := range results {
		switch {
		case err == nil:
			placed++
		default:
			var stockErr InsufficientStockError
			require.ErrorAs(t, err, &stockErr)
			rejected++
		}
	}

	assert.Equal(t, 5, placed)
	assert.Equal(t, 15, rejected)
	assert.Equal(t, 0, store.product(1).Quantity)
	assert.Equal(t, models.ProductOutOfStock, store.product(1).Status)
	assert.Equal(t, 5, store.orderCount())
}

func TestPlaceOrderWithoutAttemptID(t *testing.T) {
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.Order{}))

	p := testProduct()
	require.NoError(t, db.Create(&p).Error)

	svc := NewCheckoutService(NewGormStore(db))

	// Buyers that send no attempt id must never trip over each other
	// on the idempotency index.
	first, err := svc.PlaceOrder(42, orderInput())
	require.NoError(t, err)
	assert.Nil(t, first.AttemptID)

	second, err := svc.PlaceOrder(43, orderInput())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	var remaining models.Product
	require.NoError(t, db.First(&remaining, p.ID).Error)
	assert.Equal(t, 4, remaining.Quantity)
}

// blindStore hides committed attempts from the in-transaction lookup, so
// the insert itself runs into the unique index the way two requests
// racing on one attempt id do against a real database.
type blindStore struct {
	*fakeStore
}

func (s *blindStore) InTransaction(fn func(tx Tx) error) error {
	return s.fakeStore.InTransaction(func(tx Tx) error {
		return fn(blindTx{tx})
	})
}

type blindTx struct{ Tx }

func (t blindTx) OrderByAttemptID(string) (models.Order, error) {
	return models.Order{}, gorm.ErrRecordNotFound
}

func TestPlaceOrderRecoversLostAttemptRace(t *testing.T) {
	store := newFakeStore(testProduct())

	in := orderInput()
	in.AttemptID = "attempt-race"

	winner, err := NewCheckoutService(store).PlaceOrder(42, in)
	require.NoError(t, err)

	// The loser only discovers the winner when its own insert fails,
	// after which the original order comes back from a fresh lookup.
	loser, err := NewCheckoutService(&blindStore{store}).PlaceOrder(42, in)
	require.NoError(t, err)

	assert.Equal(t, winner.ID, loser.ID)
	assert.Equal(t, 1, store.orderCount())
	assert.Equal(t, 7, store.product(1).Quantity, "stock must be decremented exactly once")
}
