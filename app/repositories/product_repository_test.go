package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/pkg/database"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, quantity int) models.Product {
	t.Helper()
	p := models.Product{
		FarmerID:    1,
		Name:        "Red Potatoes",
		Category:    "vegetables",
		Unit:        "kg",
		PricePaisa:  6500,
		Quantity:    quantity,
		MinOrderQty: 1,
		Status:      models.ProductAvailable,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestDecrementStockConditional(t *testing.T) {
	db := testDB(t)
	repo := NewProductRepository(db)
	p := seedProduct(t, db, 10)

	ok, err := repo.DecrementStock(p.ID, 4)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.FindByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Quantity)
	assert.Equal(t, models.ProductAvailable, got.Status)

	// More than remains: the conditional update matches no row and the
	// quantity is untouched.
	ok, err = repo.DecrementStock(p.ID, 7)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err = repo.FindByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Quantity)
}

func TestDecrementStockFlipsStatusAtZero(t *testing.T) {
	db := testDB(t)
	repo := NewProductRepository(db)
	p := seedProduct(t, db, 5)

	ok, err := repo.DecrementStock(p.ID, 5)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.FindByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)
	assert.Equal(t, models.ProductOutOfStock, got.Status)
}

func TestRestoreStockResurrectsListing(t *testing.T) {
	db := testDB(t)
	repo := NewProductRepository(db)
	p := seedProduct(t, db, 3)

	ok, err := repo.DecrementStock(p.ID, 3)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, repo.RestoreStock(p.ID, 3))

	got, err := repo.FindByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)
	assert.Equal(t, models.ProductAvailable, got.Status)
}

func TestListFilters(t *testing.T) {
	db := testDB(t)
	repo := NewProductRepository(db)

	seedProduct(t, db, 10)
	archived := models.Product{
		FarmerID: 2, Name: "Old Rice", Category: "grains",
		Unit: "kg", PricePaisa: 18500, Quantity: 0, MinOrderQty: 1,
		Status: models.ProductArchived,
	}
	require.NoError(t, db.Create(&archived).Error)

	items, pagination, err := repo.List(ProductFilter{Status: models.ProductAvailable}, 1, 20)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), pagination.Total)
	assert.Equal(t, "Red Potatoes", items[0].Name)

	items, _, err = repo.List(ProductFilter{Search: "POTATO"}, 1, 20)
	require.NoError(t, err)
	assert.Len(t, items, 1, "search is case-insensitive")

	items, _, err = repo.List(ProductFilter{Category: "grains"}, 1, 20)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Old Rice", items[0].Name)
}

func TestOrderAttemptIDUnique(t *testing.T) {
	db := testDB(t)
	repo := NewOrderRepository(db)

	attempt := "attempt-1"
	order := models.Order{
		AttemptID: &attempt, BuyerID: 42, FarmerID: 1, ProductID: 1,
		ProductName: "Red Potatoes", Unit: "kg", Quantity: 2,
		UnitPricePaisa: 6500, TotalPaisa: 13000,
		Status: models.OrderPending, PaymentMethod: models.PaymentCash,
		DeliveryAddress: "Kathmandu",
	}
	require.NoError(t, repo.Create(&order))

	dup := order
	dup.ID = 0
	assert.Error(t, repo.Create(&dup), "attempt id must be unique")

	found, err := repo.FindByAttemptID("attempt-1")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = repo.FindByAttemptID("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrdersWithoutAttemptIDDoNotCollide(t *testing.T) {
	db := testDB(t)
	repo := NewOrderRepository(db)

	// The unique index binds real keys only; NULL attempt ids may
	// repeat indefinitely.
	for i := 0; i < 3; i++ {
		order := models.Order{
			BuyerID: uint(40 + i), FarmerID: 1, ProductID: 1,
			ProductName: "Red Potatoes", Unit: "kg", Quantity: 1,
			UnitPricePaisa: 6500, TotalPaisa: 6500,
			Status: models.OrderPending, PaymentMethod: models.PaymentCash,
			DeliveryAddress: "Kathmandu",
		}
		require.NoError(t, repo.Create(&order))
		assert.Nil(t, order.AttemptID)
	}
}
