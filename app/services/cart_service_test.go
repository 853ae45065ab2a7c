package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/binodghimire/agrihaat/app/models"
)

func cartProduct(id uint, pricePaisa int64, quantity, minOrder int) models.Product {
	return models.Product{
		Model:       gorm.Model{ID: id},
		Name:        "Oranges",
		Unit:        "kg",
		PricePaisa:  pricePaisa,
		Quantity:    quantity,
		MinOrderQty: minOrder,
		Status:      models.ProductAvailable,
	}
}

func TestCartAddAndMerge(t *testing.T) {
	svc := NewCartService(NewMemoryCartStore())
	p := cartProduct(1, 12000, 50, 2)

	cart, err := svc.AddItem("user:42", p, 3)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	// Same product merges into the line instead of appending.
	cart, err = svc.AddItem("user:42", p, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 5, cart.ItemCount())
}

func TestCartBounds(t *testing.T) {
	svc := NewCartService(NewMemoryCartStore())
	p := cartProduct(1, 12000, 10, 2)

	_, err := svc.AddItem("user:42", p, 1)
	assert.ErrorIs(t, err, ErrBelowMinimum)

	_, err = svc.AddItem("user:42", p, 11)
	var stockErr InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 10, stockErr.Available)

	// Merging past the snapshot availability is rejected and the line
	// keeps its previous quantity.
	_, err = svc.AddItem("user:42", p, 8)
	require.NoError(t, err)
	_, err = svc.AddItem("user:42", p, 3)
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 8, svc.Get("user:42").Items[0].Quantity)
}

func TestCartUpdateQuantity(t *testing.T) {
	svc := NewCartService(NewMemoryCartStore())
	p := cartProduct(1, 12000, 10, 2)

	_, err := svc.AddItem("user:42", p, 4)
	require.NoError(t, err)

	cart, err := svc.UpdateQuantity("user:42", 1, 9)
	require.NoError(t, err)
	assert.Equal(t, 9, cart.Items[0].Quantity)

	_, err = svc.UpdateQuantity("user:42", 1, 1)
	assert.ErrorIs(t, err, ErrBelowMinimum)
	_, err = svc.UpdateQuantity("user:42", 1, 11)
	var stockErr InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 9, svc.Get("user:42").Items[0].Quantity, "rejected update leaves the line unchanged")

	_, err = svc.UpdateQuantity("user:42", 999, 3)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartRemoveAndClear(t *testing.T) {
	svc := NewCartService(NewMemoryCartStore())
	_, err := svc.AddItem("user:42", cartProduct(1, 12000, 10, 1), 2)
	require.NoError(t, err)
	_, err = svc.AddItem("user:42", cartProduct(2, 6500, 30, 1), 5)
	require.NoError(t, err)

	cart, err := svc.RemoveItem("user:42", 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, uint(2), cart.Items[0].ProductID)

	// Removing an absent line is a no-op.
	cart, err = svc.RemoveItem("user:42", 999)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)

	require.NoError(t, svc.Clear("user:42"))
	assert.Empty(t, svc.Get("user:42").Items)
}

func TestCartTotalIsPure(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{ProductID: 1, UnitPricePaisa: 12000, Quantity: 3},
		{ProductID: 2, UnitPricePaisa: 6500, Quantity: 5},
	}}

	want := int64(3*12000 + 5*6500)
	assert.Equal(t, want, cart.Total())
	assert.Equal(t, want, cart.Total(), "total must not change between calls")
	assert.Equal(t, int64(0), Cart{}.Total())
}

func TestCartRecoversFromCorruptBlob(t *testing.T) {
	store := NewMemoryCartStore()
	require.NoError(t, store.SaveBlob("user:42", []byte("{not json")))

	svc := NewCartService(store)
	assert.Empty(t, svc.Get("user:42").Items)

	// The next write replaces the garbage with a valid cart.
	cart, err := svc.AddItem("user:42", cartProduct(1, 12000, 10, 1), 2)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Len(t, svc.Get("user:42").Items, 1)
}

func TestCartsAreIsolatedByOwner(t *testing.T) {
	svc := NewCartService(NewMemoryCartStore())
	_, err := svc.AddItem("user:42", cartProduct(1, 12000, 10, 1), 2)
	require.NoError(t, err)

	assert.Empty(t, svc.Get("guest:abc123").Items)
	assert.Len(t, svc.Get("user:42").Items, 1)
}

func TestCartRejectsUnpurchasableListings(t *testing.T) {
	svc := NewCartService(NewMemoryCartStore())

	draft := cartProduct(1, 12000, 50, 1)
	draft.Status = models.ProductDraft
	_, err := svc.AddItem("user:42", draft, 2)
	assert.ErrorIs(t, err, ErrProductUnavailable)

	archived := cartProduct(2, 12000, 50, 1)
	archived.Status = models.ProductArchived
	_, err = svc.AddItem("user:42", archived, 2)
	assert.ErrorIs(t, err, ErrProductUnavailable)

	assert.Empty(t, svc.Get("user:42").Items, "rejected listings must not enter the cart")
}
