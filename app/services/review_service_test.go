package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/app/repositories"
	"github.com/binodghimire/agrihaat/pkg/database"
)

func reviewService(t *testing.T) (*ReviewService, *gorm.DB) {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.Review{}))
	return NewReviewService(
		repositories.NewReviewRepository(db),
		repositories.NewOrderRepository(db),
	), db
}

func seedCompletedOrder(t *testing.T, db *gorm.DB, buyerID, productID uint, status string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Order{
		BuyerID: buyerID, FarmerID: 7, ProductID: productID,
		ProductName: "Raw Honey", Unit: "kg", Quantity: 1,
		UnitPricePaisa: 95000, TotalPaisa: 95000,
		Status: status, PaymentMethod: models.PaymentCash,
		DeliveryAddress: "Pokhara",
	}).Error)
}

func TestReviewRequiresCompletedOrder(t *testing.T) {
	svc, db := reviewService(t)

	// A shipped order is not enough; the buyer must have received it.
	seedCompletedOrder(t, db, 42, 1, models.OrderShipped)
	_, err := svc.Create(42, ReviewInput{ProductID: 1, Rating: 5})
	assert.ErrorIs(t, err, ErrReviewNotEligible)

	seedCompletedOrder(t, db, 42, 1, models.OrderCompleted)
	review, err := svc.Create(42, ReviewInput{ProductID: 1, Rating: 5, Comment: "  Excellent honey  "})
	require.NoError(t, err)
	assert.Equal(t, "Excellent honey", review.Comment)
}

func TestReviewOncePerProduct(t *testing.T) {
	svc, db := reviewService(t)
	seedCompletedOrder(t, db, 42, 1, models.OrderCompleted)

	_, err := svc.Create(42, ReviewInput{ProductID: 1, Rating: 4})
	require.NoError(t, err)

	_, err = svc.Create(42, ReviewInput{ProductID: 1, Rating: 2})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestReviewRatingBounds(t *testing.T) {
	svc, db := reviewService(t)
	seedCompletedOrder(t, db, 42, 1, models.OrderCompleted)

	for _, rating := range []int{0, -1, 6} {
		_, err := svc.Create(42, ReviewInput{ProductID: 1, Rating: rating})
		var ve ValidationError
		require.ErrorAs(t, err, &ve, "rating %d", rating)
		assert.Contains(t, ve.Fields, "rating")
	}
}

func TestReviewAverage(t *testing.T) {
	svc, db := reviewService(t)
	seedCompletedOrder(t, db, 42, 1, models.OrderCompleted)
	seedCompletedOrder(t, db, 43, 1, models.OrderCompleted)

	_, err := svc.Create(42, ReviewInput{ProductID: 1, Rating: 5})
	require.NoError(t, err)
	_, err = svc.Create(43, ReviewInput{ProductID: 1, Rating: 2})
	require.NoError(t, err)

	items, pagination, avg, err := svc.ListForProduct(1, 1, 20)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(2), pagination.Total)
	assert.InDelta(t, 3.5, avg, 0.001)
}
