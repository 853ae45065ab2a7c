package repositories

import (
	"gorm.io/gorm"

	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/pkg/database"
)

// ReviewRepository handles database operations for Review.
type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create persists a new review.
func (r *ReviewRepository) Create(rev *models.Review) error {
	return r.db.Create(rev).Error
}

// Exists reports whether the buyer has already reviewed the product.
func (r *ReviewRepository) Exists(buyerID, productID uint) (bool, error) {
	var n int64
	err := r.db.Model(&models.Review{}).
		Where("buyer_id = ? AND product_id = ?", buyerID, productID).
		Count(&n).Error
	return n > 0, err
}

// ListByProduct returns a product's reviews, newest first, with the
// buyer preloaded for display names.
func (r *ReviewRepository) ListByProduct(productID uint, page, perPage int) ([]models.Review, database.Pagination, error) {
	var reviews []models.Review
	query := r.db.Model(&models.Review{}).
		Where("product_id = ?", productID).
		Preload("Buyer").
		Order("created_at desc")
	pagination, err := database.Paginate(query, &reviews, page, perPage)
	return reviews, pagination, err
}

// AverageRating returns the mean rating for a product, 0 when unreviewed.
func (r *ReviewRepository) AverageRating(productID uint) (float64, error) {
	var avg *float64
	err := r.db.Model(&models.Review{}).
		Where("product_id = ?", productID).
		Select("avg(rating)").
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}
