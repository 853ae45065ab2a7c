package services

import (
	"strings"

	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/app/repositories"
	"github.com/binodghimire/agrihaat/pkg/database"
	"github.com/binodghimire/agrihaat/pkg/event"
)

// ReviewInput is a buyer's rating of a product they actually received.
type ReviewInput struct {
	ProductID uint   `json:"product_id" validate:"required"`
	Rating    int    `json:"rating"     validate:"required"`
	Comment   string `json:"comment"    validate:"nullable,max=2000"`
}

// ReviewService enforces the buy-before-review rule: a review needs a
// completed order for that product, and each buyer gets one per product.
type ReviewService struct {
	reviews *repositories.ReviewRepository
	orders  *repositories.OrderRepository
}

func NewReviewService(reviews *repositories.ReviewRepository, orders *repositories.OrderRepository) *ReviewService {
	return &ReviewService{reviews: reviews, orders: orders}
}

func (s *ReviewService) Create(buyerID uint, in ReviewInput) (models.Review, error) {
	if buyerID == 0 {
		return models.Review{}, ErrUnauthenticated
	}
	if in.Rating < 1 || in.Rating > 5 {
		return models.Review{}, ValidationError{Fields: map[string]string{
			"rating": "rating must be between 1 and 5",
		}}
	}

	eligible, err := s.orders.HasCompleted(buyerID, in.ProductID)
	if err != nil {
		return models.Review{}, err
	}
	if !eligible {
		return models.Review{}, ErrReviewNotEligible
	}

	exists, err := s.reviews.Exists(buyerID, in.ProductID)
	if err != nil {
		return models.Review{}, err
	}
	if exists {
		return models.Review{}, ErrAlreadyReviewed
	}

	review := models.Review{
		ProductID: in.ProductID,
		BuyerID:   buyerID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
	}
	if err := s.reviews.Create(&review); err != nil {
		return models.Review{}, err
	}

	event.Fire(models.NotifyReviewCreated, review)
	return review, nil
}

// ListForProduct returns a product's reviews with the running average,
// newest first.
func (s *ReviewService) ListForProduct(productID uint, page, perPage int) ([]models.Review, database.Pagination, float64, error) {
	items, pagination, err := s.reviews.ListByProduct(productID, page, perPage)
	if err != nil {
		return nil, pagination, 0, err
	}
	avg, err := s.reviews.AverageRating(productID)
	if err != nil {
		return nil, pagination, 0, err
	}
	return items, pagination, avg, nil
}
