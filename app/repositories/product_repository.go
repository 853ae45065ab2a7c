package repositories

import (
	"strings"

	"gorm.io/gorm"

	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/pkg/database"
)

// ProductFilter narrows a catalog listing.
type ProductFilter struct {
	Status   string
	FarmerID uint
	Category string
	Search   string // matches name, case-insensitive substring
}

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// FindByID looks up a product by primary key.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var p models.Product
	err := r.db.First(&p, id).Error
	return p, err
}

// Create persists a new listing.
func (r *ProductRepository) Create(p *models.Product) error {
	return r.db.Create(p).Error
}

// Update persists changes to an existing listing.
func (r *ProductRepository) Update(p *models.Product) error {
	return r.db.Save(p).Error
}

// Delete removes a listing (soft delete via gorm.Model).
func (r *ProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// List returns listings page by page with optional filters applied.
func (r *ProductRepository) List(f ProductFilter, page, perPage int) ([]models.Product, database.Pagination, error) {
	var products []models.Product
	query := r.db.Model(&models.Product{}).Order("id desc")

	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.FarmerID != 0 {
		query = query.Where("farmer_id = ?", f.FarmerID)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		query = query.Where("lower(name) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}

	pagination, err := database.Paginate(query, &products, page, perPage)
	return products, pagination, err
}

// DecrementStock atomically subtracts qty from the product's quantity,
// but only when enough stock remains. It reports false when the
// conditional update matched no row, which means a concurrent checkout
// got there first. The status flips to out_of_stock in the same
// statement when the decrement lands on zero.
func (r *ProductRepository) DecrementStock(productID uint, qty int) (bool, error) {
	res := r.db.Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", productID, qty).
		Updates(map[string]interface{}{
			"quantity": gorm.Expr("quantity - ?", qty),
			"status": gorm.Expr(
				"CASE WHEN quantity - ? <= 0 THEN ? ELSE status END",
				qty, models.ProductOutOfStock,
			),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RestoreStock adds qty back after a cancellation and resurrects an
// out_of_stock listing to available.
func (r *ProductRepository) RestoreStock(productID uint, qty int) error {
	return r.db.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"quantity": gorm.Expr("quantity + ?", qty),
			"status": gorm.Expr(
				"CASE WHEN status = ? THEN ? ELSE status END",
				models.ProductOutOfStock, models.ProductAvailable,
			),
		}).Error
}

// Count returns the total number of listings, for the admin dashboard.
func (r *ProductRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.Product{}).Count(&n).Error
	return n, err
}
