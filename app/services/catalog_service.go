package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/app/repositories"
	"github.com/binodghimire/agrihaat/pkg/cache"
	"github.com/binodghimire/agrihaat/pkg/database"
	"github.com/binodghimire/agrihaat/pkg/logger"
	"github.com/binodghimire/agrihaat/pkg/metrics"
	"github.com/binodghimire/agrihaat/pkg/storage"
)

const productCacheTTL = 10 * time.Minute

// ProductInput carries the writable fields of a listing. Prices are in
// paisa so there is no float anywhere near money.
type ProductInput struct {
	Name        string `json:"name"          validate:"required,min=2,max=255"`
	Description string `json:"description"   validate:"nullable,max=5000"`
	Category    string `json:"category"      validate:"required,max=100"`
	Unit        string `json:"unit"          validate:"nullable,max=20"`
	PricePaisa  int64  `json:"price_paisa"   validate:"required"`
	Quantity    int    `json:"quantity"`
	MinOrderQty int    `json:"min_order_qty"`
	Status      string `json:"status"        validate:"nullable,in=draft,available,archived"`
}

// CatalogService owns product listings: farmer CRUD, the public browse
// path and the per-product cache in front of it.
type CatalogService struct {
	products *repositories.ProductRepository
}

func NewCatalogService(products *repositories.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

func productCacheKey(id uint) string { return fmt.Sprintf("product:%d", id) }

// Find serves the public product page, cache first.
func (s *CatalogService) Find(id uint) (models.Product, error) {
	var cached models.Product
	if cache.Get(productCacheKey(id), &cached) {
		metrics.CacheHits.WithLabelValues("product").Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues("product").Inc()

	product, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, err
	}

	if err := cache.Set(productCacheKey(id), product, productCacheTTL); err != nil {
		logger.Warn("product cache write failed", "product_id", id, "error", err.Error())
	}
	return product, nil
}

// List returns a filtered page of products plus pagination info.
func (s *CatalogService) List(filter repositories.ProductFilter, page, perPage int) ([]models.Product, database.Pagination, error) {
	return s.products.List(filter, page, perPage)
}

// Create makes a new listing owned by the calling farmer. New listings
// default to draft until the farmer publishes them.
func (s *CatalogService) Create(farmerID uint, in ProductInput) (models.Product, error) {
	if farmerID == 0 {
		return models.Product{}, ErrUnauthenticated
	}
	if err := validateProductInput(in); err != nil {
		return models.Product{}, err
	}

	product := models.Product{
		FarmerID:    farmerID,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Unit:        in.Unit,
		PricePaisa:  in.PricePaisa,
		Quantity:    in.Quantity,
		MinOrderQty: in.MinOrderQty,
		Status:      in.Status,
	}
	if product.Unit == "" {
		product.Unit = "kg"
	}
	if product.MinOrderQty <= 0 {
		product.MinOrderQty = 1
	}
	if product.Status == "" {
		product.Status = models.ProductDraft
	}
	if product.Status == models.ProductAvailable && product.Quantity <= 0 {
		product.Status = models.ProductOutOfStock
	}

	if err := s.products.Create(&product); err != nil {
		return models.Product{}, err
	}
	logger.Info("product created", "product_id", product.ID, "farmer_id", farmerID)
	return product, nil
}

// Update edits a listing. Only the owning farmer or an admin may touch it.
func (s *CatalogService) Update(actor models.User, id uint, in ProductInput) (models.Product, error) {
	product, err := s.ownedProduct(actor, id)
	if err != nil {
		return models.Product{}, err
	}
	if err := validateProductInput(in); err != nil {
		return models.Product{}, err
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Category = in.Category
	if in.Unit != "" {
		product.Unit = in.Unit
	}
	product.PricePaisa = in.PricePaisa
	product.Quantity = in.Quantity
	if in.MinOrderQty > 0 {
		product.MinOrderQty = in.MinOrderQty
	}
	if in.Status != "" {
		product.Status = in.Status
	}
	if product.Status == models.ProductAvailable && product.Quantity <= 0 {
		product.Status = models.ProductOutOfStock
	}
	if product.Status == models.ProductOutOfStock && product.Quantity > 0 {
		product.Status = models.ProductAvailable
	}

	if err := s.products.Update(&product); err != nil {
		return models.Product{}, err
	}
	s.forget(id)
	return product, nil
}

// Archive takes a listing off the market without deleting its order
// history. Archived products stay visible on past orders via snapshots.
func (s *CatalogService) Archive(actor models.User, id uint) error {
	product, err := s.ownedProduct(actor, id)
	if err != nil {
		return err
	}
	product.Status = models.ProductArchived
	if err := s.products.Update(&product); err != nil {
		return err
	}
	s.forget(id)
	return nil
}

// Delete removes a listing outright. Soft delete via gorm keeps the row
// for any orders that reference it.
func (s *CatalogService) Delete(actor models.User, id uint) error {
	product, err := s.ownedProduct(actor, id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(product.ID); err != nil {
		return err
	}
	s.forget(id)
	return nil
}

// AttachImage stores an uploaded product photo on the configured disk
// and records its path on the listing.
func (s *CatalogService) AttachImage(actor models.User, id uint, filename string, r io.Reader) (models.Product, error) {
	product, err := s.ownedProduct(actor, id)
	if err != nil {
		return models.Product{}, err
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return models.Product{}, err
	}
	ext := filepath.Ext(filename)
	path := fmt.Sprintf("products/%d/%s%s", id, hex.EncodeToString(buf), ext)
	if err := storage.PutStream(path, r); err != nil {
		return models.Product{}, err
	}

	old := product.Image
	product.Image = path
	if err := s.products.Update(&product); err != nil {
		return models.Product{}, err
	}
	if old != "" {
		if err := storage.Delete(old); err != nil {
			logger.Warn("stale product image not removed", "path", old, "error", err.Error())
		}
	}
	s.forget(id)
	return product, nil
}

func (s *CatalogService) ownedProduct(actor models.User, id uint) (models.Product, error) {
	product, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, err
	}
	if !actor.IsAdmin() && product.FarmerID != actor.ID {
		return models.Product{}, ErrForbidden
	}
	return product, nil
}

func (s *CatalogService) forget(id uint) {
	if err := cache.Forget(productCacheKey(id)); err != nil {
		logger.Warn("product cache invalidation failed", "product_id", id, "error", err.Error())
	}
}

func validateProductInput(in ProductInput) error {
	fields := map[string]string{}
	if in.Name == "" {
		fields["name"] = "name is required"
	}
	if in.Category == "" {
		fields["category"] = "category is required"
	}
	if in.PricePaisa <= 0 {
		fields["price_paisa"] = "price must be positive"
	}
	if in.Quantity < 0 {
		fields["quantity"] = "quantity cannot be negative"
	}
	switch in.Status {
	case "", models.ProductDraft, models.ProductAvailable, models.ProductArchived:
	default:
		fields["status"] = "status must be draft, available or archived"
	}
	if len(fields) > 0 {
		return ValidationError{Fields: fields}
	}
	return nil
}
