package services

import (
	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/app/repositories"
	"github.com/binodghimire/agrihaat/pkg/database"
)

// DashboardStats is the admin overview: platform counts by role and
// order status.
type DashboardStats struct {
	Buyers        int64            `json:"buyers"`
	Farmers       int64            `json:"farmers"`
	Products      int64            `json:"products"`
	OrdersByState map[string]int64 `json:"orders_by_state"`
}

// AdminService backs the admin-only endpoints.
type AdminService struct {
	users    *repositories.UserRepository
	products *repositories.ProductRepository
	orders   *repositories.OrderRepository
}

func NewAdminService(
	users *repositories.UserRepository,
	products *repositories.ProductRepository,
	orders *repositories.OrderRepository,
) *AdminService {
	return &AdminService{users: users, products: products, orders: orders}
}

func (s *AdminService) Stats() (DashboardStats, error) {
	stats := DashboardStats{}

	var err error
	if stats.Buyers, err = s.users.CountByRole(models.RoleBuyer); err != nil {
		return stats, err
	}
	if stats.Farmers, err = s.users.CountByRole(models.RoleFarmer); err != nil {
		return stats, err
	}
	if stats.Products, err = s.products.Count(); err != nil {
		return stats, err
	}
	if stats.OrdersByState, err = s.orders.CountByStatus(); err != nil {
		return stats, err
	}
	return stats, nil
}

// Users lists accounts, optionally filtered by role.
func (s *AdminService) Users(role string, page, perPage int) ([]models.User, database.Pagination, error) {
	return s.users.All(role, page, perPage)
}