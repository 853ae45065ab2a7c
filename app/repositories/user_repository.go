// Package repositories holds the GORM data access layer. Every
// repository takes its *gorm.DB in the constructor; nothing here reaches
// for an ambient connection.
package repositories

import (
	"gorm.io/gorm"

	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/pkg/database"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(email string) (models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	return user, err
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(id uint) (models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	return user, err
}

// Create persists a new user record.
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// All returns users page by page, optionally filtered by role.
func (r *UserRepository) All(role string, page, perPage int) ([]models.User, database.Pagination, error) {
	var users []models.User
	query := r.db.Model(&models.User{}).Order("id desc")
	if role != "" {
		query = query.Where("role = ?", role)
	}
	pagination, err := database.Paginate(query, &users, page, perPage)
	return users, pagination, err
}

// Count returns the total number of accounts, for the admin dashboard.
func (r *UserRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.User{}).Count(&n).Error
	return n, err
}

// CountByRole returns the number of accounts with the given role.
func (r *UserRepository) CountByRole(role string) (int64, error) {
	var n int64
	err := r.db.Model(&models.User{}).Where("role = ?", role).Count(&n).Error
	return n, err
}
