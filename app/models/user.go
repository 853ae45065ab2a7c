package models

import "gorm.io/gorm"

// Roles a user account can hold.
const (
	RoleBuyer  = "buyer"
	RoleFarmer = "farmer"
	RoleAdmin  = "admin"
)

// User is an account on the marketplace. Farmers list products, buyers
// place orders, admins run the back office.
type User struct {
	gorm.Model
	Name     string `gorm:"size:255;not null"             json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null"             json:"-"` // bcrypt hash, never serialised
	Role     string `gorm:"size:50;default:buyer;index"   json:"role"`
	Phone    string `gorm:"size:50"                       json:"phone"`
	District string `gorm:"size:100"                      json:"district"`
	Province string `gorm:"size:100"                      json:"province"`
	Avatar   string `gorm:"size:512"                      json:"avatar"`
}

// IsFarmer reports whether the account can list products.
func (u User) IsFarmer() bool { return u.Role == RoleFarmer || u.Role == RoleAdmin }

// IsAdmin reports whether the account can use the back office.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
