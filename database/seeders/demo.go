package seeders

import (
	"errors"

	"gorm.io/gorm"

	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/pkg/auth"
)

func init() {
	Register("users", SeedUsers)
	Register("products", SeedProducts)
}

// SeedUsers inserts a demo admin, two farmers and a buyer. Running it
// twice is a no-op; accounts are looked up by email first.
func SeedUsers(db *gorm.DB) error {
	demo := []struct {
		name, email, role, district, province string
	}{
		{"Admin", "admin@agrihaat.com", models.RoleAdmin, "Kathmandu", "Bagmati"},
		{"Krishna Adhikari", "krishna@agrihaat.com", models.RoleFarmer, "Kavre", "Bagmati"},
		{"Sita Gurung", "sita@agrihaat.com", models.RoleFarmer, "Kaski", "Gandaki"},
		{"Ramesh Shrestha", "ramesh@agrihaat.com", models.RoleBuyer, "Lalitpur", "Bagmati"},
	}

	hash, err := auth.HashPassword("password")
	if err != nil {
		return err
	}

	for _, d := range demo {
		var existing models.User
		err := db.Where("email = ?", d.email).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		user := models.User{
			Name:     d.name,
			Email:    d.email,
			Password: hash,
			Role:     d.role,
			District: d.district,
			Province: d.province,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedProducts gives each demo farmer a few listings priced in paisa.
func SeedProducts(db *gorm.DB) error {
	var farmers []models.User
	if err := db.Where("role = ?", models.RoleFarmer).Order("id").Find(&farmers).Error; err != nil {
		return err
	}
	if len(farmers) == 0 {
		return nil
	}

	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	demo := []models.Product{
		{Name: "Basmati Rice", Category: "grains", Unit: "kg", PricePaisa: 18500, Quantity: 200, MinOrderQty: 5, Status: models.ProductAvailable},
		{Name: "Red Potatoes", Category: "vegetables", Unit: "kg", PricePaisa: 6500, Quantity: 500, MinOrderQty: 10, Status: models.ProductAvailable},
		{Name: "Mustard Greens", Category: "vegetables", Unit: "kg", PricePaisa: 4000, Quantity: 80, MinOrderQty: 1, Status: models.ProductAvailable},
		{Name: "Raw Honey", Category: "dairy_and_more", Unit: "kg", PricePaisa: 95000, Quantity: 30, MinOrderQty: 1, Status: models.ProductAvailable},
		{Name: "Oranges", Category: "fruits", Unit: "kg", PricePaisa: 12000, Quantity: 150, MinOrderQty: 2, Status: models.ProductAvailable},
		{Name: "Cauliflower", Category: "vegetables", Unit: "kg", PricePaisa: 7000, Quantity: 0, MinOrderQty: 1, Status: models.ProductOutOfStock},
	}

	for i := range demo {
		demo[i].FarmerID = farmers[i%len(farmers)].ID
		if err := db.Create(&demo[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
