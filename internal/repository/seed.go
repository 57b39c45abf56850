package repository

import (
	"context"

	"ecommerce-api/internal/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seed inserts a demo admin user, categories and products when the database
// is empty. Safe to call on every startup.
func Seed(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.User{
		ID:        uuid.NewString(),
		Email:     "admin@example.com",
		Password:  string(hashed),
		FirstName: "Admin",
		LastName:  "User",
		Role:      model.RoleAdmin,
	}
	if err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&admin).Error; err != nil {
		return err
	}

	categories := []model.Category{
		{ID: uuid.NewString(), Name: "Electronics", Description: "Electronic devices and gadgets", Slug: "electronics"},
		{ID: uuid.NewString(), Name: "Clothing", Description: "Fashion and apparel", Slug: "clothing"},
		{ID: uuid.NewString(), Name: "Books", Description: "Books and literature", Slug: "books"},
	}
	if err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&categories).Error; err != nil {
		return err
	}

	products := []model.Product{
		{ID: uuid.NewString(), Name: "Wireless Headphones", Description: "Bluetooth over-ear headphones", Price: 79.99, Stock: 50, IsActive: true, CategoryID: categories[0].ID},
		{ID: uuid.NewString(), Name: "Cotton T-Shirt", Description: "Plain cotton t-shirt", Price: 14.99, Stock: 200, IsActive: true, CategoryID: categories[1].ID},
		{ID: uuid.NewString(), Name: "Go in Practice", Description: "Practical Go programming", Price: 39.99, Stock: 30, IsActive: true, CategoryID: categories[2].ID},
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error
}
