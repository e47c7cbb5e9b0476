// Package sqlite provides SQLite database setup and configuration
package sqlite

import (
	"fmt"

	"github.com/google/uuid"
	gormModels "github.com/larderly/planner/internal/infrastructure/persistence/gorm"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupDatabase creates and configures the SQLite database
func SetupDatabase(dbPath string, logLevel logger.LogLevel) (*gorm.DB, error) {
	// Use in-memory database if no path provided
	if dbPath == "" {
		dbPath = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite serialises writers; a single connection also keeps an
	// in-memory database alive and shared.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(gormModels.AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// Seed holds the identities created by SeedDatabase
type Seed struct {
	ChefID     uuid.UUID
	HomeCookID uuid.UUID
}

// SeedDatabase populates an empty database with demo users, foods,
// pantry items and recipes. It is a no-op when users already exist.
func SeedDatabase(db *gorm.DB) (*Seed, error) {
	var userCount int64
	if err := db.Model(&gormModels.UserModel{}).Count(&userCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if userCount > 0 {
		return nil, nil
	}

	seed := &Seed{ChefID: uuid.New(), HomeCookID: uuid.New()}

	err := db.Transaction(func(tx *gorm.DB) error {
		users := []gormModels.UserModel{
			{ID: seed.ChefID, Email: "chef@larderly.dev", Name: "Chef Demo"},
			{ID: seed.HomeCookID, Email: "cook@larderly.dev", Name: "Home Cook"},
		}
		if err := tx.Create(&users).Error; err != nil {
			return fmt.Errorf("failed to create demo users: %w", err)
		}

		categories := map[string]*gormModels.CategoryModel{}
		for _, name := range []string{"Produce", "Dairy", "Dry Goods", "Meat"} {
			c := &gormModels.CategoryModel{ID: uuid.New(), Name: name}
			if err := tx.Create(c).Error; err != nil {
				return fmt.Errorf("failed to create category %s: %w", name, err)
			}
			categories[name] = c
		}

		foods := map[string]uuid.UUID{}
		demoFoods := []struct{ name, category string }{
			{"tomato", "Produce"},
			{"onion", "Produce"},
			{"garlic", "Produce"},
			{"basil", "Produce"},
			{"parmesan", "Dairy"},
			{"egg", "Dairy"},
			{"butter", "Dairy"},
			{"spaghetti", "Dry Goods"},
			{"rice", "Dry Goods"},
			{"chicken thigh", "Meat"},
			{"pancetta", "Meat"},
			{"salt", ""},
		}
		for _, f := range demoFoods {
			model := &gormModels.FoodModel{ID: uuid.New(), Name: f.name}
			if c, ok := categories[f.category]; ok {
				model.CategoryID = &c.ID
			}
			if err := tx.Create(model).Error; err != nil {
				return fmt.Errorf("failed to create food %s: %w", f.name, err)
			}
			foods[f.name] = model.ID
		}

		for _, name := range []string{"tomato", "onion", "garlic", "spaghetti", "egg", "salt"} {
			item := &gormModels.PantryItemModel{UserID: seed.HomeCookID, FoodID: foods[name], Quantity: 1}
			if err := tx.Omit("Food").Create(item).Error; err != nil {
				return fmt.Errorf("failed to create pantry item %s: %w", name, err)
			}
		}

		demoRecipes := []struct {
			title        string
			instructions string
			ingredients  []string
		}{
			{
				title:        "Spaghetti Carbonara",
				instructions: "Boil pasta. Crisp pancetta. Toss with eggs and parmesan off the heat.",
				ingredients:  []string{"spaghetti", "egg", "pancetta", "parmesan"},
			},
			{
				title:        "Tomato Basil Pasta",
				instructions: "Soften garlic and onion, add tomato, simmer, finish with basil.",
				ingredients:  []string{"spaghetti", "tomato", "garlic", "onion", "basil"},
			},
			{
				title:        "Chicken and Rice",
				instructions: "Brown the chicken, add rice and water, cover and cook through.",
				ingredients:  []string{"chicken thigh", "rice", "onion", "butter"},
			},
		}
		for _, owner := range []uuid.UUID{seed.ChefID, seed.HomeCookID} {
			for _, r := range demoRecipes {
				recipe := &gormModels.RecipeModel{ID: uuid.New(), OwnerID: owner, Title: r.title, Instructions: r.instructions}
				if err := tx.Omit("Ingredients").Create(recipe).Error; err != nil {
					return fmt.Errorf("failed to create demo recipe: %w", err)
				}
				for i, name := range r.ingredients {
					ing := &gormModels.RecipeIngredientModel{RecipeID: recipe.ID, FoodID: foods[name], Position: i, Quantity: 1}
					if err := tx.Omit("Food").Create(ing).Error; err != nil {
						return fmt.Errorf("failed to create ingredient %s: %w", name, err)
					}
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return seed, nil
}
