// Package gorm provides GORM model definitions and repository implementations
package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel is the identity row other tables hang off. Account data is
// managed elsewhere.
type UserModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name      string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategoryModel represents the GORM model for food categories
type CategoryModel struct {
	ID   uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name string    `gorm:"type:varchar(100);uniqueIndex;not null"`
}

// FoodModel represents the GORM model for foods
type FoodModel struct {
	ID         uuid.UUID  `gorm:"type:char(36);primaryKey"`
	Name       string     `gorm:"type:varchar(255);not null;index"`
	CategoryID *uuid.UUID `gorm:"type:char(36);index"`
	CreatedAt  time.Time

	Category *CategoryModel `gorm:"foreignKey:CategoryID"`
}

// PantryItemModel represents the GORM model for pantry items
type PantryItemModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index"`
	FoodID    uuid.UUID `gorm:"type:char(36);not null;index"`
	Quantity  float64   `gorm:"not null;default:0"`
	Unit      *string   `gorm:"type:varchar(50)"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	Food FoodModel `gorm:"foreignKey:FoodID"`
}

// RecipeModel represents the GORM model for recipes
type RecipeModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	OwnerID      uuid.UUID `gorm:"type:char(36);not null;index"`
	Title        string    `gorm:"type:varchar(255);not null"`
	Instructions string    `gorm:"type:text"`
	Source       *string   `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time

	Ingredients []RecipeIngredientModel `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// RecipeIngredientModel represents the GORM model for recipe ingredients
type RecipeIngredientModel struct {
	ID       uuid.UUID `gorm:"type:char(36);primaryKey"`
	RecipeID uuid.UUID `gorm:"type:char(36);not null;index"`
	FoodID   uuid.UUID `gorm:"type:char(36);not null;index"`
	Position int       `gorm:"not null;default:0"`
	Quantity float64   `gorm:"not null;default:0"`
	Unit     *string   `gorm:"type:varchar(50)"`

	Food FoodModel `gorm:"foreignKey:FoodID"`
}

// MealPlanModel represents the GORM model for meal plans
type MealPlanModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index"`
	StartDate time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	Entries []MealPlanEntryModel `gorm:"foreignKey:MealPlanID;constraint:OnDelete:CASCADE"`
}

// MealPlanEntryModel represents the GORM model for meal plan entries
type MealPlanEntryModel struct {
	ID         uuid.UUID  `gorm:"type:char(36);primaryKey"`
	MealPlanID uuid.UUID  `gorm:"type:char(36);not null;index"`
	RecipeID   *uuid.UUID `gorm:"type:char(36);index"`
	Position   int        `gorm:"not null;default:0"`
	Notes      *string    `gorm:"type:text"`
	Cooked     bool       `gorm:"not null;default:false"`

	Recipe *RecipeModel `gorm:"foreignKey:RecipeID"`
}

// ShoppingListItemModel represents the GORM model for shopping list items
type ShoppingListItemModel struct {
	ID        uuid.UUID  `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID  `gorm:"type:char(36);not null;index"`
	FoodID    *uuid.UUID `gorm:"type:char(36);index"`
	Purchased bool       `gorm:"not null;default:false"`
	Notes     *string    `gorm:"type:text"`
	CreatedAt time.Time  `gorm:"index"`

	Food *FoodModel `gorm:"foreignKey:FoodID"`
}

// AllModels lists every model in dependency order for auto-migration
func AllModels() []interface{} {
	return []interface{}{
		&UserModel{},
		&CategoryModel{},
		&FoodModel{},
		&PantryItemModel{},
		&RecipeModel{},
		&RecipeIngredientModel{},
		&MealPlanModel{},
		&MealPlanEntryModel{},
		&ShoppingListItemModel{},
	}
}

// Table names

func (UserModel) TableName() string             { return "users" }
func (CategoryModel) TableName() string         { return "categories" }
func (FoodModel) TableName() string             { return "foods" }
func (PantryItemModel) TableName() string       { return "pantry_items" }
func (RecipeModel) TableName() string           { return "recipes" }
func (RecipeIngredientModel) TableName() string { return "recipe_ingredients" }
func (MealPlanModel) TableName() string         { return "meal_plans" }
func (MealPlanEntryModel) TableName() string    { return "meal_plan_entries" }
func (ShoppingListItemModel) TableName() string { return "shopping_list_items" }

// BeforeCreate hooks assign identities to rows created without one

func (m *UserModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *CategoryModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *FoodModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *PantryItemModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *RecipeModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *RecipeIngredientModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *MealPlanModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *MealPlanEntryModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *ShoppingListItemModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
