// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with storage,
// caches, external recipe sources and observability backends.
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/larderly/planner/internal/domain/mealplan"
	"github.com/larderly/planner/internal/domain/pantry"
	"github.com/larderly/planner/internal/domain/recipe"
	"github.com/larderly/planner/internal/domain/shopping"
)

// UserRepository answers identity questions about users. Account
// management lives outside the planner.
type UserRepository interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// PantryReader supplies point-in-time pantry snapshots
type PantryReader interface {
	GetPantryItems(ctx context.Context, userID uuid.UUID) (pantry.Snapshot, error)
}

// PantryRepository adds the writes used by pantry item creation
type PantryRepository interface {
	PantryReader
	Create(ctx context.Context, item *pantry.Item) error
}

// RecipeReader supplies a user's recipe catalog with ingredients and foods
type RecipeReader interface {
	// GetRecipes returns the catalog in a stable order.
	GetRecipes(ctx context.Context, userID uuid.UUID) ([]recipe.Recipe, error)
	// GetRecipe returns nil, nil when the recipe is absent or owned by someone else.
	GetRecipe(ctx context.Context, id, userID uuid.UUID) (*recipe.Recipe, error)
}

// RecipeRepository adds the writes used by recipe creation
type RecipeRepository interface {
	RecipeReader
	Create(ctx context.Context, r *recipe.Recipe) error
	ReplaceIngredients(ctx context.Context, recipeID uuid.UUID, ingredients []recipe.Ingredient) error
}

// FoodRepository persists foods. Categories are static reference data.
type FoodRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*pantry.Food, error)
	Create(ctx context.Context, food *pantry.Food) error
	CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// MealPlanRepository persists the meal plan aggregate
type MealPlanRepository interface {
	Create(ctx context.Context, plan *mealplan.MealPlan) error
	// FindByID returns nil, nil when the plan does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*mealplan.MealPlan, error)
	// FindWithRecipes also loads each entry's recipe, ingredients and foods.
	FindWithRecipes(ctx context.Context, id uuid.UUID) (*mealplan.MealPlan, error)
	// Save writes the plan row and synchronises its entry rows.
	Save(ctx context.Context, plan *mealplan.MealPlan) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// ShoppingListRepository persists shopping-list items
type ShoppingListRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]shopping.Item, error)
	FoodIDsByUser(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]struct{}, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CreateBatch(ctx context.Context, items []shopping.Item) error
}

// TransactionManager runs fn inside a single storage transaction.
// Repositories called with the context passed to fn join the transaction.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ErrCacheMiss is returned by CacheRepository.Get for absent or expired keys
var ErrCacheMiss = errors.New("cache miss")

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// MessageBus defines the interface for publishing messages
type MessageBus interface {
	Publish(ctx context.Context, topic string, message Message) error
	Subscribe(ctx context.Context, topic string, handler MessageHandler) error
}

// Message represents a message to be published
type Message struct {
	ID        string
	Type      string
	Payload   []byte
	Metadata  map[string]string
	Timestamp time.Time
}

// MessageHandler handles incoming messages
type MessageHandler func(ctx context.Context, message Message) error
