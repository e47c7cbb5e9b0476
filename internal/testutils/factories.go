package testutils

import (
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	gormModels "github.com/larderly/planner/internal/infrastructure/persistence/gorm"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Fixture writes test rows straight through GORM models. Names default
// to seeded fake data so failures are reproducible.
type Fixture struct {
	t     *testing.T
	db    *gorm.DB
	faker *gofakeit.Faker
	clock time.Time
}

// NewFixture creates a fixture over db with a seeded faker
func NewFixture(t *testing.T, db *gorm.DB, seed int64) *Fixture {
	return &Fixture{
		t:     t,
		db:    db,
		faker: gofakeit.New(seed),
		clock: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
	}
}

// tick returns strictly increasing creation times so list ordering by
// created_at follows insertion order
func (f *Fixture) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

// User inserts a user and returns its id
func (f *Fixture) User() uuid.UUID {
	f.t.Helper()

	m := &gormModels.UserModel{
		ID:    uuid.New(),
		Email: strings.ToLower(f.faker.Username()) + "-" + uuid.NewString()[:8] + "@example.com",
		Name:  f.faker.Name(),
	}
	require.NoError(f.t, f.db.Create(m).Error)
	return m.ID
}

// Category inserts a category with the given name
func (f *Fixture) Category(name string) uuid.UUID {
	f.t.Helper()

	m := &gormModels.CategoryModel{ID: uuid.New(), Name: name}
	require.NoError(f.t, f.db.Create(m).Error)
	return m.ID
}

// Food inserts a food. An empty name picks a fake ingredient name.
func (f *Fixture) Food(name string, categoryID *uuid.UUID) uuid.UUID {
	f.t.Helper()

	if name == "" {
		name = f.faker.Noun() + " " + f.faker.LetterN(4)
	}
	m := &gormModels.FoodModel{ID: uuid.New(), Name: name, CategoryID: categoryID, CreatedAt: f.tick()}
	require.NoError(f.t, f.db.Omit("Category").Create(m).Error)
	return m.ID
}

// PantryItem stocks foodID for userID
func (f *Fixture) PantryItem(userID, foodID uuid.UUID, quantity float64) uuid.UUID {
	f.t.Helper()

	now := f.tick()
	m := &gormModels.PantryItemModel{
		ID:        uuid.New(),
		UserID:    userID,
		FoodID:    foodID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(f.t, f.db.Omit("Food").Create(m).Error)
	return m.ID
}

// Recipe inserts a recipe owned by ownerID with one ingredient per food
// in the given order. An empty title picks a fake one.
func (f *Fixture) Recipe(ownerID uuid.UUID, title string, foodIDs ...uuid.UUID) uuid.UUID {
	f.t.Helper()

	if title == "" {
		title = f.faker.Sentence(3)
	}
	now := f.tick()
	m := &gormModels.RecipeModel{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Title:        title,
		Instructions: f.faker.Paragraph(1, 2, 8, " "),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(f.t, f.db.Omit("Ingredients").Create(m).Error)

	for i, foodID := range foodIDs {
		ing := &gormModels.RecipeIngredientModel{
			ID:       uuid.New(),
			RecipeID: m.ID,
			FoodID:   foodID,
			Position: i,
			Quantity: float64(f.faker.Number(1, 5)),
		}
		require.NoError(f.t, f.db.Omit("Food").Create(ing).Error)
	}
	return m.ID
}

// ShoppingItem inserts a shopping list row. A nil foodID makes a
// free-text item carrying notes.
func (f *Fixture) ShoppingItem(userID uuid.UUID, foodID *uuid.UUID, notes string) uuid.UUID {
	f.t.Helper()

	m := &gormModels.ShoppingListItemModel{
		ID:        uuid.New(),
		UserID:    userID,
		FoodID:    foodID,
		CreatedAt: f.tick(),
	}
	if notes != "" {
		m.Notes = &notes
	}
	require.NoError(f.t, f.db.Omit("Food").Create(m).Error)
	return m.ID
}

// PantryQuantities returns the quantity of every pantry item of userID
// keyed by item id
func (f *Fixture) PantryQuantities(userID uuid.UUID) map[uuid.UUID]float64 {
	f.t.Helper()

	var items []gormModels.PantryItemModel
	require.NoError(f.t, f.db.Where("user_id = ?", userID).Find(&items).Error)

	out := make(map[uuid.UUID]float64, len(items))
	for _, item := range items {
		out[item.ID] = item.Quantity
	}
	return out
}

// Count returns the number of rows of model matching the optional condition
func (f *Fixture) Count(model interface{}, query string, args ...interface{}) int64 {
	f.t.Helper()

	var n int64
	q := f.db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(f.t, q.Count(&n).Error)
	return n
}
