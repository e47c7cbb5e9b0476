package gorm_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/larderly/planner/internal/domain/mealplan"
	"github.com/larderly/planner/internal/domain/shopping"
	gormRepo "github.com/larderly/planner/internal/infrastructure/persistence/gorm"
	"github.com/larderly/planner/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type RepositorySuite struct {
	suite.Suite

	ctx context.Context
	db  *gorm.DB
	fx  *testutils.Fixture
}

func TestRepositories(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutils.NewTestDB(s.T())
	s.fx = testutils.NewFixture(s.T(), s.db, 99)
}

func (s *RepositorySuite) TestUserRepository_Exists() {
	repo := gormRepo.NewUserRepository(s.db)
	id := s.fx.User()

	found, err := repo.Exists(s.ctx, id)
	s.Require().NoError(err)
	s.True(found)

	found, err = repo.Exists(s.ctx, uuid.New())
	s.Require().NoError(err)
	s.False(found)
}

func (s *RepositorySuite) TestPantryRepository_GetPantryItems_ShouldKeepInsertionOrder() {
	// Arrange
	repo := gormRepo.NewPantryRepository(s.db)
	user := s.fx.User()
	dairy := s.fx.Category("Dairy")
	milk, bread := s.fx.Food("milk", &dairy), s.fx.Food("bread", nil)
	first := s.fx.PantryItem(user, milk, 1)
	second := s.fx.PantryItem(user, bread, 2)
	s.fx.PantryItem(s.fx.User(), milk, 5)

	// Act
	snapshot, err := repo.GetPantryItems(s.ctx, user)

	// Assert
	s.Require().NoError(err)
	s.Require().Len(snapshot, 2)
	s.Equal(first, snapshot[0].ID)
	s.Equal(second, snapshot[1].ID)
	s.Equal("Dairy", snapshot[0].Food.CategoryName())
	s.Equal("bread", snapshot[1].Food.Name)
}

func (s *RepositorySuite) TestRecipeRepository_GetRecipes_ShouldBeOwnerScopedAndOrdered() {
	// Arrange
	repo := gormRepo.NewRecipeRepository(s.db)
	owner := s.fx.User()
	a, b := s.fx.Food("a", nil), s.fx.Food("b", nil)
	first := s.fx.Recipe(owner, "First", b, a)
	second := s.fx.Recipe(owner, "Second")
	s.fx.Recipe(s.fx.User(), "Elsewhere")

	// Act
	recipes, err := repo.GetRecipes(s.ctx, owner)

	// Assert
	s.Require().NoError(err)
	s.Require().Len(recipes, 2)
	s.Equal(first, recipes[0].ID)
	s.Equal([]uuid.UUID{b, a}, recipes[0].FoodIDs())
	s.Equal(second, recipes[1].ID)

	foreign, err := repo.GetRecipe(s.ctx, first, uuid.New())
	s.Require().NoError(err)
	s.Nil(foreign)
}

func (s *RepositorySuite) newPlan(userID uuid.UUID, entries ...mealplan.NewEntry) *mealplan.MealPlan {
	plan, err := mealplan.New(userID, time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), entries)
	s.Require().NoError(err)
	s.Require().NoError(gormRepo.NewMealPlanRepository(s.db).Create(s.ctx, plan))
	return plan
}

func notes(v string) *string { return &v }

func (s *RepositorySuite) TestMealPlanRepository_Save_ShouldApplyDiff() {
	// Arrange
	repo := gormRepo.NewMealPlanRepository(s.db)
	user := s.fx.User()
	plan := s.newPlan(user,
		mealplan.NewEntry{Notes: notes("one")},
		mealplan.NewEntry{Notes: notes("two")},
		mealplan.NewEntry{Notes: notes("three")},
	)
	entries := plan.Entries()
	third := entries[2].ID

	_, err := plan.Reconcile(plan.StartDate(), []mealplan.DesiredEntry{
		{ID: &third, Notes: notes("three!")},
		{Notes: notes("four")},
	})
	s.Require().NoError(err)

	// Act
	s.Require().NoError(repo.Save(s.ctx, plan))

	// Assert
	reloaded, err := repo.FindByID(s.ctx, plan.ID())
	s.Require().NoError(err)
	got := reloaded.Entries()
	s.Require().Len(got, 2)
	s.Equal(third, got[0].ID)
	s.Equal("three!", *got[0].Notes)
	s.Equal("four", *got[1].Notes)
	s.Equal(int64(2), s.fx.Count(&gormRepo.MealPlanEntryModel{}, "meal_plan_id = ?", plan.ID()))
}

func (s *RepositorySuite) TestMealPlanRepository_FindWithRecipes_ShouldLoadIngredients() {
	// Arrange
	repo := gormRepo.NewMealPlanRepository(s.db)
	user := s.fx.User()
	produce := s.fx.Category("Produce")
	leek := s.fx.Food("leek", &produce)
	soup := s.fx.Recipe(user, "Leek Soup", leek)
	plan := s.newPlan(user, mealplan.NewEntry{RecipeID: &soup}, mealplan.NewEntry{Notes: notes("bread")})

	// Act
	loaded, err := repo.FindWithRecipes(s.ctx, plan.ID())

	// Assert
	s.Require().NoError(err)
	entries := loaded.Entries()
	s.Require().Len(entries, 2)
	s.Require().NotNil(entries[0].Recipe)
	s.Equal("Leek Soup", entries[0].Recipe.Title)
	s.Require().Len(entries[0].Recipe.Ingredients, 1)
	s.Equal("Produce", entries[0].Recipe.Ingredients[0].Food.CategoryName())
	s.Nil(entries[1].Recipe)
}

func (s *RepositorySuite) TestMealPlanRepository_MissingPlan_ShouldReturnNil() {
	plan, err := gormRepo.NewMealPlanRepository(s.db).FindByID(s.ctx, uuid.New())

	s.NoError(err)
	s.Nil(plan)
}

func (s *RepositorySuite) TestShoppingListRepository() {
	// Arrange
	repo := gormRepo.NewShoppingListRepository(s.db)
	user := s.fx.User()
	flourID := s.fx.Food("flour", nil)
	s.fx.ShoppingItem(user, nil, "batteries")
	s.fx.ShoppingItem(s.fx.User(), &flourID, "")

	foods, err := gormRepo.NewFoodRepository(s.db).FindByID(s.ctx, flourID)
	s.Require().NoError(err)

	// Act
	s.Require().NoError(repo.CreateBatch(s.ctx, []shopping.Item{shopping.NewFoodItem(user, *foods)}))
	present, err := repo.FoodIDsByUser(s.ctx, user)
	s.Require().NoError(err)
	items, err := repo.ListByUser(s.ctx, user)
	s.Require().NoError(err)
	deleted, err := repo.DeleteByUser(s.ctx, user)

	// Assert
	s.Require().NoError(err)
	s.Equal(map[uuid.UUID]struct{}{flourID: {}}, present)
	s.Len(items, 2)
	s.Equal(int64(2), deleted)
	s.Equal(int64(1), s.fx.Count(&gormRepo.ShoppingListItemModel{}, ""))
}

func TestTransactionManager(t *testing.T) {
	ctx := context.Background()

	t.Run("Error_ShouldRollBackEveryWrite", func(t *testing.T) {
		// Arrange
		db := testutils.NewTestDB(t)
		fx := testutils.NewFixture(t, db, 1)
		tm := gormRepo.NewTransactionManager(db)
		plans := gormRepo.NewMealPlanRepository(db)
		boom := stderrors.New("boom")
		user := fx.User()

		// Act
		err := tm.WithinTransaction(ctx, func(ctx context.Context) error {
			plan, err := mealplan.New(user, time.Now(), []mealplan.NewEntry{{Notes: notes("x")}})
			require.NoError(t, err)
			require.NoError(t, plans.Create(ctx, plan))
			return boom
		})

		// Assert
		assert.ErrorIs(t, err, boom)
		assert.Zero(t, fx.Count(&gormRepo.MealPlanModel{}, ""))
		assert.Zero(t, fx.Count(&gormRepo.MealPlanEntryModel{}, ""))
	})

	t.Run("NestedCall_ShouldJoinOuterTransaction", func(t *testing.T) {
		// Arrange
		db := testutils.NewTestDB(t)
		fx := testutils.NewFixture(t, db, 1)
		tm := gormRepo.NewTransactionManager(db)
		plans := gormRepo.NewMealPlanRepository(db)
		user := fx.User()

		// Act
		err := tm.WithinTransaction(ctx, func(ctx context.Context) error {
			inner := tm.WithinTransaction(ctx, func(ctx context.Context) error {
				plan, err := mealplan.New(user, time.Now(), nil)
				require.NoError(t, err)
				return plans.Create(ctx, plan)
			})
			require.NoError(t, inner)
			return stderrors.New("outer failed")
		})

		// Assert
		assert.Error(t, err)
		assert.Zero(t, fx.Count(&gormRepo.MealPlanModel{}, ""))
	})
}
