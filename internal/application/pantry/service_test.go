package pantry

import (
	"context"
	"testing"

	"github.com/google/uuid"
	gormRepo "github.com/larderly/planner/internal/infrastructure/persistence/gorm"
	"github.com/larderly/planner/internal/ports/inbound"
	"github.com/larderly/planner/internal/testutils"
	"github.com/larderly/planner/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setup(t *testing.T) (inbound.PantryService, *testutils.Fixture) {
	t.Helper()

	db := testutils.NewTestDB(t)
	logger := zap.NewNop()
	service := NewService(
		gormRepo.NewUserRepository(db),
		gormRepo.NewPantryRepository(db),
		NewFoodResolver(gormRepo.NewFoodRepository(db), logger),
		gormRepo.NewTransactionManager(db),
		logger,
	)
	return service, testutils.NewFixture(t, db, 11)
}

func TestService_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("ExistingFood_ShouldStockIt", func(t *testing.T) {
		// Arrange
		service, fx := setup(t)
		user := fx.User()
		milk := fx.Food("milk", nil)
		unit := "l"

		// Act
		item, err := service.AddItem(ctx, inbound.AddPantryItemCommand{
			UserID:   user,
			Food:     inbound.FoodInput{FoodID: &milk},
			Quantity: 2,
			Unit:     &unit,
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, milk, item.FoodID)
		assert.Equal(t, "milk", item.FoodName)
		assert.Equal(t, map[uuid.UUID]float64{item.ID: 2}, fx.PantryQuantities(user))
	})

	t.Run("NewFood_ShouldCreateFoodAndItemTogether", func(t *testing.T) {
		// Arrange
		service, fx := setup(t)
		user := fx.User()
		produce := fx.Category("Produce")

		// Act
		item, err := service.AddItem(ctx, inbound.AddPantryItemCommand{
			UserID: user,
			Food:   inbound.FoodInput{NewFoodName: "kohlrabi", CategoryID: &produce},
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "kohlrabi", item.FoodName)
		assert.Equal(t, int64(1), fx.Count(&gormRepo.FoodModel{}, "name = ? AND category_id = ?", "kohlrabi", produce))

		listed, err := service.ListItems(ctx, user)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, item.ID, listed[0].ID)
	})

	t.Run("UnknownCategory_ShouldRollBack", func(t *testing.T) {
		// Arrange
		service, fx := setup(t)
		missing := uuid.New()

		// Act
		_, err := service.AddItem(ctx, inbound.AddPantryItemCommand{
			UserID: fx.User(),
			Food:   inbound.FoodInput{NewFoodName: "ghost", CategoryID: &missing},
		})

		// Assert
		assert.True(t, errors.Is(err, errors.CodeValidationFailed))
		assert.Zero(t, fx.Count(&gormRepo.FoodModel{}, ""))
		assert.Zero(t, fx.Count(&gormRepo.PantryItemModel{}, ""))
	})

	t.Run("InvalidReferences_ShouldFailValidation", func(t *testing.T) {
		service, fx := setup(t)
		user := fx.User()
		existing := fx.Food("salt", nil)
		unknown := uuid.New()

		tests := []struct {
			name string
			food inbound.FoodInput
		}{
			{"Neither", inbound.FoodInput{}},
			{"Both", inbound.FoodInput{FoodID: &existing, NewFoodName: "salt"}},
			{"UnknownFood", inbound.FoodInput{FoodID: &unknown}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := service.AddItem(ctx, inbound.AddPantryItemCommand{UserID: user, Food: tt.food})

				assert.Equal(t, errors.CodeValidationFailed, errors.GetCode(err))
			})
		}
		assert.Zero(t, fx.Count(&gormRepo.PantryItemModel{}, ""))
	})

	t.Run("UnknownUser_ShouldNotCreateFood", func(t *testing.T) {
		// Arrange
		service, fx := setup(t)

		// Act
		_, err := service.AddItem(ctx, inbound.AddPantryItemCommand{
			UserID: uuid.New(),
			Food:   inbound.FoodInput{NewFoodName: "orphan"},
		})

		// Assert
		assert.True(t, errors.Is(err, errors.CodeUserNotFound))
		assert.Zero(t, fx.Count(&gormRepo.FoodModel{}, ""))
	})
}
