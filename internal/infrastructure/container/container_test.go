package container

import (
	"context"
	"testing"
	"time"

	gormRepo "github.com/larderly/planner/internal/infrastructure/persistence/gorm"
	"github.com/larderly/planner/internal/ports/inbound"
	"github.com/larderly/planner/internal/ports/outbound"
	"github.com/larderly/planner/pkg/healthcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func inMemoryEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PLANNER_DATABASE_PATH", ":memory:")
	t.Setenv("PLANNER_DATABASE_SEED", "true")
	t.Setenv("PLANNER_APP_LOG_LEVEL", "error")
}

func TestModule(t *testing.T) {
	t.Run("Graph_ShouldValidate", func(t *testing.T) {
		err := fx.ValidateApp(New(""), fx.NopLogger)

		assert.NoError(t, err)
	})

	t.Run("SeededApp_ShouldGenerateFromCatalog", func(t *testing.T) {
		// Arrange
		inMemoryEnv(t)

		var db *gorm.DB
		var plans inbound.MealPlanService
		app := fx.New(
			New(""),
			fx.NopLogger,
			fx.Populate(&db, &plans),
		)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		require.NoError(t, app.Start(ctx))
		defer func() { _ = app.Stop(ctx) }()

		var cook gormRepo.UserModel
		require.NoError(t, db.Where("email = ?", "cook@larderly.dev").First(&cook).Error)

		// Act
		draft, err := plans.GenerateMealPlan(ctx, inbound.GenerateMealPlanCommand{
			UserID:    cook.ID,
			Days:      3,
			StartDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		})

		// Assert
		require.NoError(t, err)
		require.Len(t, draft.Entries, 2)
		assert.Equal(t, "Tomato Basil Pasta", draft.Entries[0].Title)
		assert.Equal(t, "Spaghetti Carbonara", draft.Entries[1].Title)
	})

	t.Run("HealthCheck_ShouldCoverDatabaseAndProviders", func(t *testing.T) {
		// Arrange
		inMemoryEnv(t)

		var hc *healthcheck.HealthCheck
		app := fx.New(New(""), fx.NopLogger, fx.Populate(&hc))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		require.NoError(t, app.Start(ctx))
		defer func() { _ = app.Stop(ctx) }()

		// Act
		response := hc.Check(ctx)

		// Assert
		assert.Equal(t, healthcheck.StatusHealthy, response.Status)
		require.Len(t, response.Checks, 2)
		assert.Equal(t, "database", response.Checks[0].Name)
		assert.Equal(t, "providers", response.Checks[1].Name)
	})
}

func TestEventBus(t *testing.T) {
	t.Run("Publish_ShouldReachEverySubscriber", func(t *testing.T) {
		// Arrange
		bus := NewEventBus(zap.NewNop())
		var got []string
		for _, name := range []string{"first", "second"} {
			name := name
			require.NoError(t, bus.Subscribe(context.Background(), "topic", func(ctx context.Context, msg outbound.Message) error {
				got = append(got, name+":"+msg.Type)
				return nil
			}))
		}

		// Act
		err := bus.Publish(context.Background(), "topic", outbound.Message{Type: "PlanCreated"})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"first:PlanCreated", "second:PlanCreated"}, got)
	})

	t.Run("FailingHandler_ShouldNotStopOthers", func(t *testing.T) {
		// Arrange
		bus := NewEventBus(zap.NewNop())
		called := false
		_ = bus.Subscribe(context.Background(), "topic", func(ctx context.Context, msg outbound.Message) error {
			return assert.AnError
		})
		_ = bus.Subscribe(context.Background(), "topic", func(ctx context.Context, msg outbound.Message) error {
			called = true
			return nil
		})

		// Act
		err := bus.Publish(context.Background(), "topic", outbound.Message{})

		// Assert
		assert.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("NoSubscribers_ShouldSucceed", func(t *testing.T) {
		bus := NewEventBus(zap.NewNop())

		assert.NoError(t, bus.Publish(context.Background(), "nobody", outbound.Message{}))
	})
}
