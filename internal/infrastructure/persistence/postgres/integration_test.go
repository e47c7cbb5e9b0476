//go:build integration
// +build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/larderly/planner/internal/domain/mealplan"
	"github.com/larderly/planner/internal/infrastructure/config"
	gormRepo "github.com/larderly/planner/internal/infrastructure/persistence/gorm"
	"github.com/larderly/planner/internal/infrastructure/persistence/migrations"
	"github.com/larderly/planner/internal/infrastructure/persistence/postgres"
	"github.com/larderly/planner/internal/testutils"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostgresIntegrationSuite runs the repositories against a real PostgreSQL
type PostgresIntegrationSuite struct {
	suite.Suite

	ctx       context.Context
	container testcontainers.Container
	cfg       config.DatabaseConfig
	db        *gorm.DB
	logger    *zap.Logger
}

func TestPostgresIntegration(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = zap.NewNop()

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       "planner_test",
				"POSTGRES_USER":     "planner",
				"POSTGRES_PASSWORD": "planner",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	s.Require().NoError(err, "Failed to start postgres container")
	s.container = container

	host, err := container.Host(s.ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(s.ctx, "5432/tcp")
	s.Require().NoError(err)

	s.cfg = config.DatabaseConfig{
		Driver:   "postgres",
		Host:     host,
		Port:     port.Int(),
		Database: "planner_test",
		Username: "planner",
		Password: "planner",
		SSLMode:  "disable",
		LogLevel: "silent",
	}

	s.Require().NoError(migrations.UpTo(s.cfg.URL(), s.cfg.Database, s.logger))

	s.db, err = postgres.Open(s.cfg, s.logger)
	s.Require().NoError(err)
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) TestMigrations_ShouldBeAtLatestVersion() {
	db, err := migrations.OpenDB(s.cfg.URL())
	s.Require().NoError(err)

	m, err := migrations.New(db, s.cfg.Database, s.logger)
	s.Require().NoError(err)
	defer func() { _ = m.Close() }()

	version, dirty, err := m.Version()
	s.Require().NoError(err)
	s.False(dirty)
	s.Equal(uint(2), version)

	s.NoError(m.Up(), "re-running migrations should be a no-op")
}

func (s *PostgresIntegrationSuite) TestPgxReaders_ShouldMatchGormRepositories() {
	// Arrange
	fx := testutils.NewFixture(s.T(), s.db, 5)
	user := fx.User()
	produce := fx.Category("Produce " + uuid.NewString()[:8])
	leek := fx.Food("leek", &produce)
	salt := fx.Food("salt", nil)
	first := fx.PantryItem(user, leek, 2)
	second := fx.PantryItem(user, salt, 1)

	pool, err := postgres.NewPool(s.ctx, s.cfg)
	s.Require().NoError(err)
	defer pool.Close()

	users := postgres.NewUserRepository(pool, s.logger)
	reader := postgres.NewPantryReader(pool, s.logger)

	// Act
	exists, err := users.Exists(s.ctx, user)
	s.Require().NoError(err)
	missing, err := users.Exists(s.ctx, uuid.New())
	s.Require().NoError(err)
	snapshot, err := reader.GetPantryItems(s.ctx, user)
	s.Require().NoError(err)
	viaGorm, err := gormRepo.NewPantryRepository(s.db).GetPantryItems(s.ctx, user)
	s.Require().NoError(err)

	// Assert
	s.True(exists)
	s.False(missing)
	s.Require().Len(snapshot, 2)
	s.Equal(first, snapshot[0].ID)
	s.Equal(second, snapshot[1].ID)
	s.Equal(produce, *snapshot[0].Food.CategoryID)
	s.Nil(snapshot[1].Food.Category)
	s.Equal(len(viaGorm), len(snapshot))
	s.Equal(viaGorm[0].FoodID, snapshot[0].FoodID)
}

func (s *PostgresIntegrationSuite) TestMealPlanRepository_SaveShouldUpsertOnPostgres() {
	// Arrange
	fx := testutils.NewFixture(s.T(), s.db, 6)
	repo := gormRepo.NewMealPlanRepository(s.db)
	tm := gormRepo.NewTransactionManager(s.db)
	user := fx.User()
	soup := fx.Recipe(user, "Soup", fx.Food("", nil))

	a, b := "a", "b"
	plan, err := mealplan.New(user, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), []mealplan.NewEntry{
		{Notes: &a},
		{RecipeID: &soup},
	})
	s.Require().NoError(err)
	s.Require().NoError(repo.Create(s.ctx, plan))
	kept := plan.Entries()[1].ID

	// Act
	err = tm.WithinTransaction(s.ctx, func(ctx context.Context) error {
		loaded, err := repo.FindByID(ctx, plan.ID())
		if err != nil {
			return err
		}
		if _, err := loaded.Reconcile(loaded.StartDate(), []mealplan.DesiredEntry{
			{ID: &kept, RecipeID: &soup, Notes: &b},
			{Notes: &a},
		}); err != nil {
			return err
		}
		return repo.Save(ctx, loaded)
	})

	// Assert
	s.Require().NoError(err)
	reloaded, err := repo.FindWithRecipes(s.ctx, plan.ID())
	s.Require().NoError(err)
	entries := reloaded.Entries()
	s.Require().Len(entries, 2)
	s.Equal(kept, entries[0].ID)
	s.Equal("b", *entries[0].Notes)
	s.Equal("Soup", entries[0].Recipe.Title)
	s.Equal("a", *entries[1].Notes)
}
