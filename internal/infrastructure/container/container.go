// Package container provides dependency injection using Uber FX
// This implements the Dependency Inversion Principle from SOLID
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/larderly/planner/internal/application/events"
	pantryapp "github.com/larderly/planner/internal/application/pantry"
	"github.com/larderly/planner/internal/application/planning"
	"github.com/larderly/planner/internal/application/recipe"
	"github.com/larderly/planner/internal/application/shopping"
	"github.com/larderly/planner/internal/application/validation"
	"github.com/larderly/planner/internal/infrastructure/ai"
	"github.com/larderly/planner/internal/infrastructure/config"
	"github.com/larderly/planner/internal/infrastructure/monitoring"
	gormRepo "github.com/larderly/planner/internal/infrastructure/persistence/gorm"
	"github.com/larderly/planner/internal/infrastructure/persistence/memory"
	"github.com/larderly/planner/internal/infrastructure/persistence/migrations"
	"github.com/larderly/planner/internal/infrastructure/persistence/postgres"
	redisRepo "github.com/larderly/planner/internal/infrastructure/persistence/redis"
	"github.com/larderly/planner/internal/infrastructure/persistence/sqlite"
	"github.com/larderly/planner/internal/ports/inbound"
	"github.com/larderly/planner/internal/ports/outbound"
	"github.com/larderly/planner/pkg/circuitbreaker"
	"github.com/larderly/planner/pkg/healthcheck"
	"github.com/larderly/planner/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// ConfigPath is the configuration file handed to config.Load. Empty
// means the default search paths.
type ConfigPath string

// Module provides all dependency injection modules
var Module = fx.Options(
	// Infrastructure modules
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	MonitoringModule,

	// Repository modules
	RepositoryModule,

	// Planning modules
	ProviderModule,
	ServiceModule,

	// Event modules
	EventModule,

	// Lifecycle hooks
	LifecycleModule,
)

// New returns the full application graph for the given config file
func New(configPath string) fx.Option {
	return fx.Options(
		fx.Supply(ConfigPath(configPath)),
		Module,
	)
}

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func(path ConfigPath) (*config.Config, error) {
		return config.Load(string(path))
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides database connections
var DatabaseModule = fx.Provide(
	NewDatabase,
	NewReadModels,
)

// NewDatabase opens the configured store and optionally seeds demo data
func NewDatabase(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgres.Open(cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := migrations.UpTo(cfg.Database.URL(), cfg.Database.Database, log); err != nil {
				return nil, err
			}
		}
	default:
		db, err = sqlite.SetupDatabase(cfg.Database.Path, gormLogLevel(cfg.Database.LogLevel))
		if err != nil {
			return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}
		log.Info("Connected to SQLite database",
			zap.String("path", cfg.Database.Path),
			zap.Bool("in_memory", cfg.Database.Path == "" || cfg.Database.Path == ":memory:"),
		)
	}

	if cfg.Database.Seed {
		seed, err := sqlite.SeedDatabase(db)
		if err != nil {
			log.Warn("Failed to seed database", zap.Error(err))
		} else if seed != nil {
			log.Info("Seeded demo data",
				zap.String("chef_id", seed.ChefID.String()),
				zap.String("home_cook_id", seed.HomeCookID.String()),
			)
		}
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

// ReadModels are the read paths the planner hits on every generation.
// On PostgreSQL they run as hand-written pgx queries.
type ReadModels struct {
	fx.Out

	Users  outbound.UserRepository
	Pantry outbound.PantryReader
}

// NewReadModels picks pgx readers for PostgreSQL and GORM readers otherwise
func NewReadModels(lc fx.Lifecycle, cfg *config.Config, db *gorm.DB, log *zap.Logger) (ReadModels, error) {
	if cfg.Database.Driver != "postgres" {
		return ReadModels{
			Users:  gormRepo.NewUserRepository(db),
			Pantry: gormRepo.NewPantryRepository(db),
		}, nil
	}

	pool, err := postgres.NewPool(context.Background(), cfg.Database)
	if err != nil {
		return ReadModels{}, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			pool.Close()
			return nil
		},
	})

	return ReadModels{
		Users:  postgres.NewUserRepository(pool, log),
		Pantry: postgres.NewPantryReader(pool, log),
	}, nil
}

func gormLogLevel(level string) gormLogger.LogLevel {
	switch level {
	case "debug", "info":
		return gormLogger.Info
	case "warn":
		return gormLogger.Warn
	case "error":
		return gormLogger.Error
	default:
		return gormLogger.Silent
	}
}

// CacheModule provides caching
var CacheModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, hc *healthcheck.HealthCheck, log *zap.Logger) (outbound.CacheRepository, error) {
		if cfg.Cache.Driver == "redis" {
			client, err := redisRepo.NewClient(cfg, log)
			if err != nil {
				return nil, err
			}
			hc.Register("redis", healthcheck.NewRedisChecker(client))
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					return client.Close()
				},
			})
			return redisRepo.NewCacheRepository(client, cfg.Cache.KeyPrefix, log), nil
		}

		log.Info("Using in-memory cache")
		cache := memory.NewCacheRepository(time.Minute)
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				cache.Close()
				return nil
			},
		})
		return cache, nil
	},
)

// MonitoringModule provides metrics and tracing
var MonitoringModule = fx.Provide(
	func() *prometheus.Registry {
		return prometheus.NewRegistry()
	},
	func(cfg *config.Config, log *zap.Logger) *healthcheck.HealthCheck {
		return healthcheck.New(cfg.App.Version, log)
	},
	func(cfg *config.Config, reg *prometheus.Registry) outbound.PlanningMetrics {
		if !cfg.Monitoring.EnableMetrics {
			return nil
		}
		return monitoring.NewPlannerMetrics(reg, cfg.Monitoring.MetricsNamespace)
	},
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
		tp, err := monitoring.NewTracingProvider(context.Background(), monitoring.TracingConfig{
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			Endpoint:       cfg.Monitoring.OTLPEndpoint,
			Insecure:       cfg.Monitoring.OTLPInsecure,
			SamplingRate:   cfg.Monitoring.SamplingRate,
			Enabled:        cfg.Monitoring.EnableTracing,
		}, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: tp.Shutdown})
		return tp, nil
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormRepo.NewTransactionManager,
	gormRepo.NewPantryRepository,
	gormRepo.NewFoodRepository,
	gormRepo.NewRecipeRepository,
	gormRepo.NewMealPlanRepository,
	gormRepo.NewShoppingListRepository,
	func(repo outbound.RecipeRepository) outbound.RecipeReader {
		return repo
	},
)

// ProviderModule provides the ordered external recipe providers
var ProviderModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, cache outbound.CacheRepository, log *zap.Logger) (*ai.Registry, error) {
		registry, err := ai.NewRegistry(context.Background(), cfg.Providers, cache, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return registry.Close()
			},
		})
		return registry, nil
	},
	func(registry *ai.Registry) []outbound.RecipeProvider {
		return registry.Providers()
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	validation.New,
	func(cfg *config.Config) *planning.Limits {
		return planning.NewLimits(cfg.Planning.MaxDays, cfg.Planning.ExternalFallback)
	},
	planning.NewSelector,
	planning.NewOrchestrator,
	func(
		users outbound.UserRepository,
		recipes outbound.RecipeReader,
		pantryReader outbound.PantryReader,
		plans outbound.MealPlanRepository,
		tx outbound.TransactionManager,
		selector *planning.Selector,
		orchestrator *planning.Orchestrator,
		limits *planning.Limits,
		v *validation.Validator,
		publisher *events.Publisher,
		metrics outbound.PlanningMetrics,
		log *zap.Logger,
	) inbound.MealPlanService {
		return planning.NewMealPlanService(planning.Dependencies{
			Users:        users,
			Recipes:      recipes,
			Pantry:       pantryReader,
			Plans:        plans,
			Transactions: tx,
			Selector:     selector,
			Orchestrator: orchestrator,
			Limits:       limits,
			Validator:    v,
			Events:       publisher,
			Metrics:      metrics,
		}, log)
	},
	shopping.NewShoppingListService,
	pantryapp.NewFoodResolver,
	func(
		users outbound.UserRepository,
		items outbound.PantryRepository,
		resolver *pantryapp.FoodResolver,
		tx outbound.TransactionManager,
		log *zap.Logger,
	) inbound.PantryService {
		return pantryapp.NewService(users, items, resolver, tx, log)
	},
	recipe.NewRecipeService,
)

// EventModule provides event handling
var EventModule = fx.Provide(
	NewEventBus,
	func(bus *EventBus) outbound.MessageBus {
		return bus
	},
	events.NewPublisher,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterEventHandlers,
	RegisterHealthChecks,
	RegisterLifecycleHooks,
)

// RegisterHealthChecks adds the database and provider checks
func RegisterHealthChecks(hc *healthcheck.HealthCheck, db *gorm.DB, registry *ai.Registry) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	hc.Register("database", healthcheck.NewDatabaseChecker(sqlDB))
	hc.Register("providers", healthcheck.NewCustomChecker("providers", providerHealth(registry)))
	return nil
}

// providerHealth degrades when any provider's breaker is open
func providerHealth(registry *ai.Registry) func(context.Context) (healthcheck.Status, string, interface{}) {
	return func(context.Context) (healthcheck.Status, string, interface{}) {
		states := registry.BreakerStates()
		meta := make(map[string]string, len(states))
		open := 0
		for name, state := range states {
			meta[name] = state.String()
			if state == circuitbreaker.StateOpen {
				open++
			}
		}
		if open > 0 {
			return healthcheck.StatusDegraded, fmt.Sprintf("%d of %d providers unavailable", open, len(states)), meta
		}
		return healthcheck.StatusHealthy, "", meta
	}
}

// RegisterEventHandlers subscribes the audit log to planner events
func RegisterEventHandlers(bus *EventBus, log *zap.Logger) error {
	return bus.Subscribe(context.Background(), events.Topic, NewAuditHandler(log))
}

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	path ConfigPath,
	cfg *config.Config,
	limits *planning.Limits,
	orchestrator *planning.Orchestrator,
	log *zap.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting planner",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("database", cfg.Database.Driver),
				zap.String("cache", cfg.Cache.Driver),
				zap.Strings("providers", orchestrator.Providers()),
				zap.Int("max_days", limits.MaxDays()),
			)

			if path == "" {
				return nil
			}
			err := config.Watch(string(path), log, func(p config.PlanningConfig) {
				limits.SetMaxDays(p.MaxDays)
				limits.SetExternalFallback(p.ExternalFallback)
			})
			if err != nil {
				log.Warn("Planning limits will not hot-reload", zap.Error(err))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down planner")

			// Flush logs
			_ = log.Sync()

			return nil
		},
	})
}
