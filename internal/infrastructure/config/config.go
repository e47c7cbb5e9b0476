// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Planning   PlanningConfig   `mapstructure:"planning"`
	Providers  []ProviderConfig `mapstructure:"providers"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	Replicas        []string      `mapstructure:"replicas"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	LogLevel        string        `mapstructure:"log_level"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	Seed            bool          `mapstructure:"seed"`
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	Database     int           `mapstructure:"database"`
	MaxRetries   int           `mapstructure:"max_retries"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// CacheConfig selects the cache backend used for provider responses
type CacheConfig struct {
	Driver     string        `mapstructure:"driver"`
	DefaultTTL time.Duration `mapstructure:"default_ttl"`
	KeyPrefix  string        `mapstructure:"key_prefix"`
}

// PlanningConfig contains meal-plan generation limits
type PlanningConfig struct {
	MaxDays          int  `mapstructure:"max_days"`
	ExternalFallback bool `mapstructure:"external_fallback"`
}

// ProviderConfig describes one external recipe provider. Providers are
// consulted in the order they are listed.
type ProviderConfig struct {
	Name              string        `mapstructure:"name"`
	Kind              string        `mapstructure:"kind"`
	BaseURL           string        `mapstructure:"base_url"`
	Model             string        `mapstructure:"model"`
	APIKey            string        `mapstructure:"api_key"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	FailureThreshold  int           `mapstructure:"failure_threshold"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
}

// Provider kinds
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// MonitoringConfig contains monitoring configuration
type MonitoringConfig struct {
	EnableMetrics    bool    `mapstructure:"enable_metrics"`
	EnableTracing    bool    `mapstructure:"enable_tracing"`
	OTLPEndpoint     string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure     bool    `mapstructure:"otlp_insecure"`
	SamplingRate     float64 `mapstructure:"sampling_rate"`
	MetricsNamespace string  `mapstructure:"metrics_namespace"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := newViper(configPath)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return decode(v)
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/planner")
	}

	// Enable environment variable override
	v.SetEnvPrefix("PLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyProviderDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "planner")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "planner.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "planner")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.seed", false)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")

	// Cache defaults
	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.default_ttl", "1h")
	v.SetDefault("cache.key_prefix", "planner:")

	// Planning defaults
	v.SetDefault("planning.max_days", 14)
	v.SetDefault("planning.external_fallback", true)

	// Monitoring defaults
	v.SetDefault("monitoring.enable_metrics", true)
	v.SetDefault("monitoring.enable_tracing", false)
	v.SetDefault("monitoring.otlp_endpoint", "localhost:4318")
	v.SetDefault("monitoring.otlp_insecure", true)
	v.SetDefault("monitoring.sampling_rate", 0.1)
	v.SetDefault("monitoring.metrics_namespace", "planner")
}

func (c *Config) applyProviderDefaults() {
	for i := range c.Providers {
		p := &c.Providers[i]
		if p.Name == "" {
			p.Name = p.Kind
		}
		if p.Timeout <= 0 {
			p.Timeout = 30 * time.Second
		}
		if p.FailureThreshold <= 0 {
			p.FailureThreshold = 5
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}

	if c.Database.Driver == "postgres" && c.Database.Database == "" {
		return fmt.Errorf("database.database is required")
	}

	switch c.Cache.Driver {
	case "memory", "redis":
	default:
		return fmt.Errorf("cache.driver must be memory or redis, got %q", c.Cache.Driver)
	}

	if err := c.Planning.Validate(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Providers))
	for i, p := range c.Providers {
		switch p.Kind {
		case ProviderOllama, ProviderOpenAI, ProviderGemini:
		default:
			return fmt.Errorf("providers[%d].kind %q is not supported", i, p.Kind)
		}
		if seen[p.Name] {
			return fmt.Errorf("providers[%d].name %q is duplicated", i, p.Name)
		}
		seen[p.Name] = true
		if p.RequestsPerMinute < 0 {
			return fmt.Errorf("providers[%d].requests_per_minute must not be negative", i)
		}
	}

	return nil
}

// Validate checks the planning limits
func (p PlanningConfig) Validate() error {
	if p.MaxDays < 1 {
		return fmt.Errorf("planning.max_days must be at least 1")
	}
	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	return c.Database.DSN(c.Database.Host)
}

// DSN returns the connection string for host using the shared credentials
func (d DatabaseConfig) DSN(host string) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host,
		d.Port,
		d.Username,
		d.Password,
		d.Database,
		d.SSLMode,
	)
}

// URL returns the postgres URL form used by the migration driver
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.Username,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
		d.SSLMode,
	)
}

// RedisAddr returns host:port for the Redis client
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
