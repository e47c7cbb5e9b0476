package healthcheck

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"
)

// DatabaseChecker pings the SQL connection pool
type DatabaseChecker struct {
	db *sql.DB
}

// NewDatabaseChecker creates a new database checker
func NewDatabaseChecker(db *sql.DB) *DatabaseChecker {
	return &DatabaseChecker{db: db}
}

// Check performs database health check
func (d *DatabaseChecker) Check(ctx context.Context) Check {
	start := time.Now()
	check := Check{Name: "database", LastChecked: start}

	err := d.db.PingContext(ctx)
	check.Duration = time.Since(start)
	if err != nil {
		check.Status = StatusUnhealthy
		check.Message = err.Error()
		return check
	}

	stats := d.db.Stats()
	check.Status = StatusHealthy
	check.Metadata = map[string]interface{}{
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"max_open":         stats.MaxOpenConnections,
	}

	if stats.MaxOpenConnections > 1 && float64(stats.InUse)/float64(stats.MaxOpenConnections) > 0.9 {
		check.Status = StatusDegraded
		check.Message = "High connection pool utilization"
	}
	return check
}

// RedisChecker checks Redis health
type RedisChecker struct {
	client redis.UniversalClient
}

// NewRedisChecker creates a new Redis checker
func NewRedisChecker(client redis.UniversalClient) *RedisChecker {
	return &RedisChecker{client: client}
}

// Check performs Redis health check
func (r *RedisChecker) Check(ctx context.Context) Check {
	start := time.Now()
	check := Check{Name: "redis", LastChecked: start}

	pong, err := r.client.Ping(ctx).Result()
	check.Duration = time.Since(start)

	switch {
	case err != nil:
		check.Status = StatusUnhealthy
		check.Message = err.Error()
	case pong != "PONG":
		check.Status = StatusUnhealthy
		check.Message = "Unexpected ping response"
	default:
		check.Status = StatusHealthy
	}
	return check
}

// CustomChecker allows for custom health check logic
type CustomChecker struct {
	name  string
	check func(ctx context.Context) (Status, string, interface{})
}

// NewCustomChecker creates a new custom checker
func NewCustomChecker(name string, check func(ctx context.Context) (Status, string, interface{})) *CustomChecker {
	return &CustomChecker{name: name, check: check}
}

// Check performs custom health check
func (c *CustomChecker) Check(ctx context.Context) Check {
	start := time.Now()

	status, message, metadata := c.check(ctx)

	return Check{
		Name:        c.name,
		Status:      status,
		Message:     message,
		Metadata:    metadata,
		LastChecked: start,
		Duration:    time.Since(start),
	}
}
