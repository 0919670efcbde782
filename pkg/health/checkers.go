package health

import (
	"context"

	"github.com/Payphone-Digital/referral/pkg/database"
	"github.com/Payphone-Digital/referral/pkg/redis"
	"gorm.io/gorm"
)

// Pinger is anything with a context-aware liveness probe, such as the redis client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks p and reports no details.
func Ping(p Pinger) Checker {
	return CheckerFunc(func(ctx context.Context) (map[string]any, error) {
		return nil, p.Ping(ctx)
	})
}

// Redis pings the client and reports its pool counters.
func Redis(c *redis.Client) Checker {
	return CheckerFunc(func(ctx context.Context) (map[string]any, error) {
		if err := c.Ping(ctx); err != nil {
			return nil, err
		}
		stats := c.PoolStats()
		return map[string]any{
			"total_conns": stats.TotalConns,
			"idle_conns":  stats.IdleConns,
			"stale_conns": stats.StaleConns,
			"hits":        stats.Hits,
			"misses":      stats.Misses,
		}, nil
	})
}

// Database pings db and reports its pool statistics.
func Database(db *gorm.DB) Checker {
	return CheckerFunc(func(ctx context.Context) (map[string]any, error) {
		if err := database.Ping(ctx, db); err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		stats := sqlDB.Stats()
		return map[string]any{
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
			"wait_count":       stats.WaitCount,
		}, nil
	})
}
