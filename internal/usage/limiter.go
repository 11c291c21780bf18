package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/neoncare/neoncare-platform/pkg/logging"
)

// Limiter enforces the free-tier daily tip quota in Redis. Premium users
// bypass it entirely. Redis being unreachable fails open: the quota is a
// soft product limit, not a safety control.
type Limiter struct {
	rdb    *redis.Client
	perDay int
	logger *logging.Logger
}

// NewLimiter creates a quota limiter allowing perDay free tips per user.
func NewLimiter(rdb *redis.Client, perDay int, logger *logging.Logger) *Limiter {
	if logger == nil {
		logger = logging.Default()
	}
	if perDay <= 0 {
		perDay = 5
	}
	return &Limiter{rdb: rdb, perDay: perDay, logger: logger}
}

// Allow records one tip request and reports whether it is within quota.
func (l *Limiter) Allow(ctx context.Context, userID uuid.UUID, premium bool) bool {
	if premium || l == nil || l.rdb == nil {
		return true
	}

	key := fmt.Sprintf("tips:quota:%s:%s", userID, time.Now().UTC().Format("2006-01-02"))
	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("quota check failed, allowing request", "error", err, "user_id", userID)
		return true
	}
	if count == 1 {
		// First hit of the day; the key can expire once the day is over.
		if err := l.rdb.Expire(ctx, key, 24*time.Hour).Err(); err != nil {
			l.logger.Warn("quota expire failed", "error", err, "key", key)
		}
	}
	return count <= int64(l.perDay)
}
