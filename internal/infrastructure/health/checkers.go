package health

import (
	"context"

	"github.com/go-redis/redis/v8"

	"github.com/naotimes/qingque-api/internal/core/ports"
)

// redisHealthChecker wraps the redis client for health checks. Redis is the
// only stateful dependency of the gateway; the upstream game APIs are probed
// per-request and deliberately excluded from liveness.
type redisHealthChecker struct{ client *redis.Client }

func (r *redisHealthChecker) Name() string                    { return "redis" }
func (r *redisHealthChecker) Check(ctx context.Context) error { return r.client.Ping(ctx).Err() }

// NewRedisHealthChecker creates a health checker for Redis.
func NewRedisHealthChecker(client *redis.Client) ports.HealthChecker {
	return &redisHealthChecker{client: client}
}
