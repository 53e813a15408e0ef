package ratelimit

import (
	"context"
	"fmt"
	"items-api/internal/metrics"
	"time"

	"github.com/redis/go-redis/v9"
)

// The counter and its expiry are set in one script so concurrent replicas
// never see a key without a TTL.
var incrementScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RedisLimiter shares fixed windows between replicas through Redis.
type RedisLimiter struct {
	client redis.Scripter
	prefix string
	limit  int
	period time.Duration
	now    func() time.Time
}

func NewRedisLimiter(client redis.Scripter, prefix string, limit int, period time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		period: period,
		now:    time.Now,
	}
}

func (r *RedisLimiter) key(key string) string {
	return r.prefix + key
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	result, err := incrementScript.Run(ctx, r.client, []string{r.key(key)}, r.period.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("failed to increment rate limit window: %w", err)
	}

	if len(result) != 2 {
		return Decision{}, fmt.Errorf("unexpected rate limit script result: %v", result)
	}

	count, ttl := result[0], time.Duration(result[1])*time.Millisecond
	decision := newDecision(count, r.limit, r.now().Add(ttl))
	metrics.RateLimitDecisions.WithLabelValues(metrics.RateLimitStoreRedis, boolLabel(decision.Allowed)).Inc()

	return decision, nil
}
