package middleware

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"interviewhub/internal/shared/telemetry"
)

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return redis.call("PTTL", KEYS[1]) * -1 - 1
end
return 1
`

// RedisLimiter is a fixed-window limiter shared by every API instance. A rule
// admits Burst requests per Burst/Rate seconds.
type RedisLimiter struct {
	client redis.Scripter
	script *redis.Script
	prefix string
}

func NewRedisLimiter(client redis.Scripter) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(rateLimitScript),
		prefix: "ratelimit:",
	}
}

// Allow fails open when Redis is unreachable.
func (l *RedisLimiter) Allow(ctx context.Context, key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || l.client == nil {
		return true, 0
	}
	if key == "" || rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	window := windowFor(rule)
	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()
	res, err := l.script.Run(ctx, l.client, []string{l.prefix + key}, window.Milliseconds(), rule.Burst).Int64()
	if err != nil {
		telemetry.Warn("ratelimit.redis_error", map[string]any{"error": err})
		return true, 0
	}
	if res == 1 {
		return true, 0
	}
	// Denials encode the remaining window as -(pttl+1).
	remaining := time.Duration(-res-1) * time.Millisecond
	if remaining <= 0 {
		remaining = window
	}
	return false, remaining
}

func windowFor(rule RateLimitRule) time.Duration {
	window := time.Duration(float64(rule.Burst) / rule.Rate * float64(time.Second))
	if window < time.Millisecond {
		window = time.Millisecond
	}
	return window
}
