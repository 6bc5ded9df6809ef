package middleware

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// windowCounterScript counts a hit in the current window bucket and returns the
// running total. Buckets missing a TTL get one.
const windowCounterScript = `
local hits = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return hits
`

const (
	defaultRedisKeyPrefix = "talentx:ratelimit:"
	defaultRedisTimeout   = 250 * time.Millisecond
)

type RedisLimiterOptions struct {
	Prefix  string
	Timeout time.Duration
	Logger  *slog.Logger
}

// RedisLimiter counts hits per key in fixed windows shared by every API process.
// When Redis cannot answer the request is allowed.
type RedisLimiter struct {
	client  redis.UniversalClient
	counter *redis.Script
	prefix  string
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

func NewRedisLimiter(client redis.UniversalClient, opts RedisLimiterOptions) *RedisLimiter {
	if client == nil {
		return nil
	}
	if opts.Prefix == "" {
		opts.Prefix = defaultRedisKeyPrefix
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultRedisTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &RedisLimiter{
		client:  client,
		counter: redis.NewScript(windowCounterScript),
		prefix:  opts.Prefix,
		timeout: opts.Timeout,
		logger:  opts.Logger,
		now:     time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	if l == nil || key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	bucketKey := l.bucketKey(key, window)
	hits, err := l.counter.Run(ctx, l.client, []string{bucketKey}, max(window.Milliseconds(), 1)).Int64()
	if err != nil {
		l.logger.WarnContext(ctx, "redis rate limit unavailable, allowing request",
			slog.String("key", key), slog.String("error", err.Error()))
		return true
	}
	return hits <= int64(limit)
}

// bucketKey names the counter for the window that contains now.
func (l *RedisLimiter) bucketKey(key string, window time.Duration) string {
	bucket := l.now().UnixMilli() / max(window.Milliseconds(), 1)
	return l.prefix + key + ":" + strconv.FormatInt(bucket, 10)
}
