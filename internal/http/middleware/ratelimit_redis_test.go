package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestRedisLimiterNilIsPermissive(t *testing.T) {
	if NewRedisLimiter(nil, RedisLimiterOptions{}) != nil {
		t.Fatal("expected nil limiter for nil client")
	}
	var limiter *RedisLimiter
	if !limiter.Allow(context.Background(), "invite:x", 1, time.Minute) {
		t.Fatal("expected nil limiter to allow")
	}
}

func TestRedisLimiterFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })
	limiter := NewRedisLimiter(client, RedisLimiterOptions{Timeout: 200 * time.Millisecond})
	for i := 0; i < 3; i++ {
		if !limiter.Allow(context.Background(), "invite:x", 1, time.Minute) {
			t.Fatalf("expected request %d to pass while redis is down", i+1)
		}
	}
}

func TestRedisLimiterBucketKey(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })
	limiter := NewRedisLimiter(client, RedisLimiterOptions{Prefix: "test:"})
	now := time.UnixMilli(125_000)
	limiter.now = func() time.Time { return now }

	if got := limiter.bucketKey("login:1.2.3.4", time.Minute); got != "test:login:1.2.3.4:2" {
		t.Fatalf("unexpected bucket key %q", got)
	}
	now = time.UnixMilli(180_000)
	if got := limiter.bucketKey("login:1.2.3.4", time.Minute); got != "test:login:1.2.3.4:3" {
		t.Fatalf("expected next window bucket, got %q", got)
	}
}
