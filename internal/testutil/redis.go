package testutil

import (
	"context"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// TestRedisAddr returns the address of the local test Redis. Defaults to
// port 56379 so a dev Redis on 6379 is never flushed by accident; CI sets
// TEST_REDIS_PORT explicitly.
func TestRedisAddr() string {
	host := getEnvOrDefault("TEST_REDIS_HOST", "localhost")
	port := getEnvOrDefault("TEST_REDIS_PORT", "56379")
	return net.JoinHostPort(host, port)
}

// SetupTestRedis connects to the test Redis and flushes it. The test is
// skipped when Redis is not reachable unless TEST_REDIS_REQUIRED=1.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	addr := TestRedisAddr()
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if cerr := client.Close(); cerr != nil {
			t.Logf("redis close failed: %v", cerr)
		}
		if envBool("TEST_REDIS_REQUIRED") {
			t.Fatalf("Test Redis not available at %s: %v", addr, err)
		}
		t.Skipf("Test Redis not available at %s: %v", addr, err)
	}

	client.FlushDB(ctx)
	return client
}
