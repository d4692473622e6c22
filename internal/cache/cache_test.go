// cache_test.go tests Valkey connectivity and the roll-up counts cache.
// Tests are skipped if Valkey is not available.
package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		client.Del(ctx, "counts:rollup")
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, "")
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestCountsCacheSetGetInvalidate(t *testing.T) {
	client := testValkeyClient(t)
	cc := NewCountsCache(client, 1*time.Minute)

	ctx := context.Background()

	// Miss.
	if _, ok := cc.Get(ctx); ok {
		t.Error("expected cache miss")
	}

	id := uuid.New()
	cc.Set(ctx, map[uuid.UUID]int{id: 7})

	counts, ok := cc.Get(ctx)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if counts[id] != 7 {
		t.Errorf("counts[%s] = %d, want 7", id, counts[id])
	}

	cc.Invalidate(ctx)
	if _, ok := cc.Get(ctx); ok {
		t.Error("expected cache miss after invalidation")
	}
}

func TestCountsCacheNilIsAlwaysMiss(t *testing.T) {
	var cc *CountsCache

	ctx := context.Background()
	if _, ok := cc.Get(ctx); ok {
		t.Error("nil cache reported a hit")
	}
	// Set and Invalidate on a nil cache must not panic.
	cc.Set(ctx, map[uuid.UUID]int{uuid.New(): 1})
	cc.Invalidate(ctx)
}
