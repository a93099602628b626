//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestRedisCacheIntegration(t *testing.T) {
	addr := os.Getenv("BOTTLENOSE_TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := NewRedisCache(ctx, addr, "", 15)
	if err != nil {
		t.Skipf("redis not available at %s: %v", addr, err)
	}
	defer c.Close()
	c.prefix = "bottlenose-test:" + t.Name() + ":"

	testBackend(t, c)
}

func TestMongoCacheIntegration(t *testing.T) {
	uri := os.Getenv("BOTTLENOSE_TEST_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := NewMongoCache(ctx, uri, "bottlenose_test", "responses")
	if err != nil {
		t.Skipf("mongo not available at %s: %v", uri, err)
	}
	defer c.Close()
	_ = c.Clear(ctx)

	testBackend(t, c)
}
