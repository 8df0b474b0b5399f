package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func skipIfNoRedis(t *testing.T) {
	if os.Getenv("REDIS_TEST_ADDR") == "" {
		t.Skip("REDIS_TEST_ADDR not set, skipping Redis tests")
	}
}

func newTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	skipIfNoRedis(t)

	cache, err := NewRedisCache(&Options{
		Backend:       BackendRedis,
		RedisAddr:     os.Getenv("REDIS_TEST_ADDR"),
		RedisPassword: os.Getenv("REDIS_TEST_PASSWORD"),
		DefaultTTL:    time.Minute,
		KeyPrefix:     "metricsreport-test:",
	})
	if err != nil {
		t.Fatalf("NewRedisCache() error = %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestRedisCache_SetGet(t *testing.T) {
	cache := newTestRedis(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "test-key", []byte("test-value"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := cache.Get(ctx, "test-key")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "test-value" {
		t.Errorf("Get() = %s, want test-value", got)
	}

	if ok, _ := cache.Exists(ctx, "test-key"); !ok {
		t.Error("Exists() should be true")
	}
	_ = cache.Delete(ctx, "test-key")
}

func TestRedisCache_NotFound(t *testing.T) {
	cache := newTestRedis(t)

	if _, err := cache.Get(context.Background(), "nonexistent-key"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestRedisCache_DeleteByPattern(t *testing.T) {
	cache := newTestRedis(t)
	ctx := context.Background()

	_ = cache.Set(ctx, BuildSheetKey("h1", "Sheet 1", 0), []byte("a"), time.Minute)
	_ = cache.Set(ctx, BuildSheetKey("h2", "Sheet 5", 1), []byte("b"), time.Minute)

	n, err := cache.DeleteByPattern(ctx, SheetPattern)
	if err != nil {
		t.Fatalf("DeleteByPattern() error = %v", err)
	}
	if n < 2 {
		t.Errorf("expected at least 2 deleted, got %d", n)
	}
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	_, err := NewRedisCache(&Options{RedisAddr: "127.0.0.1:1"})
	if err == nil {
		t.Fatal("expected ping error for unreachable redis")
	}
}
