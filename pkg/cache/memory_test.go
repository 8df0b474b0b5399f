package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestMemoryCache_SetGet(t *testing.T) {
	cache := NewMemoryCache(&Options{DefaultTTL: time.Minute, MaxEntries: 10})
	defer cache.Close()

	ctx := context.Background()
	value := []byte("payload")

	if err := cache.Set(ctx, "k", value, 0); err != nil {
		t.Fatalf("failed to set: %v", err)
	}

	// мутация исходного среза не должна влиять на кэш
	value[0] = 'X'

	got, err := cache.Get(ctx, "k")
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("expected payload, got %s", got)
	}

	got[0] = 'Y'
	again, _ := cache.Get(ctx, "k")
	if string(again) != "payload" {
		t.Errorf("Get should return a copy, got %s", again)
	}
}

func TestMemoryCache_GetNotFound(t *testing.T) {
	cache := NewMemoryCache(nil)
	defer cache.Close()

	if _, err := cache.Get(context.Background(), "nonexistent"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestMemoryCache_Overwrite(t *testing.T) {
	cache := NewMemoryCache(nil)
	defer cache.Close()

	ctx := context.Background()
	_ = cache.Set(ctx, "k", []byte("aaaa"), 0)
	_ = cache.Set(ctx, "k", []byte("bb"), 0)

	got, _ := cache.Get(ctx, "k")
	if string(got) != "bb" {
		t.Errorf("expected bb, got %s", got)
	}

	stats, _ := cache.Stats(ctx)
	if stats.TotalKeys != 1 || stats.MemoryBytes != 2 {
		t.Errorf("unexpected stats after overwrite: %+v", stats)
	}
}

func TestMemoryCache_DeleteAndExists(t *testing.T) {
	cache := NewMemoryCache(nil)
	defer cache.Close()

	ctx := context.Background()
	_ = cache.Set(ctx, "k", []byte("v"), 0)

	if ok, _ := cache.Exists(ctx, "k"); !ok {
		t.Error("key should exist")
	}
	if err := cache.Delete(ctx, "k"); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if ok, _ := cache.Exists(ctx, "k"); ok {
		t.Error("key should not exist after delete")
	}
	// удаление отсутствующего ключа не ошибка
	if err := cache.Delete(ctx, "k"); err != nil {
		t.Errorf("delete of missing key returned %v", err)
	}
}

func TestMemoryCache_TTL(t *testing.T) {
	cache := NewMemoryCache(&Options{MaxEntries: 10})
	defer cache.Close()

	ctx := context.Background()
	_ = cache.Set(ctx, "short", []byte("v"), 20*time.Millisecond)

	time.Sleep(40 * time.Millisecond)

	if _, err := cache.Get(ctx, "short"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected expired key, got %v", err)
	}
	if ok, _ := cache.Exists(ctx, "short"); ok {
		t.Error("expired key should not exist")
	}
}

func TestMemoryCache_LRUEviction(t *testing.T) {
	cache := NewMemoryCache(&Options{MaxEntries: 3})
	defer cache.Close()

	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		_ = cache.Set(ctx, fmt.Sprintf("key%d", i), []byte("v"), 0)
	}

	// key1 становится самым свежим
	if _, err := cache.Get(ctx, "key1"); err != nil {
		t.Fatalf("get key1: %v", err)
	}

	_ = cache.Set(ctx, "key4", []byte("v"), 0)

	if ok, _ := cache.Exists(ctx, "key2"); ok {
		t.Error("key2 should be evicted as least recently used")
	}
	for _, k := range []string{"key1", "key3", "key4"} {
		if ok, _ := cache.Exists(ctx, k); !ok {
			t.Errorf("%s should survive eviction", k)
		}
	}
}

func TestMemoryCache_DeleteByPattern(t *testing.T) {
	cache := NewMemoryCache(nil)
	defer cache.Close()

	ctx := context.Background()
	_ = cache.Set(ctx, BuildSheetKey("aa", "Sheet 1", 0), []byte("1"), 0)
	_ = cache.Set(ctx, BuildSheetKey("bb", "Sheet 4", 1), []byte("2"), 0)
	_ = cache.Set(ctx, "other:key", []byte("3"), 0)

	n, err := cache.DeleteByPattern(ctx, SheetPattern)
	if err != nil {
		t.Fatalf("DeleteByPattern: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 deleted, got %d", n)
	}
	if ok, _ := cache.Exists(ctx, "other:key"); !ok {
		t.Error("non-matching key should survive")
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	cache := NewMemoryCache(nil)
	defer cache.Close()

	ctx := context.Background()
	_ = cache.Set(ctx, "a", []byte("123"), 0)
	_, _ = cache.Get(ctx, "a")
	_, _ = cache.Get(ctx, "a")
	_, _ = cache.Get(ctx, "missing")

	stats, err := cache.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("expected 2 hits / 1 miss, got %d / %d", stats.Hits, stats.Misses)
	}
	if stats.HitRate < 0.66 || stats.HitRate > 0.67 {
		t.Errorf("unexpected hit rate %v", stats.HitRate)
	}
	if stats.MemoryBytes != 3 || stats.Backend != BackendMemory {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestMemoryCache_Close(t *testing.T) {
	cache := NewMemoryCache(nil)

	if err := cache.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// повторное закрытие безопасно
	if err := cache.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	ctx := context.Background()
	if _, err := cache.Get(ctx, "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("expected ErrCacheClosed, got %v", err)
	}
	if err := cache.Set(ctx, "k", nil, 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("expected ErrCacheClosed, got %v", err)
	}
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern string
		key     string
		want    bool
	}{
		{"*", "anything", true},
		{"sheet:*", "sheet:abc:Sheet 1:0", true},
		{"sheet:*", "other:abc", false},
		{"*:0", "sheet:abc:Sheet 1:0", true},
		{"sheet:*:1", "sheet:abc:Sheet 4:1", true},
		{"sheet:*:1", "sheet:abc:Sheet 4:0", false},
		{"exact", "exact", true},
		{"exact", "exactly", false},
		{"ab*ba", "aba", false},
	}

	for _, tt := range tests {
		if got := matchPattern(tt.pattern, tt.key); got != tt.want {
			t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.pattern, tt.key, got, tt.want)
		}
	}
}

func TestNew_Backends(t *testing.T) {
	c, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil): %v", err)
	}
	defer c.Close()

	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("expected memory cache by default, got %T", c)
	}
}
