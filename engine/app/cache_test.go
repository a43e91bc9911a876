package engine

import (
	"testing"
	"time"
)

func TestTimedCacheExpiry(t *testing.T) {
	now := time.Unix(1000, 0)
	cache := NewTimedCache[string]()
	cache.now = func() time.Time { return now }

	cache.Set("key", "value", 10*time.Second)
	if v, ok := cache.Get("key"); !ok || v != "value" {
		t.Fatalf("Get = %q, %v; want value, true", v, ok)
	}

	now = now.Add(9 * time.Second)
	if _, ok := cache.Get("key"); !ok {
		t.Fatal("entry expired too early")
	}

	now = now.Add(2 * time.Second)
	if _, ok := cache.Get("key"); ok {
		t.Fatal("entry should have expired")
	}
}

func TestTimedCacheDelete(t *testing.T) {
	cache := NewTimedCache[int]()
	cache.Set("key", 42, time.Minute)
	cache.Delete("key")
	if _, ok := cache.Get("key"); ok {
		t.Fatal("deleted entry still present")
	}
}

func TestTimedCacheMissingKey(t *testing.T) {
	cache := NewTimedCache[int]()
	if v, ok := cache.Get("absent"); ok || v != 0 {
		t.Fatalf("Get(absent) = %d, %v", v, ok)
	}
}
