package cache

import (
	"testing"
	"time"
)

func TestTTLCacheSetGetDelete(t *testing.T) {
	c := NewTTLCache[[]int](time.Minute, time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("empty cache returned a hit")
	}
	c.Set("k", []int{1, 2})
	got, ok := c.Get("k")
	if !ok || len(got) != 2 {
		t.Fatalf("expected hit, got %v %v", got, ok)
	}
	if c.Size() != 1 {
		t.Fatalf("size = %d, want 1", c.Size())
	}
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatalf("deleted key still present")
	}
	c.Set("a", nil)
	c.Set("b", nil)
	c.Flush()
	if c.Size() != 0 {
		t.Fatalf("flush left %d items", c.Size())
	}
}

func TestTTLCacheExpires(t *testing.T) {
	c := NewTTLCache[string](20*time.Millisecond, time.Hour)
	c.Set("k", "v")
	time.Sleep(40 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("entry should have expired")
	}
}
