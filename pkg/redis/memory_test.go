package redis

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryExpiresKeys(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	mem.now = func() time.Time { return clock }

	if err := mem.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, err := mem.Get(ctx, "k"); err != nil || got != "v" {
		t.Fatalf("unexpected get %q err=%v", got, err)
	}

	ok, _ := mem.SetNX(ctx, "k", "other", time.Minute)
	if ok {
		t.Fatal("setnx should refuse a live key")
	}

	clock = clock.Add(time.Minute)
	if _, err := mem.Get(ctx, "k"); !errors.Is(err, Nil) {
		t.Fatalf("expected expiry, got %v", err)
	}
	ok, _ = mem.SetNX(ctx, "k", "other", 0)
	if !ok {
		t.Fatal("setnx should succeed after expiry")
	}
}

func TestMemoryImplementsKV(t *testing.T) {
	var _ KV = NewMemory()
	var _ KV = &Client{}
	var _ IdempotencyStore = NewMemory()
	var _ IdempotencyStore = &Client{}
	var _ Counter = NewMemory()
	var _ Counter = &Client{}
	var _ VersionedKV = NewMemory()
	var _ VersionedKV = &Client{}
	var _ Locker = NewMemory()
	var _ Locker = &Client{}
}

func TestMemorySetIfVersionAndDelIfEqual(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	if _, err := mem.SetIfVersion(ctx, "doc", 0, `{"version":1}`, 0); !errors.Is(err, Nil) {
		t.Fatalf("expected Nil for a missing key, got %v", err)
	}
	_ = mem.Set(ctx, "doc", `{"version":1}`, 0)
	if ok, _ := mem.SetIfVersion(ctx, "doc", 0, `{"version":1}`, 0); ok {
		t.Fatal("stale version must be refused")
	}
	if ok, _ := mem.SetIfVersion(ctx, "doc", 1, `{"version":2}`, 0); !ok {
		t.Fatal("current version must be accepted")
	}

	_ = mem.Set(ctx, "lock", "a", time.Minute)
	if ok, _ := mem.DelIfEqual(ctx, "lock", "b"); ok {
		t.Fatal("non-owner must not delete")
	}
	if ok, _ := mem.DelIfEqual(ctx, "lock", "a"); !ok {
		t.Fatal("owner delete failed")
	}
}

func TestMemoryIncrWithTTL(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	mem.now = func() time.Time { return clock }

	for want := int64(1); want <= 3; want++ {
		got, err := mem.IncrWithTTL(ctx, "c", time.Minute)
		if err != nil || got != want {
			t.Fatalf("incr: got %d err=%v, want %d", got, err, want)
		}
	}

	clock = clock.Add(time.Minute)
	if got, _ := mem.IncrWithTTL(ctx, "c", time.Minute); got != 1 {
		t.Fatalf("expected window reset, got %d", got)
	}

	_ = mem.Set(ctx, "text", "abc", 0)
	if _, err := mem.IncrWithTTL(ctx, "text", 0); err == nil {
		t.Fatal("expected error for non-counter value")
	}
}
