package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/menuorders-backend/pkg/config"
	"github.com/redis/go-redis/v9"
)

func TestIncrWithTTLSetsExpiryOnce(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := NewFromCmdable(mock)

	count, err := client.IncrWithTTL(ctx, CounterKey("submits"), time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 || len(mock.expireCalls) != 1 {
		t.Fatalf("expected first increment with expire, count=%d expires=%d", count, len(mock.expireCalls))
	}

	count, err = client.IncrWithTTL(ctx, CounterKey("submits"), time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 || len(mock.expireCalls) != 1 {
		t.Fatalf("expire should not be set again, count=%d expires=%d", count, len(mock.expireCalls))
	}
}

func TestSetGetSetNXDel(t *testing.T) {
	ctx := context.Background()
	client := NewFromCmdable(newMockCmdable())
	key := CheckoutSessionKey("abc")

	if err := client.Set(ctx, key, "payload", time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, err := client.Get(ctx, key)
	if err != nil || got != "payload" {
		t.Fatalf("unexpected get result %q err=%v", got, err)
	}

	ok, err := client.SetNX(ctx, key, "other", time.Minute)
	if err != nil || ok {
		t.Fatalf("expected setnx to refuse existing key, ok=%v err=%v", ok, err)
	}

	if err := client.Del(ctx, key); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, err := client.Get(ctx, key); !errors.Is(err, Nil) {
		t.Fatalf("expected Nil after delete, got %v", err)
	}
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	if err := client.Ping(context.Background()); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close on empty client should be a no-op, got %v", err)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	cases := map[string]string{
		client.IdempotencyKey("checkout_submit", "k1"): "menu:idempotency:checkout_submit:k1",
		CheckoutSessionKey("s1"):                       "menu:checkout_session:s1",
		LockKey("checkout_submit", "s1"):               "menu:lock:checkout_submit:s1",
		CatalogKey("addons", "r1"):                     "menu:catalog:addons:r1",
		CounterKey("hits"):                             "menu:counter:hits",
		LockKey("checkout_submit", " "):                "menu:lock:checkout_submit",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("unexpected key %s, want %s", got, want)
		}
	}
}

func TestOptionsFromConfig(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6380/2", PoolSize: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6380" || opts.DB != 2 || opts.PoolSize != 7 {
		t.Fatalf("unexpected options %+v", opts)
	}

	opts, err = optionsFromConfig(config.RedisConfig{Address: "cache:6379", DB: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "cache:6379" || opts.DB != 3 {
		t.Fatalf("unexpected options %+v", opts)
	}

	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url or address")
	}
}

type mockCmdable struct {
	data        map[string]string
	incr        map[string]int64
	expireCalls []expireCall
}

type expireCall struct {
	key string
	ttl time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: make(map[string]string),
		incr: make(map[string]int64),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.incr[key]++
	return redis.NewIntResult(m.incr[key], nil)
}

func (m *mockCmdable) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.expireCalls = append(m.expireCalls, expireCall{key: key, ttl: expiration})
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (m *mockCmdable) Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd {
	key := keys[0]
	current, ok := m.data[key]
	switch script {
	case delIfEqualScript:
		if ok && current == fmt.Sprint(args[0]) {
			delete(m.data, key)
			return redis.NewCmdResult(int64(1), nil)
		}
		return redis.NewCmdResult(int64(0), nil)
	case setIfVersionScript:
		if !ok {
			return redis.NewCmdResult(int64(-1), nil)
		}
		var doc struct {
			Version int64 `json:"version"`
		}
		if err := json.Unmarshal([]byte(current), &doc); err != nil || doc.Version != args[0].(int64) {
			return redis.NewCmdResult(int64(0), nil)
		}
		m.data[key] = fmt.Sprint(args[1])
		return redis.NewCmdResult(int64(1), nil)
	}
	return redis.NewCmdResult(nil, errors.New("unexpected script"))
}

func TestSetIfVersion(t *testing.T) {
	ctx := context.Background()
	client := NewFromCmdable(newMockCmdable())
	key := CheckoutSessionKey("s1")

	if _, err := client.SetIfVersion(ctx, key, 0, `{"version":1}`, time.Minute); !errors.Is(err, Nil) {
		t.Fatalf("expected Nil for a missing key, got %v", err)
	}
	if err := client.Set(ctx, key, `{"version":3}`, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	ok, err := client.SetIfVersion(ctx, key, 2, `{"version":3,"stale":true}`, time.Minute)
	if err != nil || ok {
		t.Fatalf("stale version must be refused, ok=%v err=%v", ok, err)
	}
	ok, err = client.SetIfVersion(ctx, key, 3, `{"version":4}`, time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected write at current version, ok=%v err=%v", ok, err)
	}
	if got, _ := client.Get(ctx, key); got != `{"version":4}` {
		t.Fatalf("unexpected stored value %q", got)
	}
}

func TestDelIfEqual(t *testing.T) {
	ctx := context.Background()
	client := NewFromCmdable(newMockCmdable())
	key := LockKey("checkout_submit", "s1")
	if _, err := client.SetNX(ctx, key, "owner-a", time.Minute); err != nil {
		t.Fatalf("setnx: %v", err)
	}

	ok, err := client.DelIfEqual(ctx, key, "owner-b")
	if err != nil || ok {
		t.Fatalf("non-owner must not delete, ok=%v err=%v", ok, err)
	}
	ok, err = client.DelIfEqual(ctx, key, "owner-a")
	if err != nil || !ok {
		t.Fatalf("owner delete failed, ok=%v err=%v", ok, err)
	}
	if _, err := client.Get(ctx, key); !errors.Is(err, Nil) {
		t.Fatalf("expected key gone, got %v", err)
	}
}
