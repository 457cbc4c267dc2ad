package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// Memory is an in-process KV with TTLs. It backs local runs without a redis
// server and the tests of packages that depend on KV.
type Memory struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

type memoryItem struct {
	value     string
	expiresAt time.Time
}

func NewMemory() *Memory {
	return &Memory{items: map[string]memoryItem{}, now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.lookup(key)
	if !ok {
		return "", Nil
	}
	return item.value, nil
}

func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = m.item(value, ttl)
	return nil
}

func (m *Memory) SetNX(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lookup(key); ok {
		return false, nil
	}
	m.items[key] = m.item(value, ttl)
	return true, nil
}

func (m *Memory) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.items, key)
	}
	return nil
}

// IncrWithTTL mirrors Client.IncrWithTTL: the TTL is set on the first
// increment only.
func (m *Memory) IncrWithTTL(_ context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.lookup(key)
	if !ok {
		m.items[key] = m.item("1", ttl)
		return 1, nil
	}
	count, err := strconv.ParseInt(item.value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("value at %q is not a counter", key)
	}
	count++
	item.value = strconv.FormatInt(count, 10)
	m.items[key] = item
	return count, nil
}

// SetIfVersion mirrors Client.SetIfVersion.
func (m *Memory) SetIfVersion(_ context.Context, key string, expected int64, value string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.lookup(key)
	if !ok {
		return false, Nil
	}
	var doc struct {
		Version int64 `json:"version"`
	}
	if err := json.Unmarshal([]byte(item.value), &doc); err != nil || doc.Version != expected {
		return false, nil
	}
	m.items[key] = m.item(value, ttl)
	return true, nil
}

// DelIfEqual mirrors Client.DelIfEqual.
func (m *Memory) DelIfEqual(_ context.Context, key, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.lookup(key)
	if !ok || item.value != value {
		return false, nil
	}
	delete(m.items, key)
	return true, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

// IdempotencyKey mirrors Client.IdempotencyKey.
func (m *Memory) IdempotencyKey(scope, id string) string {
	return buildKey(idempotencyPrefix, scope, id)
}

func (m *Memory) lookup(key string) (memoryItem, bool) {
	item, ok := m.items[key]
	if !ok {
		return memoryItem{}, false
	}
	if !item.expiresAt.IsZero() && !m.now().Before(item.expiresAt) {
		delete(m.items, key)
		return memoryItem{}, false
	}
	return item, true
}

func (m *Memory) item(value any, ttl time.Duration) memoryItem {
	var str string
	switch v := value.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		str = fmt.Sprint(v)
	}
	item := memoryItem{value: str}
	if ttl > 0 {
		item.expiresAt = m.now().Add(ttl)
	}
	return item
}
