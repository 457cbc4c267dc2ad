package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/menuorders-backend/pkg/redis"
)

const (
	kindAddons = "addons"
	kindZones  = "zones"
)

// cache stores catalog lists as JSON in redis. Misses and decode failures
// both report ok=false.
type cache struct {
	kv  redis.KV
	ttl time.Duration
}

func (c *cache) get(ctx context.Context, kind string, restaurantID uuid.UUID, dst any) (bool, error) {
	if c == nil || c.kv == nil {
		return false, nil
	}
	raw, err := c.kv.Get(ctx, redis.CatalogKey(kind, restaurantID.String()))
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *cache) set(ctx context.Context, kind string, restaurantID uuid.UUID, value any) error {
	if c == nil || c.kv == nil || c.ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.kv.Set(ctx, redis.CatalogKey(kind, restaurantID.String()), raw, c.ttl)
}
