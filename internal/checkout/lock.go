package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/menuorders-backend/pkg/redis"
)

const (
	submitLockScope      = "checkout_submit"
	defaultSubmitLockTTL = 30 * time.Second
)

// submitLock keeps a second submit of the same session out while one is in
// flight, across API instances. The token is random per acquisition so an
// expired holder cannot free a lock that someone else took over.
type submitLock struct {
	locks redis.Locker
	key   string
	ttl   time.Duration
	token string
}

func newSubmitLock(locks redis.Locker, sessionID uuid.UUID, ttl time.Duration) *submitLock {
	if ttl <= 0 {
		ttl = defaultSubmitLockTTL
	}
	return &submitLock{locks: locks, key: redis.LockKey(submitLockScope, sessionID.String()), ttl: ttl}
}

func (l *submitLock) Acquire(ctx context.Context) (bool, error) {
	token := uuid.NewString()
	ok, err := l.locks.SetNX(ctx, l.key, token, l.ttl)
	if err != nil {
		return false, fmt.Errorf("take submit lock: %w", err)
	}
	if ok {
		l.token = token
	}
	return ok, nil
}

// Release drops the lock in one round trip, and only while this holder's
// token is still the stored one.
func (l *submitLock) Release(ctx context.Context) error {
	if l.token == "" {
		return nil
	}
	if _, err := l.locks.DelIfEqual(ctx, l.key, l.token); err != nil {
		return fmt.Errorf("release submit lock: %w", err)
	}
	l.token = ""
	return nil
}
