package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/menuorders-backend/pkg/errors"
	"github.com/angelmondragon/menuorders-backend/pkg/redis"
)

const defaultSessionTTL = 2 * time.Hour

// SessionStore persists sessions between requests. Save is optimistic: it
// fails with CONFLICT when the stored session moved past session.Version.
type SessionStore interface {
	Create(ctx context.Context, session *Session) error
	Load(ctx context.Context, id uuid.UUID) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type redisSessionStore struct {
	kv  redis.VersionedKV
	ttl time.Duration
}

// NewRedisSessionStore keeps sessions as JSON documents that expire after
// ttl without activity.
func NewRedisSessionStore(kv redis.VersionedKV, ttl time.Duration) (SessionStore, error) {
	if kv == nil {
		return nil, errors.New("session kv required")
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &redisSessionStore{kv: kv, ttl: ttl}, nil
}

func (s *redisSessionStore) Create(ctx context.Context, session *Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	ok, err := s.kv.SetNX(ctx, redis.CheckoutSessionKey(session.ID.String()), string(raw), s.ttl)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store checkout session")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeConflict, "checkout session already exists")
	}
	return nil
}

func (s *redisSessionStore) Load(ctx context.Context, id uuid.UUID) (*Session, error) {
	raw, err := s.kv.Get(ctx, redis.CheckoutSessionKey(id.String()))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load checkout session")
	}
	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode checkout session")
	}
	if session.State.Extras == nil {
		session.State.Extras = ExtrasSelection{}
	}
	return &session, nil
}

func (s *redisSessionStore) Save(ctx context.Context, session *Session) error {
	expected := session.Version
	next := *session
	next.Version = expected + 1
	raw, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	ok, err := s.kv.SetIfVersion(ctx, redis.CheckoutSessionKey(session.ID.String()), expected, string(raw), s.ttl)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store checkout session")
	}
	if !ok {
		return errSessionChanged()
	}
	session.Version = next.Version
	return nil
}

func errSessionChanged() error {
	return pkgerrors.New(pkgerrors.CodeConflict, "checkout was changed by another request, reload and try again")
}

func (s *redisSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.kv.Del(ctx, redis.CheckoutSessionKey(id.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete checkout session")
	}
	return nil
}
