// Package cache wraps an appointment store with a redis read-through
// cache for day listings. The week view queries six days per reload, so
// unchanged days are served from redis instead of the backing store.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/peyvandtech/darmana/internal/calendar"
	"github.com/peyvandtech/darmana/internal/model"
	"github.com/peyvandtech/darmana/internal/store"
)

const (
	keyPrefix  = "darmana:events"
	versionKey = "darmana:events:version"
)

type Store struct {
	inner store.Store
	rdb   *goredis.Client
	ttl   time.Duration
}

var _ store.Store = (*Store)(nil)

func New(inner store.Store, rdb *goredis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Store{inner: inner, rdb: rdb, ttl: ttl}
}

// ListByDate serves unfiltered day listings from redis when possible.
// Filtered queries bypass the cache: the filter space is unbounded and
// the default (unrestricted) view is the hot path.
func (s *Store) ListByDate(ctx context.Context, date time.Time, f model.EventFilters) ([]model.Event, error) {
	if !f.IsDefault() {
		return s.inner.ListByDate(ctx, date, f)
	}

	key, err := s.dayKey(ctx, date)
	if err == nil {
		if cached, hit := s.get(ctx, key); hit {
			return cached, nil
		}
	}

	events, err := s.inner.ListByDate(ctx, date, f)
	if err != nil {
		return nil, err
	}

	if key != "" {
		s.set(ctx, key, events)
	}
	return events, nil
}

func (s *Store) Create(ctx context.Context, spec model.Spec) (uuid.UUID, error) {
	id, err := s.inner.Create(ctx, spec)
	if err == nil {
		s.invalidate(ctx)
	}
	return id, err
}

func (s *Store) Update(ctx context.Context, id uuid.UUID, p model.Patch) (model.Event, error) {
	ev, err := s.inner.Update(ctx, id, p)
	if err == nil {
		s.invalidate(ctx)
	}
	return ev, err
}

func (s *Store) ChangeStatus(ctx context.Context, id uuid.UUID, next model.Status) (model.Event, error) {
	ev, err := s.inner.ChangeStatus(ctx, id, next)
	if err == nil {
		s.invalidate(ctx)
	}
	return ev, err
}

// dayKey builds a versioned cache key. Every write bumps the version,
// which orphans all previous day keys at once; the TTL reclaims them.
func (s *Store) dayKey(ctx context.Context, date time.Time) (string, error) {
	ver, err := s.rdb.Get(ctx, versionKey).Int64()
	if err != nil && err != goredis.Nil {
		return "", err
	}
	return fmt.Sprintf("%s:v%d:%s", keyPrefix, ver, calendar.DateKey(date)), nil
}

func (s *Store) get(ctx context.Context, key string) ([]model.Event, bool) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var events []model.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		slog.Warn("dropping corrupt cache entry", "key", key, "error", err)
		s.rdb.Del(ctx, key)
		return nil, false
	}
	return events, true
}

func (s *Store) set(ctx context.Context, key string, events []model.Event) {
	raw, err := json.Marshal(events)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		slog.Debug("cache set failed", "key", key, "error", err)
	}
}

func (s *Store) invalidate(ctx context.Context) {
	if err := s.rdb.Incr(ctx, versionKey).Err(); err != nil {
		slog.Debug("cache invalidation failed", "error", err)
	}
}
