// Package cache decorates repositories with a read-through cache.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/store"
)

// Cache is the subset of the Redis client the decorators need.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

const storeKeyPrefix = "store:"

type storeRepository struct {
	next  store.StoreRepository
	cache Cache
	ttl   time.Duration
}

// NewStoreRepository caches store lookups by id for ttl. Updates invalidate the entry.
func NewStoreRepository(next store.StoreRepository, cache Cache, ttl time.Duration) store.StoreRepository {
	return &storeRepository{next: next, cache: cache, ttl: ttl}
}

func (r *storeRepository) GetByID(ctx context.Context, id string) (store.Store, error) {
	key := storeKeyPrefix + id

	if raw, ok, err := r.cache.Get(ctx, key); err != nil {
		slog.Warn("Store cache read failed", "store_id", id, "error", err)
	} else if ok {
		var s store.Store
		if err := json.Unmarshal(raw, &s); err == nil {
			return s, nil
		}
		slog.Warn("Discarding unreadable cached store", "store_id", id)
	}

	s, err := r.next.GetByID(ctx, id)
	if err != nil {
		return store.Store{}, err
	}

	if raw, err := json.Marshal(s); err == nil {
		if err := r.cache.Set(ctx, key, raw, r.ttl); err != nil {
			slog.Warn("Store cache write failed", "store_id", id, "error", err)
		}
	}
	return s, nil
}

func (r *storeRepository) List(ctx context.Context) ([]store.Store, error) {
	return r.next.List(ctx)
}

func (r *storeRepository) Update(ctx context.Context, s store.Store) error {
	if err := r.next.Update(ctx, s); err != nil {
		return err
	}
	if err := r.cache.Delete(ctx, storeKeyPrefix+s.ID); err != nil {
		slog.Warn("Store cache invalidation failed", "store_id", s.ID, "error", err)
	}
	return nil
}
