package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/store"
)

type storeRepository struct {
	db *DB
}

func NewStoreRepository(db *DB) store.StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) GetByID(ctx context.Context, id string) (store.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	s, ok := r.db.stores[id]
	if !ok {
		return store.Store{}, store.ErrStoreNotFound
	}
	s.Holidays = append([]store.Holiday(nil), s.Holidays...)
	return s, nil
}

func (r *storeRepository) List(ctx context.Context) ([]store.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]store.Store, 0, len(r.db.stores))
	for _, s := range r.db.stores {
		s.Holidays = append([]store.Holiday(nil), s.Holidays...)
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *storeRepository) Update(ctx context.Context, s store.Store) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.stores[s.ID]
	if !ok {
		return store.ErrStoreNotFound
	}
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = r.db.now()
	s.Holidays = append([]store.Holiday(nil), s.Holidays...)
	r.db.stores[s.ID] = s
	return nil
}
