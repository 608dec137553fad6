package store

import "context"

type StoreRepository interface {
	GetByID(ctx context.Context, id string) (Store, error)
	List(ctx context.Context) ([]Store, error)

	// Update replaces the mutable fields (holidays, frozen flag, shift, geofence, overrides) of an existing store.
	Update(ctx context.Context, s Store) error
}
