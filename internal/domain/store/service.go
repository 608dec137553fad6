package store

import (
	"context"
	"io"
)

type StoreService interface {
	ListStores(ctx context.Context) ([]StoreResponse, error)
	GetStore(ctx context.Context, id string) (StoreResponse, error)

	// SetAttendanceFrozen toggles whether new attendance can be recorded at the store.
	SetAttendanceFrozen(ctx context.Context, req FreezeRequest) (StoreResponse, error)

	ReplaceHolidays(ctx context.Context, req UpdateHolidaysRequest) (StoreResponse, error)

	// ImportHolidays merges all-day events of an iCalendar feed into the store holiday list.
	ImportHolidays(ctx context.Context, storeID string, calendar io.Reader) (ImportHolidaysResponse, error)
}
