package user

import (
	"context"
)

type StaffRepository interface {
	GetByID(ctx context.Context, id string) (StaffProfile, error)

	// ListActiveByStore returns staff with status active or on_notice.
	ListActiveByStore(ctx context.Context, storeID string) ([]StaffProfile, error)
}
