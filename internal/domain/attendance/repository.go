package attendance

import (
	"context"
)

// AttendanceRepository defines data access methods for attendance records.
// Dates are ISO calendar dates in the store's timezone.
type AttendanceRepository interface {
	// Create inserts a new record. Returns ErrAlreadyMarked if the staff member already has one for the date.
	Create(ctx context.Context, a Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByStaffAndDate returns nil when no record exists.
	GetByStaffAndDate(ctx context.Context, staffID string, date string) (*Attendance, error)

	GetByStaffAndMonth(ctx context.Context, staffID string, year, month int) ([]Attendance, error)
	ListByStoreAndDate(ctx context.Context, storeID string, date string) ([]Attendance, error)

	// ListOpenBefore returns records checked in but not checked out on days before date.
	ListOpenBefore(ctx context.Context, date string) ([]Attendance, error)

	// Update writes a only if the stored version still equals a.Version, and returns the record
	// with its new version. Returns ErrConcurrentUpdate otherwise.
	Update(ctx context.Context, a Attendance) (Attendance, error)
}
