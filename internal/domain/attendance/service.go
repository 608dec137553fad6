package attendance

import (
	"context"
	"time"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn records the calling staff member's arrival after geofence and lateness checks
	CheckIn(ctx context.Context, req CheckInRequest) (CheckInResponse, error)

	// CheckOut closes the calling staff member's record for today
	CheckOut(ctx context.Context) (AttendanceResponse, error)

	GetMyAttendance(ctx context.Context, filter MonthFilter) (MonthAttendanceResponse, error)

	// MarkAttendance lets an admin record a status for a staff member and date
	MarkAttendance(ctx context.Context, req MarkAttendanceRequest) (AttendanceResponse, error)

	// CorrectStatus changes an ABSENT record to another status
	CorrectStatus(ctx context.Context, req CorrectStatusRequest) (AttendanceResponse, error)

	ListStoreDay(ctx context.Context, storeID string, date string) ([]AttendanceResponse, error)

	// AutoCloseOpen checks out records left open on past days at their store's shift end
	AutoCloseOpen(ctx context.Context, now time.Time) (int, error)

	// MarkAbsent records ABSENT for active staff with no record once their store's shift has ended
	MarkAbsent(ctx context.Context, now time.Time) (int, error)
}
