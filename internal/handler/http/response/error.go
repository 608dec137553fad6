package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/store"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/validator"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// Checked in order; the first sentinel matched with errors.Is wins.
var errorMappings = []errorMapping{
	// Auth
	{user.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHORIZED"},
	{user.ErrInvalidClaims, http.StatusUnauthorized, "INVALID_TOKEN"},
	{user.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},

	// Not found
	{user.ErrStaffNotFound, http.StatusNotFound, "STAFF_NOT_FOUND"},
	{store.ErrStoreNotFound, http.StatusNotFound, "STORE_NOT_FOUND"},
	{attendance.ErrAttendanceNotFound, http.StatusNotFound, "ATTENDANCE_NOT_FOUND"},
	{leave.ErrLeaveRequestNotFound, http.StatusNotFound, "LEAVE_REQUEST_NOT_FOUND"},

	// Attendance
	{attendance.ErrOutOfRange, http.StatusBadRequest, "OUT_OF_RANGE"},
	{attendance.ErrLocationRequired, http.StatusBadRequest, "LOCATION_REQUIRED"},
	{attendance.ErrStoreFrozen, http.StatusBadRequest, "ATTENDANCE_FROZEN"},
	{attendance.ErrNotCheckedIn, http.StatusBadRequest, "NOT_CHECKED_IN"},
	{attendance.ErrInvalidTransition, http.StatusBadRequest, "INVALID_TRANSITION"},
	{attendance.ErrInvalidStatus, http.StatusBadRequest, "INVALID_STATUS"},
	{attendance.ErrAlreadyMarked, http.StatusConflict, "ALREADY_MARKED"},
	{attendance.ErrAlreadyCheckedOut, http.StatusConflict, "ALREADY_CHECKED_OUT"},
	{attendance.ErrConcurrentUpdate, http.StatusConflict, "CONCURRENT_UPDATE"},

	// Leave
	{leave.ErrInvalidDate, http.StatusBadRequest, "INVALID_LEAVE_DATE"},
	{leave.ErrQuotaExceeded, http.StatusBadRequest, "LEAVE_QUOTA_EXCEEDED"},
	{leave.ErrDuplicateRequest, http.StatusConflict, "DUPLICATE_LEAVE_REQUEST"},
	{leave.ErrLeaveAlreadyProcessed, http.StatusConflict, "LEAVE_ALREADY_PROCESSED"},

	// Payroll
	{payroll.ErrNonComputable, http.StatusBadRequest, "SALARY_NON_COMPUTABLE"},
	{payroll.ErrInvalidPeriod, http.StatusBadRequest, "INVALID_PERIOD"},
	{payroll.ErrAlreadyLocked, http.StatusConflict, "SALARY_ALREADY_LOCKED"},
	{payroll.ErrAdvancesChanged, http.StatusConflict, "ADVANCES_CHANGED"},

	// Store
	{store.ErrInvalidCalendar, http.StatusBadRequest, "INVALID_CALENDAR"},
	{store.ErrNoHolidaysInInput, http.StatusBadRequest, "NO_HOLIDAYS_IN_CALENDAR"},
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			Fail(w, m.status, m.code, m.err.Error())
			return
		}
	}

	slog.Error("Unhandled error", "error", err)
	InternalServerError(w, "An unexpected error occurred")
}
