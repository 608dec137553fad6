package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/leave"
)

func request(date string, status leave.LeaveRequestStatus) leave.LeaveRequest {
	return leave.LeaveRequest{StaffID: "staff-1", StoreID: "store-1", LeaveDate: date, Status: status}
}

func TestApplyLeave(t *testing.T) {
	const today = "2026-03-10"
	app := Application{StaffID: "staff-1", StoreID: "store-1", LeaveDate: "2026-03-20", Reason: "wedding"}

	t.Run("future date with no history", func(t *testing.T) {
		req, err := ApplyLeave(app, nil, 2, today)
		require.NoError(t, err)
		assert.Equal(t, leave.LeaveRequestStatusPending, req.Status)
		assert.Equal(t, leave.LeaveTypePaid, req.Type)
		assert.Equal(t, "2026-03-20", req.LeaveDate)
		assert.Equal(t, "wedding", req.Reason)
	})

	t.Run("today and past dates", func(t *testing.T) {
		for _, date := range []string{today, "2026-03-09", "2025-12-31"} {
			a := app
			a.LeaveDate = date
			_, err := ApplyLeave(a, nil, 2, today)
			assert.ErrorIs(t, err, leave.ErrInvalidDate, date)
		}
	})

	t.Run("malformed date", func(t *testing.T) {
		a := app
		a.LeaveDate = "2026-3-20"
		_, err := ApplyLeave(a, nil, 2, today)
		assert.ErrorIs(t, err, leave.ErrInvalidDate)
	})

	t.Run("two approved in the month", func(t *testing.T) {
		existing := []leave.LeaveRequest{
			request("2026-03-02", leave.LeaveRequestStatusApproved),
			request("2026-03-05", leave.LeaveRequestStatusApproved),
		}
		_, err := ApplyLeave(app, existing, 2, today)
		assert.ErrorIs(t, err, leave.ErrQuotaExceeded)
	})

	t.Run("two pending in the month", func(t *testing.T) {
		existing := []leave.LeaveRequest{
			request("2026-03-12", leave.LeaveRequestStatusPending),
			request("2026-03-15", leave.LeaveRequestStatusPending),
		}
		_, err := ApplyLeave(app, existing, 2, today)
		assert.NoError(t, err)
	})

	t.Run("approved leaves of another month do not count", func(t *testing.T) {
		existing := []leave.LeaveRequest{
			request("2026-02-02", leave.LeaveRequestStatusApproved),
			request("2026-02-05", leave.LeaveRequestStatusApproved),
			request("2026-04-01", leave.LeaveRequestStatusApproved),
		}
		_, err := ApplyLeave(app, existing, 2, today)
		assert.NoError(t, err)
	})

	t.Run("quota is checked before duplicates", func(t *testing.T) {
		existing := []leave.LeaveRequest{
			request("2026-03-02", leave.LeaveRequestStatusApproved),
			request("2026-03-20", leave.LeaveRequestStatusApproved),
		}
		_, err := ApplyLeave(app, existing, 2, today)
		assert.ErrorIs(t, err, leave.ErrQuotaExceeded)
	})

	t.Run("duplicate pending request", func(t *testing.T) {
		existing := []leave.LeaveRequest{request("2026-03-20", leave.LeaveRequestStatusPending)}
		_, err := ApplyLeave(app, existing, 2, today)
		assert.ErrorIs(t, err, leave.ErrDuplicateRequest)
	})

	t.Run("rejected request can be reapplied", func(t *testing.T) {
		existing := []leave.LeaveRequest{request("2026-03-20", leave.LeaveRequestStatusRejected)}
		_, err := ApplyLeave(app, existing, 2, today)
		assert.NoError(t, err)
	})

	t.Run("configured quota", func(t *testing.T) {
		existing := []leave.LeaveRequest{request("2026-03-02", leave.LeaveRequestStatusApproved)}
		_, err := ApplyLeave(app, existing, 1, today)
		assert.ErrorIs(t, err, leave.ErrQuotaExceeded)
	})
}

func TestDecide(t *testing.T) {
	at := time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)
	pending := request("2026-03-20", leave.LeaveRequestStatusPending)

	approved, err := Decide(pending, true, "admin-1", nil, at)
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "admin-1", *approved.ApprovedBy)
	require.NotNil(t, approved.DecidedAt)
	assert.Equal(t, at, *approved.DecidedAt)

	reason := "short staffed"
	rejected, err := Decide(pending, false, "admin-1", &reason, at)
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusRejected, rejected.Status)
	assert.Equal(t, &reason, rejected.RejectionReason)

	_, err = Decide(approved, false, "admin-2", nil, at)
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)
	_, err = Decide(rejected, true, "admin-2", nil, at)
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)
}
