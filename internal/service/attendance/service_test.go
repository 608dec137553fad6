package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/store"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/repository/memory"
)

const (
	storeLat = 12.9716
	storeLon = 77.5946
)

var ist = time.FixedZone("IST", 5*3600+1800)

func newID() string { return uuid.Must(uuid.NewV7()).String() }

func float(v float64) *float64 { return &v }

type fixture struct {
	db      *memory.DB
	svc     attendance.AttendanceService
	repo    attendance.AttendanceRepository
	leaves  leave.LeaveRequestRepository
	store   store.Store
	staff   user.StaffProfile
	self    context.Context
	admin   context.Context
	current time.Time
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db := memory.NewDB()
	st := db.PutStore(store.Store{
		ID:        newID(),
		Name:      "MG Road",
		Latitude:  storeLat,
		Longitude: storeLon,
		Timezone:  "Asia/Kolkata",
	})
	staff := db.PutStaff(user.StaffProfile{ID: newID(), StoreID: st.ID, Name: "Ravi", MonthlySalary: decimal.NewFromInt(15000)})

	f := &fixture{
		db:     db,
		repo:   memory.NewAttendanceRepository(db),
		leaves: memory.NewLeaveRequestRepository(db),
		store:  st,
		staff:  staff,
		self:   user.WithPrincipal(context.Background(), user.Staff{ID: staff.ID, StoreID: st.ID}),
		admin:  user.WithPrincipal(context.Background(), user.Admin{ID: newID(), StoreIDs: []string{st.ID}}),
	}
	f.svc = NewAttendanceService(
		memory.NewStaffRepository(db),
		memory.NewStoreRepository(db),
		f.repo,
		f.leaves,
		store.DefaultPolicy(),
		func() time.Time { return f.current },
	)
	return f
}

// at sets the clock to the given store-local time in March 2026.
func (f *fixture) at(day, hour, minute int) time.Time {
	f.current = time.Date(2026, 3, day, hour, minute, 0, 0, ist)
	return f.current
}

func (f *fixture) checkIn() (attendance.CheckInResponse, error) {
	return f.svc.CheckIn(f.self, attendance.CheckInRequest{Latitude: float(storeLat), Longitude: float(storeLon)})
}

func TestCheckIn(t *testing.T) {
	t.Run("on time inside the geofence", func(t *testing.T) {
		f := setup(t)
		f.at(2, 9, 5)

		resp, err := f.checkIn()
		require.NoError(t, err)
		assert.Equal(t, "present", resp.Attendance.Status)
		assert.Equal(t, "2026-03-02", resp.Attendance.Date)
		assert.Equal(t, "self", resp.Attendance.Origin)
		assert.Nil(t, resp.Late)

		_, err = f.checkIn()
		assert.ErrorIs(t, err, attendance.ErrAlreadyMarked)
	})

	t.Run("date follows the store timezone", func(t *testing.T) {
		f := setup(t)
		// 20:00 UTC on 1 March is 01:30 on 2 March in the store
		f.current = time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

		resp, err := f.checkIn()
		require.NoError(t, err)
		assert.Equal(t, "2026-03-02", resp.Attendance.Date)
	})

	t.Run("outside the geofence", func(t *testing.T) {
		f := setup(t)
		f.at(2, 9, 0)

		_, err := f.svc.CheckIn(f.self, attendance.CheckInRequest{Latitude: float(storeLat + 0.01), Longitude: float(storeLon)})
		assert.ErrorIs(t, err, attendance.ErrOutOfRange)

		rec, err := f.repo.GetByStaffAndDate(context.Background(), f.staff.ID, "2026-03-02")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("location required at a geofenced store", func(t *testing.T) {
		f := setup(t)
		f.at(2, 9, 0)

		_, err := f.svc.CheckIn(f.self, attendance.CheckInRequest{})
		assert.ErrorIs(t, err, attendance.ErrLocationRequired)
	})

	t.Run("frozen store", func(t *testing.T) {
		f := setup(t)
		f.store.AttendanceFrozen = true
		f.db.PutStore(f.store)
		f.at(2, 9, 0)

		_, err := f.checkIn()
		assert.ErrorIs(t, err, attendance.ErrStoreFrozen)
	})

	t.Run("admins cannot self check in", func(t *testing.T) {
		f := setup(t)
		f.at(2, 9, 0)

		_, err := f.svc.CheckIn(f.admin, attendance.CheckInRequest{})
		assert.ErrorIs(t, err, user.ErrForbidden)
	})
}

func TestCheckInLateLadder(t *testing.T) {
	f := setup(t)

	want := []struct {
		consequence string
		message     string
	}{
		{"warning", "1st late - Warning issued"},
		{"warning", "2nd late - Final warning"},
		{"fine", "3rd late - 200 fine"},
		{"half_day", "4th late - Half-day deducted"},
		{"full_day", "5th late - Marked absent"},
	}

	for i, w := range want {
		f.at(2+i, 9, 30)
		resp, err := f.checkIn()
		require.NoError(t, err)
		assert.Equal(t, "late", resp.Attendance.Status)
		assert.True(t, resp.Attendance.IsLate)
		require.NotNil(t, resp.Late)
		assert.Equal(t, i+1, resp.Late.Ordinal)
		assert.Equal(t, w.consequence, resp.Late.Consequence)
		assert.Equal(t, w.message, resp.Late.Message)
	}

	// an on-time day does not advance the ladder
	f.at(10, 9, 15)
	resp, err := f.checkIn()
	require.NoError(t, err)
	assert.Nil(t, resp.Late)

	month, err := f.svc.GetMyAttendance(f.self, attendance.MonthFilter{Year: 2026, Month: 3})
	require.NoError(t, err)
	assert.Equal(t, 6, month.Present)
	assert.Equal(t, 5, month.Late)
	assert.Len(t, month.Records, 6)
}

func TestCheckOut(t *testing.T) {
	f := setup(t)
	f.at(2, 8, 55)

	_, err := f.svc.CheckOut(f.self)
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	_, err = f.checkIn()
	require.NoError(t, err)

	f.at(2, 18, 10)
	resp, err := f.svc.CheckOut(f.self)
	require.NoError(t, err)
	require.NotNil(t, resp.CheckOut)
	assert.Equal(t, "2026-03-02T12:40:00Z", *resp.CheckOut)
	assert.Equal(t, "present", resp.Status)

	_, err = f.svc.CheckOut(f.self)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestMarkAndCorrect(t *testing.T) {
	f := setup(t)
	f.at(3, 10, 0)

	marked, err := f.svc.MarkAttendance(f.admin, attendance.MarkAttendanceRequest{
		StoreID: f.store.ID,
		StaffID: f.staff.ID,
		Date:    "2026-03-02",
		Status:  "absent",
	})
	require.NoError(t, err)
	assert.Equal(t, "absent", marked.Status)
	assert.Equal(t, "admin", marked.Origin)
	assert.Nil(t, marked.CheckIn)

	t.Run("second mark for the day", func(t *testing.T) {
		_, err := f.svc.MarkAttendance(f.admin, attendance.MarkAttendanceRequest{
			StoreID: f.store.ID, StaffID: f.staff.ID, Date: "2026-03-02", Status: "present",
		})
		assert.ErrorIs(t, err, attendance.ErrAlreadyMarked)
	})

	t.Run("admin of another store", func(t *testing.T) {
		outsider := user.WithPrincipal(context.Background(), user.Admin{ID: newID(), StoreIDs: []string{newID()}})
		_, err := f.svc.MarkAttendance(outsider, attendance.MarkAttendanceRequest{
			StoreID: f.store.ID, StaffID: f.staff.ID, Date: "2026-03-04", Status: "present",
		})
		assert.ErrorIs(t, err, user.ErrForbidden)

		_, err = f.svc.CorrectStatus(outsider, attendance.CorrectStatusRequest{ID: marked.ID, Status: "present"})
		assert.ErrorIs(t, err, user.ErrForbidden)
	})

	t.Run("staff of another store", func(t *testing.T) {
		other := f.db.PutStore(store.Store{ID: newID(), Name: "Other"})
		stranger := f.db.PutStaff(user.StaffProfile{ID: newID(), StoreID: other.ID, Name: "Meera"})
		_, err := f.svc.MarkAttendance(f.admin, attendance.MarkAttendanceRequest{
			StoreID: f.store.ID, StaffID: stranger.ID, Date: "2026-03-02", Status: "present",
		})
		assert.ErrorIs(t, err, user.ErrStaffNotFound)
	})

	t.Run("absent corrected to present", func(t *testing.T) {
		corrected, err := f.svc.CorrectStatus(f.admin, attendance.CorrectStatusRequest{ID: marked.ID, Status: "present"})
		require.NoError(t, err)
		assert.Equal(t, "present", corrected.Status)

		_, err = f.svc.CorrectStatus(f.admin, attendance.CorrectStatusRequest{ID: marked.ID, Status: "late"})
		assert.ErrorIs(t, err, attendance.ErrInvalidTransition)
	})

	t.Run("day sheet", func(t *testing.T) {
		day, err := f.svc.ListStoreDay(f.admin, f.store.ID, "2026-03-02")
		require.NoError(t, err)
		require.Len(t, day, 1)
		assert.Equal(t, f.staff.ID, day[0].StaffID)

		_, err = f.svc.ListStoreDay(f.self, f.store.ID, "2026-03-02")
		assert.ErrorIs(t, err, user.ErrForbidden)
	})
}

func TestAutoCloseOpen(t *testing.T) {
	f := setup(t)
	f.at(2, 9, 0)
	_, err := f.checkIn()
	require.NoError(t, err)

	// same day: nothing to close yet
	closed, err := f.svc.AutoCloseOpen(context.Background(), f.at(2, 23, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, closed)

	closed, err = f.svc.AutoCloseOpen(context.Background(), f.at(3, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	rec, err := f.repo.GetByStaffAndDate(context.Background(), f.staff.ID, "2026-03-02")
	require.NoError(t, err)
	require.NotNil(t, rec.CheckOut)
	assert.True(t, rec.CheckOut.Equal(time.Date(2026, 3, 2, 18, 0, 0, 0, ist)))
	assert.Equal(t, attendance.StatusPresent, rec.Status)

	closed, err = f.svc.AutoCloseOpen(context.Background(), f.at(3, 2, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, closed)
}

func TestMarkAbsent(t *testing.T) {
	t.Run("only after the shift ends", func(t *testing.T) {
		f := setup(t)

		marked, err := f.svc.MarkAbsent(context.Background(), f.at(2, 17, 59))
		require.NoError(t, err)
		assert.Equal(t, 0, marked)

		marked, err = f.svc.MarkAbsent(context.Background(), f.at(2, 18, 0))
		require.NoError(t, err)
		assert.Equal(t, 1, marked)

		rec, err := f.repo.GetByStaffAndDate(context.Background(), f.staff.ID, "2026-03-02")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, attendance.StatusAbsent, rec.Status)
		assert.Equal(t, attendance.OriginSystem, rec.Origin)

		marked, err = f.svc.MarkAbsent(context.Background(), f.at(2, 19, 0))
		require.NoError(t, err)
		assert.Equal(t, 0, marked, "already marked staff are skipped")
	})

	t.Run("checked in staff are skipped", func(t *testing.T) {
		f := setup(t)
		f.at(2, 9, 0)
		_, err := f.checkIn()
		require.NoError(t, err)

		marked, err := f.svc.MarkAbsent(context.Background(), f.at(2, 20, 0))
		require.NoError(t, err)
		assert.Equal(t, 0, marked)
	})

	t.Run("approved leave", func(t *testing.T) {
		f := setup(t)
		_, err := f.leaves.Create(context.Background(), leave.LeaveRequest{
			StaffID:   f.staff.ID,
			StoreID:   f.store.ID,
			LeaveDate: "2026-03-02",
			Type:      leave.LeaveTypePaid,
			Status:    leave.LeaveRequestStatusApproved,
		})
		require.NoError(t, err)

		marked, err := f.svc.MarkAbsent(context.Background(), f.at(2, 20, 0))
		require.NoError(t, err)
		assert.Equal(t, 0, marked)
	})

	t.Run("holiday", func(t *testing.T) {
		f := setup(t)
		f.store.Holidays = []store.Holiday{{Date: "2026-03-02", Description: "Festival"}}
		f.db.PutStore(f.store)

		marked, err := f.svc.MarkAbsent(context.Background(), f.at(2, 20, 0))
		require.NoError(t, err)
		assert.Equal(t, 0, marked)
	})

	t.Run("frozen store", func(t *testing.T) {
		f := setup(t)
		f.store.AttendanceFrozen = true
		f.db.PutStore(f.store)

		marked, err := f.svc.MarkAbsent(context.Background(), f.at(2, 20, 0))
		require.NoError(t, err)
		assert.Equal(t, 0, marked)
	})

	t.Run("staff who left are skipped", func(t *testing.T) {
		f := setup(t)
		f.staff.Status = user.EmploymentLeft
		f.db.PutStaff(f.staff)

		marked, err := f.svc.MarkAbsent(context.Background(), f.at(2, 20, 0))
		require.NoError(t, err)
		assert.Equal(t, 0, marked)
	})
}
