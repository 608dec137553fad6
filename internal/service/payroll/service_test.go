package payroll

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
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/store"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/repository/memory"
)

type fixture struct {
	db         *memory.DB
	svc        payroll.PayrollService
	store      store.Store
	staff      user.StaffProfile
	admin      context.Context
	self       context.Context
	attendance attendance.AttendanceRepository
	leaves     leave.LeaveRequestRepository
	advances   payroll.AdvanceRepository
	salaries   payroll.SalaryRepository
}

func newID() string { return uuid.Must(uuid.NewV7()).String() }

func setup(t *testing.T, now time.Time) *fixture {
	t.Helper()

	db := memory.NewDB()
	st := db.PutStore(store.Store{ID: newID(), Name: "Koramangala", Timezone: "UTC"})
	staff := db.PutStaff(user.StaffProfile{
		ID:            newID(),
		StoreID:       st.ID,
		Name:          "Asha",
		MonthlySalary: decimal.NewFromInt(15000),
	})

	policy := store.DefaultPolicy()
	f := &fixture{
		db:         db,
		store:      st,
		staff:      staff,
		admin:      user.WithPrincipal(context.Background(), user.Admin{ID: newID(), StoreIDs: []string{st.ID}}),
		self:       user.WithPrincipal(context.Background(), user.Staff{ID: staff.ID, StoreID: st.ID}),
		attendance: memory.NewAttendanceRepository(db),
		leaves:     memory.NewLeaveRequestRepository(db),
		advances:   memory.NewAdvanceRepository(db),
		salaries:   memory.NewSalaryRepository(db),
	}
	f.svc = NewPayrollService(
		memory.NewStaffRepository(db),
		memory.NewStoreRepository(db),
		f.attendance,
		f.leaves,
		f.advances,
		f.salaries,
		policy,
		func() time.Time { return now },
	)
	return f
}

// mark records status for every day in days of April 2026.
func (f *fixture) mark(t *testing.T, status attendance.Status, days ...int) {
	t.Helper()
	for _, d := range days {
		_, err := f.attendance.Create(context.Background(), attendance.Attendance{
			StaffID: f.staff.ID,
			StoreID: f.store.ID,
			Date:    time.Date(2026, 4, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			Status:  status,
			Origin:  attendance.OriginAdmin,
		})
		require.NoError(t, err)
	}
}

func dayRange(from, to int) []int {
	var days []int
	for d := from; d <= to; d++ {
		days = append(days, d)
	}
	return days
}

func TestPreviewSalary(t *testing.T) {
	f := setup(t, time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC))

	// April has 30 days: 26 present, 2 late, 2 days with no record
	f.mark(t, attendance.StatusPresent, dayRange(1, 26)...)
	f.mark(t, attendance.StatusLate, 27, 28)

	resp, err := f.svc.PreviewSalary(f.admin, payroll.SalaryPeriodRequest{StaffID: f.staff.ID, Year: 2026, Month: 4})
	require.NoError(t, err)

	assert.Equal(t, 30, resp.WorkingDays)
	assert.Equal(t, 28, resp.PresentDays)
	assert.Equal(t, 2, resp.LateDays)
	assert.Equal(t, 2, resp.AbsentDays)
	assert.Equal(t, "500", resp.DailySalary.String())
	assert.Equal(t, "1000", resp.AbsentDeduction.String())
	assert.Equal(t, "0", resp.LatePenalty.String())
	assert.Equal(t, "500", resp.Bonus.String())
	assert.Equal(t, "14500", resp.FinalAmount.String())
	assert.False(t, resp.Locked)
}

func TestPreviewSalaryCountsApprovedLeavesAndHolidays(t *testing.T) {
	f := setup(t, time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC))

	st := f.store
	st.Holidays = []store.Holiday{{Date: "2026-04-14", Description: "Ambedkar Jayanti"}}
	require.NoError(t, memory.NewStoreRepository(f.db).Update(context.Background(), st))

	f.mark(t, attendance.StatusPresent, append(dayRange(1, 13), dayRange(15, 28)...)...)
	for _, date := range []string{"2026-04-29", "2026-04-30"} {
		_, err := f.leaves.Create(context.Background(), leave.LeaveRequest{
			StaffID: f.staff.ID, StoreID: f.store.ID, LeaveDate: date,
			Type: leave.LeaveTypePaid, Status: leave.LeaveRequestStatusApproved,
		})
		require.NoError(t, err)
	}

	resp, err := f.svc.PreviewSalary(f.admin, payroll.SalaryPeriodRequest{StaffID: f.staff.ID, Year: 2026, Month: 4})
	require.NoError(t, err)

	assert.Equal(t, 29, resp.WorkingDays)
	assert.Equal(t, 27, resp.PresentDays)
	assert.Equal(t, 0, resp.AbsentDays)
	assert.Equal(t, 2, resp.LeavesUsed)
	assert.Equal(t, "0", resp.Bonus.String())
}

func TestPreviewSalaryRequiresStoreManager(t *testing.T) {
	f := setup(t, time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC))

	otherAdmin := user.WithPrincipal(context.Background(), user.Admin{ID: newID(), StoreIDs: []string{newID()}})
	_, err := f.svc.PreviewSalary(otherAdmin, payroll.SalaryPeriodRequest{StaffID: f.staff.ID, Year: 2026, Month: 4})
	assert.ErrorIs(t, err, user.ErrForbidden)

	_, err = f.svc.PreviewSalary(context.Background(), payroll.SalaryPeriodRequest{StaffID: f.staff.ID, Year: 2026, Month: 4})
	assert.ErrorIs(t, err, user.ErrUnauthenticated)

	superAdmin := user.WithPrincipal(context.Background(), user.SuperAdmin{ID: newID()})
	_, err = f.svc.PreviewSalary(superAdmin, payroll.SalaryPeriodRequest{StaffID: f.staff.ID, Year: 2026, Month: 4})
	assert.NoError(t, err)
}

func TestLockSalary(t *testing.T) {
	f := setup(t, time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC))
	f.mark(t, attendance.StatusPresent, dayRange(1, 30)...)

	advance, err := f.svc.RecordAdvance(f.admin, payroll.CreateAdvanceRequest{
		StaffID: f.staff.ID, Amount: decimal.NewFromInt(1500), GivenOn: "2026-04-10",
	})
	require.NoError(t, err)
	assert.False(t, advance.Deducted)

	locked, err := f.svc.LockSalary(f.admin, payroll.SalaryPeriodRequest{StaffID: f.staff.ID, Year: 2026, Month: 4})
	require.NoError(t, err)
	assert.True(t, locked.Locked)
	assert.Equal(t, "1500", locked.AdvanceDeduction.String())
	assert.Equal(t, "14000", locked.FinalAmount.String())

	remaining, err := f.advances.GetUndeducted(context.Background(), f.staff.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	t.Run("locking twice fails and keeps the stored record", func(t *testing.T) {
		_, err := f.svc.LockSalary(f.admin, payroll.SalaryPeriodRequest{StaffID: f.staff.ID, Year: 2026, Month: 4})
		assert.ErrorIs(t, err, payroll.ErrAlreadyLocked)

		stored, err := f.salaries.GetByStaffAndPeriod(context.Background(), f.staff.ID, 2026, 4)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "14000", stored.FinalAmount.String())
	})

	t.Run("preview returns the locked record", func(t *testing.T) {
		// attendance changes after locking do not alter the locked salary
		_, err := f.svc.RecordAdvance(f.admin, payroll.CreateAdvanceRequest{
			StaffID: f.staff.ID, Amount: decimal.NewFromInt(700), GivenOn: "2026-05-01",
		})
		require.NoError(t, err)

		resp, err := f.svc.PreviewSalary(f.admin, payroll.SalaryPeriodRequest{StaffID: f.staff.ID, Year: 2026, Month: 4})
		require.NoError(t, err)
		assert.True(t, resp.Locked)
		assert.Equal(t, "14000", resp.FinalAmount.String())
	})

	t.Run("new advances wait for the next lock", func(t *testing.T) {
		remaining, err := f.advances.GetUndeducted(context.Background(), f.staff.ID)
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, "700", remaining[0].Amount.String())
	})
}

func TestLockSalaryWithoutWorkingDays(t *testing.T) {
	f := setup(t, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))

	st := f.store
	for d := 1; d <= 28; d++ {
		st.Holidays = append(st.Holidays, store.Holiday{Date: time.Date(2026, 2, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02")})
	}
	require.NoError(t, memory.NewStoreRepository(f.db).Update(context.Background(), st))

	preview, err := f.svc.PreviewSalary(f.admin, payroll.SalaryPeriodRequest{StaffID: f.staff.ID, Year: 2026, Month: 2})
	require.NoError(t, err)
	assert.True(t, preview.NonComputable)

	_, err = f.svc.LockSalary(f.admin, payroll.SalaryPeriodRequest{StaffID: f.staff.ID, Year: 2026, Month: 2})
	assert.ErrorIs(t, err, payroll.ErrNonComputable)

	stored, err := f.salaries.GetByStaffAndPeriod(context.Background(), f.staff.ID, 2026, 2)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestLockSalaryValidation(t *testing.T) {
	f := setup(t, time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC))

	_, err := f.svc.LockSalary(f.admin, payroll.SalaryPeriodRequest{StaffID: f.staff.ID, Year: 2026, Month: 13})
	assert.Error(t, err)

	_, err = f.svc.LockSalary(f.admin, payroll.SalaryPeriodRequest{StaffID: newID(), Year: 2026, Month: 4})
	assert.ErrorIs(t, err, payroll.ErrStaffNotFound)
}

func TestStaffSalaryViews(t *testing.T) {
	f := setup(t, time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC))
	f.mark(t, attendance.StatusPresent, dayRange(1, 30)...)

	for _, month := range []int{3, 4} {
		_, err := f.svc.LockSalary(f.admin, payroll.SalaryPeriodRequest{StaffID: f.staff.ID, Year: 2026, Month: month})
		require.NoError(t, err)
	}

	history, err := f.svc.GetMySalaryHistory(f.self)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 4, history[0].Month)
	assert.Equal(t, 3, history[1].Month)

	current, err := f.svc.GetMyCurrentSalary(f.self)
	require.NoError(t, err)
	assert.Equal(t, 2026, current.Year)
	assert.Equal(t, 5, current.Month)
	assert.False(t, current.Locked)

	_, err = f.svc.GetMySalaryHistory(f.admin)
	assert.ErrorIs(t, err, user.ErrForbidden)
}
