package postgresql_test

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
	"github.com/cmlabs-hris/attendance-payroll-go/internal/repository/postgresql"
)

func newID() string { return uuid.Must(uuid.NewV7()).String() }

type seeded struct {
	setup   *TestDatabaseSetup
	storeID string
	staffID string
}

func setupDatabase(t *testing.T) *seeded {
	t.Helper()
	ctx := context.Background()

	setup, err := NewTestDatabase(ctx)
	require.NoError(t, err)
	if setup == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}
	t.Cleanup(setup.Close)
	require.NoError(t, setup.TruncateAllTables(ctx))

	s := &seeded{setup: setup, storeID: newID(), staffID: newID()}
	_, err = setup.DB.Exec(ctx, `INSERT INTO stores (id, name, timezone) VALUES ($1, 'Indiranagar', 'Asia/Kolkata')`, s.storeID)
	require.NoError(t, err)
	_, err = setup.DB.Exec(ctx, `INSERT INTO staff (id, store_id, name, monthly_salary) VALUES ($1, $2, 'Asha', 15000)`, s.staffID, s.storeID)
	require.NoError(t, err)
	return s
}

func TestStoreRepository(t *testing.T) {
	s := setupDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewStoreRepository(s.setup.DB)

	st, err := repo.GetByID(ctx, s.storeID)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", st.Timezone)
	assert.Empty(t, st.Holidays)

	fine := decimal.NewFromInt(300)
	st.AttendanceFrozen = true
	st.Overrides.LateFineAmount = &fine
	st.Holidays = []store.Holiday{{Date: "2026-01-26", Description: "Republic Day"}}
	require.NoError(t, repo.Update(ctx, st))

	st, err = repo.GetByID(ctx, s.storeID)
	require.NoError(t, err)
	assert.True(t, st.AttendanceFrozen)
	require.NotNil(t, st.Overrides.LateFineAmount)
	assert.True(t, fine.Equal(*st.Overrides.LateFineAmount))
	assert.Equal(t, []store.Holiday{{Date: "2026-01-26", Description: "Republic Day"}}, st.Holidays)

	_, err = repo.GetByID(ctx, newID())
	assert.ErrorIs(t, err, store.ErrStoreNotFound)
}

func TestAttendanceRepository(t *testing.T) {
	s := setupDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(s.setup.DB)

	in := time.Date(2026, 3, 2, 3, 30, 0, 0, time.UTC)
	created, err := repo.Create(ctx, attendance.Attendance{
		StaffID: s.staffID, StoreID: s.storeID, Date: "2026-03-02",
		CheckIn: &in, Status: attendance.StatusPresent, Origin: attendance.OriginSelf,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.Version)

	_, err = repo.Create(ctx, attendance.Attendance{
		StaffID: s.staffID, StoreID: s.storeID, Date: "2026-03-02",
		Status: attendance.StatusAbsent, Origin: attendance.OriginSystem,
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyMarked)

	open, err := repo.ListOpenBefore(ctx, "2026-03-03")
	require.NoError(t, err)
	require.Len(t, open, 1)

	out := in.Add(9 * time.Hour)
	closed, err := open[0].Close(out)
	require.NoError(t, err)
	updated, err := repo.Update(ctx, closed)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)

	_, err = repo.Update(ctx, closed)
	assert.ErrorIs(t, err, attendance.ErrConcurrentUpdate)

	month, err := repo.GetByStaffAndMonth(ctx, s.staffID, 2026, 3)
	require.NoError(t, err)
	require.Len(t, month, 1)
	assert.Equal(t, "2026-03-02", month[0].Date)
}

func TestLeaveRequestRepository(t *testing.T) {
	s := setupDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewLeaveRequestRepository(s.setup.DB)

	pending := leave.LeaveRequest{
		StaffID: s.staffID, StoreID: s.storeID, LeaveDate: "2026-03-20",
		Type: leave.LeaveTypePaid, Reason: "family", Status: leave.LeaveRequestStatusPending,
	}
	created, err := repo.Create(ctx, pending)
	require.NoError(t, err)

	_, err = repo.Create(ctx, pending)
	assert.ErrorIs(t, err, leave.ErrDuplicateRequest)

	by := newID()
	now := time.Now().UTC()
	created.Status = leave.LeaveRequestStatusRejected
	created.ApprovedBy = &by
	created.DecidedAt = &now
	require.NoError(t, repo.Update(ctx, created))
	assert.ErrorIs(t, repo.Update(ctx, created), leave.ErrLeaveAlreadyProcessed)

	// a rejected request frees the date
	_, err = repo.Create(ctx, pending)
	require.NoError(t, err)

	rejected := leave.LeaveRequestStatusRejected
	list, err := repo.ListByStore(ctx, s.storeID, leave.LeaveRequestFilter{Status: &rejected})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSalaryLock(t *testing.T) {
	s := setupDatabase(t)
	ctx := context.Background()
	advances := postgresql.NewAdvanceRepository(s.setup.DB)
	salaries := postgresql.NewSalaryRepository(s.setup.DB)

	adv, err := advances.Create(ctx, payroll.SalaryAdvance{
		StaffID: s.staffID, Amount: decimal.NewFromInt(1000), GivenOn: "2026-03-05", IssuedBy: newID(),
	})
	require.NoError(t, err)

	record := payroll.MonthlySalaryRecord{
		StaffID: s.staffID, StoreID: s.storeID, Year: 2026, Month: 3,
		BaseSalary: decimal.NewFromInt(15000), DailySalary: decimal.NewFromInt(484),
		WorkingDays: 31, PresentDays: 31, AdvanceDeduction: decimal.NewFromInt(1000),
		FinalAmount: decimal.NewFromInt(14500), Bonus: decimal.NewFromInt(500),
		CalculatedAt: time.Now().UTC(),
	}

	_, err = salaries.Lock(ctx, record, nil)
	assert.ErrorIs(t, err, payroll.ErrAdvancesChanged)

	locked, err := salaries.Lock(ctx, record, []string{adv.ID})
	require.NoError(t, err)
	assert.True(t, locked.Locked)

	_, err = salaries.Lock(ctx, record, nil)
	assert.ErrorIs(t, err, payroll.ErrAlreadyLocked)

	remaining, err := advances.GetUndeducted(ctx, s.staffID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	stored, err := salaries.GetByStaffAndPeriod(ctx, s.staffID, 2026, 3)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.FinalAmount.Equal(decimal.NewFromInt(14500)))
}
