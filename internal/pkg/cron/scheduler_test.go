package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/store"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/attendance-payroll-go/internal/service/attendance"
)

func TestSchedulerRunsJobsUntilStopped(t *testing.T) {
	s := NewScheduler()
	var runs atomic.Int32
	s.AddJob("tick", 5*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, time.Millisecond)
	s.Stop()

	after := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestRunOnceJoinsErrors(t *testing.T) {
	s := NewScheduler()
	boom := errors.New("boom")
	s.AddJob("ok", time.Hour, func(ctx context.Context) error { return nil })
	s.AddJob("broken", time.Hour, func(ctx context.Context) error { return boom })

	err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "broken")
	assert.Equal(t, []string{"ok", "broken"}, s.JobNames())
}

func TestAttendanceJobs(t *testing.T) {
	db := memory.NewDB()
	st := db.PutStore(store.Store{ID: uuid.Must(uuid.NewV7()).String(), Name: "Koramangala", Timezone: "UTC"})
	staff := db.PutStaff(user.StaffProfile{ID: uuid.Must(uuid.NewV7()).String(), StoreID: st.ID, Name: "Kiran", MonthlySalary: decimal.NewFromInt(12000)})

	attendanceRepo := memory.NewAttendanceRepository(db)
	now := time.Date(2026, 3, 2, 19, 0, 0, 0, time.UTC)
	svc := attendanceService.NewAttendanceService(
		memory.NewStaffRepository(db),
		memory.NewStoreRepository(db),
		attendanceRepo,
		memory.NewLeaveRequestRepository(db),
		store.DefaultPolicy(),
		func() time.Time { return now },
	)

	scheduler := NewScheduler()
	NewAttendanceJobs(svc, func() time.Time { return now }).RegisterJobs(scheduler, time.Hour)
	assert.Equal(t, []string{JobAutoCloseOpenAttendance, JobMarkAbsentStaff}, scheduler.JobNames())

	require.NoError(t, scheduler.RunOnce(context.Background()))

	rec, err := attendanceRepo.GetByStaffAndDate(context.Background(), staff.ID, "2026-03-02")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, attendance.StatusAbsent, rec.Status)
	assert.Equal(t, attendance.OriginSystem, rec.Origin)
}
