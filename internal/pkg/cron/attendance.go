package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/attendance"
)

const (
	JobAutoCloseOpenAttendance = "auto_close_open_attendance"
	JobMarkAbsentStaff         = "mark_absent_staff"
)

// AttendanceJobs closes forgotten check-outs and records absences after each store's shift.
type AttendanceJobs struct {
	attendanceSvc attendance.AttendanceService
	now           func() time.Time
}

func NewAttendanceJobs(attendanceSvc attendance.AttendanceService, now func() time.Time) *AttendanceJobs {
	if now == nil {
		now = time.Now
	}
	return &AttendanceJobs{attendanceSvc: attendanceSvc, now: now}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(JobAutoCloseOpenAttendance, interval, j.AutoCloseOpenAttendance)
	scheduler.AddJob(JobMarkAbsentStaff, interval, j.MarkAbsentStaff)
}

func (j *AttendanceJobs) AutoCloseOpenAttendance(ctx context.Context) error {
	closed, err := j.attendanceSvc.AutoCloseOpen(ctx, j.now())
	if err != nil {
		return err
	}
	if closed > 0 {
		slog.Info("Cron: closed open attendance", "count", closed)
	}
	return nil
}

func (j *AttendanceJobs) MarkAbsentStaff(ctx context.Context) error {
	marked, err := j.attendanceSvc.MarkAbsent(ctx, j.now())
	if err != nil {
		return err
	}
	if marked > 0 {
		slog.Info("Cron: marked staff absent", "count", marked)
	}
	return nil
}
