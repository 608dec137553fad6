package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/utils"
)

type attendanceRepository struct {
	db *DB
}

func NewAttendanceRepository(db *DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) findByStaffAndDate(staffID, date string) (attendance.Attendance, bool) {
	for _, a := range r.db.attendance {
		if a.StaffID == staffID && a.Date == date {
			return a, true
		}
	}
	return attendance.Attendance{}, false
}

func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, exists := r.findByStaffAndDate(a.StaffID, a.Date); exists {
		return attendance.Attendance{}, attendance.ErrAlreadyMarked
	}

	if a.ID == "" {
		a.ID = newID()
	}
	now := r.db.now()
	a.Version = 1
	a.CreatedAt = now
	a.UpdatedAt = now
	r.db.attendance[a.ID] = a
	return a, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	a, ok := r.db.attendance[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r *attendanceRepository) GetByStaffAndDate(ctx context.Context, staffID string, date string) (*attendance.Attendance, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	a, ok := r.findByStaffAndDate(staffID, date)
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *attendanceRepository) GetByStaffAndMonth(ctx context.Context, staffID string, year, month int) ([]attendance.Attendance, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	prefix := utils.MonthPrefix(year, month)
	return r.collect(func(a attendance.Attendance) bool {
		return a.StaffID == staffID && utils.SameMonth(a.Date, prefix)
	}), nil
}

func (r *attendanceRepository) ListByStoreAndDate(ctx context.Context, storeID string, date string) ([]attendance.Attendance, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	return r.collect(func(a attendance.Attendance) bool {
		return a.StoreID == storeID && a.Date == date
	}), nil
}

func (r *attendanceRepository) ListOpenBefore(ctx context.Context, date string) ([]attendance.Attendance, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	return r.collect(func(a attendance.Attendance) bool {
		return a.IsOpen() && a.Date < date
	}), nil
}

func (r *attendanceRepository) Update(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.attendance[a.ID]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	if stored.Version != a.Version {
		return attendance.Attendance{}, attendance.ErrConcurrentUpdate
	}

	a.StaffID = stored.StaffID
	a.StoreID = stored.StoreID
	a.Date = stored.Date
	a.CreatedAt = stored.CreatedAt
	a.Version = stored.Version + 1
	a.UpdatedAt = r.db.now()
	r.db.attendance[a.ID] = a
	return a, nil
}

// collect must be called with the lock held.
func (r *attendanceRepository) collect(match func(attendance.Attendance) bool) []attendance.Attendance {
	out := make([]attendance.Attendance, 0)
	for _, a := range r.db.attendance {
		if match(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StaffID < out[j].StaffID
	})
	return out
}
