package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/httplog/v3"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/store"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/utils"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/service/payroll"
)

type AttendanceServiceImpl struct {
	staffRepo      user.StaffRepository
	storeRepo      store.StoreRepository
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRequestRepository
	policy         store.Policy
	now            func() time.Time
}

func NewAttendanceService(
	staffRepo user.StaffRepository,
	storeRepo store.StoreRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRequestRepository,
	policy store.Policy,
	now func() time.Time,
) attendance.AttendanceService {
	if now == nil {
		now = time.Now
	}
	return &AttendanceServiceImpl{
		staffRepo:      staffRepo,
		storeRepo:      storeRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		policy:         policy,
		now:            now,
	}
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.CheckInResponse, error) {
	staff, err := user.StaffFromContext(ctx)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return attendance.CheckInResponse{}, err
	}

	httplog.SetAttrs(ctx, slog.String("staff_id", staff.ID), slog.String("store_id", staff.StoreID))

	st, err := s.storeRepo.GetByID(ctx, staff.StoreID)
	if err != nil {
		return attendance.CheckInResponse{}, fmt.Errorf("failed to load store: %w", err)
	}
	policy := st.EffectivePolicy(s.policy)

	nowLocal := s.now().In(policy.Location())
	existing, err := s.attendanceRepo.GetByStaffAndDate(ctx, staff.ID, utils.DateString(nowLocal))
	if err != nil {
		return attendance.CheckInResponse{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}

	record, err := attendance.NewSelfCheckIn(st, policy, attendance.CheckIn{
		StaffID:   staff.ID,
		At:        nowLocal,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}, existing)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	created, err := s.attendanceRepo.Create(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyMarked) {
			return attendance.CheckInResponse{}, err
		}
		return attendance.CheckInResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	resp := attendance.CheckInResponse{Attendance: attendance.ToResponse(created)}
	if created.IsLate {
		notice, err := s.lateNotice(ctx, staff.ID, nowLocal, policy)
		if err != nil {
			return attendance.CheckInResponse{}, err
		}
		resp.Late = &notice
		slog.Info("Late check-in", "staff_id", staff.ID, "date", created.Date, "ordinal", notice.Ordinal)
	}

	return resp, nil
}

// lateNotice places the check-in just stored on this month's late ladder.
func (s *AttendanceServiceImpl) lateNotice(ctx context.Context, staffID string, day time.Time, policy store.Policy) (attendance.LateNotice, error) {
	records, err := s.attendanceRepo.GetByStaffAndMonth(ctx, staffID, day.Year(), int(day.Month()))
	if err != nil {
		return attendance.LateNotice{}, fmt.Errorf("failed to count late arrivals: %w", err)
	}

	ordinal := attendance.Summarize(records).Late
	consequence, message := payroll.ConsequenceFor(ordinal, policy.LateFineAmount)
	return attendance.LateNotice{
		Ordinal:     ordinal,
		Consequence: string(consequence),
		Message:     message,
	}, nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context) (attendance.AttendanceResponse, error) {
	staff, err := user.StaffFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	st, err := s.storeRepo.GetByID(ctx, staff.StoreID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load store: %w", err)
	}
	nowLocal := s.now().In(st.EffectivePolicy(s.policy).Location())

	existing, err := s.attendanceRepo.GetByStaffAndDate(ctx, staff.ID, utils.DateString(nowLocal))
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}
	if existing == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}

	closed, err := existing.Close(nowLocal)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	updated, err := s.attendanceRepo.Update(ctx, closed)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.ToResponse(updated), nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.MonthFilter) (attendance.MonthAttendanceResponse, error) {
	staff, err := user.StaffFromContext(ctx)
	if err != nil {
		return attendance.MonthAttendanceResponse{}, err
	}

	if err := filter.Validate(); err != nil {
		return attendance.MonthAttendanceResponse{}, err
	}

	records, err := s.attendanceRepo.GetByStaffAndMonth(ctx, staff.ID, filter.Year, filter.Month)
	if err != nil {
		return attendance.MonthAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	summary := attendance.Summarize(records)
	return attendance.MonthAttendanceResponse{
		Year:    filter.Year,
		Month:   filter.Month,
		Present: summary.Present,
		Late:    summary.Late,
		Absent:  summary.Absent,
		OnLeave: summary.OnLeave,
		Holiday: summary.Holiday,
		Records: toResponses(records),
	}, nil
}

// MarkAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAttendance(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	principal, err := user.RequireStoreManager(ctx, req.StoreID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	staff, err := s.staffRepo.GetByID(ctx, req.StaffID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if staff.StoreID != req.StoreID {
		return attendance.AttendanceResponse{}, user.ErrStaffNotFound
	}

	st, err := s.storeRepo.GetByID(ctx, req.StoreID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load store: %w", err)
	}

	existing, err := s.attendanceRepo.GetByStaffAndDate(ctx, staff.ID, req.Date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load attendance: %w", err)
	}

	markedBy := principal.PrincipalID()
	record, err := attendance.NewMark(st, attendance.Mark{
		StaffID:  staff.ID,
		Date:     req.Date,
		Status:   attendance.Status(req.Status),
		Origin:   attendance.OriginAdmin,
		MarkedBy: &markedBy,
	}, existing)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	created, err := s.attendanceRepo.Create(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Attendance marked", "attendance_id", created.ID, "staff_id", staff.ID, "date", created.Date, "status", created.Status, "marked_by", markedBy)
	return attendance.ToResponse(created), nil
}

// CorrectStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CorrectStatus(ctx context.Context, req attendance.CorrectStatusRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	existing, err := s.attendanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	principal, err := user.RequireStoreManager(ctx, existing.StoreID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	corrected, err := existing.Correct(attendance.Status(req.Status), principal.PrincipalID())
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	updated, err := s.attendanceRepo.Update(ctx, corrected)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Attendance corrected", "attendance_id", updated.ID, "status", updated.Status, "corrected_by", principal.PrincipalID())
	return attendance.ToResponse(updated), nil
}

// ListStoreDay implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListStoreDay(ctx context.Context, storeID string, date string) ([]attendance.AttendanceResponse, error) {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(storeID) {
		errs = append(errs, validator.ValidationError{Field: "store_id", Message: "store_id must be a valid UUID"})
	}
	if _, ok := validator.IsValidDate(date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	if _, err := user.RequireStoreManager(ctx, storeID); err != nil {
		return nil, err
	}

	records, err := s.attendanceRepo.ListByStoreAndDate(ctx, storeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return toResponses(records), nil
}

// AutoCloseOpen implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) AutoCloseOpen(ctx context.Context, now time.Time) (int, error) {
	// Store-local dates run at most one day ahead of UTC.
	cutoff := utils.DateString(now.UTC().AddDate(0, 0, 1))
	open, err := s.attendanceRepo.ListOpenBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list open attendance: %w", err)
	}

	stores := make(map[string]store.Store)
	closedCount := 0
	for _, rec := range open {
		st, ok := stores[rec.StoreID]
		if !ok {
			st, err = s.storeRepo.GetByID(ctx, rec.StoreID)
			if err != nil {
				slog.Error("Failed to load store for open attendance", "attendance_id", rec.ID, "store_id", rec.StoreID, "error", err)
				continue
			}
			stores[rec.StoreID] = st
		}
		if st.AttendanceFrozen {
			continue
		}

		policy := st.EffectivePolicy(s.policy)
		loc := policy.Location()
		if rec.Date >= utils.DateString(now.In(loc)) {
			continue
		}

		shiftEnd, err := utils.ClockOn(rec.Date, policy.ShiftEnd, loc)
		if err != nil {
			slog.Error("Invalid shift end", "store_id", st.ID, "shift_end", policy.ShiftEnd, "error", err)
			continue
		}

		closed, err := rec.Close(shiftEnd)
		if err != nil {
			continue
		}
		if _, err := s.attendanceRepo.Update(ctx, closed); err != nil {
			if errors.Is(err, attendance.ErrConcurrentUpdate) {
				continue
			}
			return closedCount, fmt.Errorf("failed to close attendance %s: %w", rec.ID, err)
		}
		closedCount++
	}

	return closedCount, nil
}

// MarkAbsent implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAbsent(ctx context.Context, now time.Time) (int, error) {
	stores, err := s.storeRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list stores: %w", err)
	}

	marked := 0
	for _, st := range stores {
		n, err := s.markAbsentInStore(ctx, st, now)
		marked += n
		if err != nil {
			return marked, err
		}
	}
	return marked, nil
}

func (s *AttendanceServiceImpl) markAbsentInStore(ctx context.Context, st store.Store, now time.Time) (int, error) {
	if st.AttendanceFrozen {
		return 0, nil
	}

	policy := st.EffectivePolicy(s.policy)
	local := now.In(policy.Location())
	today := utils.DateString(local)
	if st.IsHoliday(today) {
		return 0, nil
	}

	shiftEnd, err := utils.ClockOn(today, policy.ShiftEnd, policy.Location())
	if err != nil {
		slog.Error("Invalid shift end", "store_id", st.ID, "shift_end", policy.ShiftEnd, "error", err)
		return 0, nil
	}
	if local.Before(shiftEnd) {
		return 0, nil
	}

	staffList, err := s.staffRepo.ListActiveByStore(ctx, st.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to list staff of store %s: %w", st.ID, err)
	}

	marked := 0
	for _, staff := range staffList {
		existing, err := s.attendanceRepo.GetByStaffAndDate(ctx, staff.ID, today)
		if err != nil {
			return marked, fmt.Errorf("failed to load attendance: %w", err)
		}
		if existing != nil {
			continue
		}

		onLeave, err := s.hasApprovedLeave(ctx, staff.ID, local)
		if err != nil {
			return marked, err
		}
		if onLeave {
			continue
		}

		record, err := attendance.NewMark(st, attendance.Mark{
			StaffID: staff.ID,
			Date:    today,
			Status:  attendance.StatusAbsent,
			Origin:  attendance.OriginSystem,
		}, nil)
		if err != nil {
			return marked, err
		}

		if _, err := s.attendanceRepo.Create(ctx, record); err != nil {
			// a late check-in or admin mark won the race
			if errors.Is(err, attendance.ErrAlreadyMarked) {
				continue
			}
			return marked, fmt.Errorf("failed to mark staff %s absent: %w", staff.ID, err)
		}
		marked++
	}

	return marked, nil
}

func (s *AttendanceServiceImpl) hasApprovedLeave(ctx context.Context, staffID string, day time.Time) (bool, error) {
	approved, err := s.leaveRepo.GetApprovedByStaffAndMonth(ctx, staffID, day.Year(), int(day.Month()))
	if err != nil {
		return false, fmt.Errorf("failed to load approved leaves: %w", err)
	}

	date := utils.DateString(day)
	for _, r := range approved {
		if r.LeaveDate == date {
			return true, nil
		}
	}
	return false, nil
}

func toResponses(records []attendance.Attendance) []attendance.AttendanceResponse {
	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.ToResponse(r))
	}
	return responses
}
