package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/store"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/utils"
)

type PayrollServiceImpl struct {
	staffRepo      user.StaffRepository
	storeRepo      store.StoreRepository
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRequestRepository
	advanceRepo    payroll.AdvanceRepository
	salaryRepo     payroll.SalaryRepository
	policy         store.Policy
	now            func() time.Time
}

func NewPayrollService(
	staffRepo user.StaffRepository,
	storeRepo store.StoreRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRequestRepository,
	advanceRepo payroll.AdvanceRepository,
	salaryRepo payroll.SalaryRepository,
	policy store.Policy,
	now func() time.Time,
) payroll.PayrollService {
	if now == nil {
		now = time.Now
	}
	return &PayrollServiceImpl{
		staffRepo:      staffRepo,
		storeRepo:      storeRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		advanceRepo:    advanceRepo,
		salaryRepo:     salaryRepo,
		policy:         policy,
		now:            now,
	}
}

// calculation is a salary breakdown together with the advances it deducts.
type calculation struct {
	staff      user.StaffProfile
	breakdown  payroll.SalaryBreakdown
	advanceIDs []string
}

func (s *PayrollServiceImpl) calculate(ctx context.Context, staff user.StaffProfile, year, month int) (calculation, error) {
	st, err := s.storeRepo.GetByID(ctx, staff.StoreID)
	if err != nil {
		return calculation{}, fmt.Errorf("failed to load store: %w", err)
	}
	policy := st.EffectivePolicy(s.policy)
	workingDays := utils.WorkingDaysInMonth(year, month, st.HolidaySet())

	records, err := s.attendanceRepo.GetByStaffAndMonth(ctx, staff.ID, year, month)
	if err != nil {
		return calculation{}, fmt.Errorf("failed to load attendance: %w", err)
	}
	summary := attendance.Summarize(records)

	approvedLeaves, err := s.leaveRepo.GetApprovedByStaffAndMonth(ctx, staff.ID, year, month)
	if err != nil {
		return calculation{}, fmt.Errorf("failed to load approved leaves: %w", err)
	}

	advances, err := s.advanceRepo.GetUndeducted(ctx, staff.ID)
	if err != nil {
		return calculation{}, fmt.Errorf("failed to load salary advances: %w", err)
	}
	advanceTotal, advanceIDs := payroll.SumAdvances(advances)

	breakdown := CalculateSalary(payroll.SalaryInput{
		BaseSalary:  staff.MonthlySalary,
		WorkingDays: workingDays,
		Present:     summary.Present,
		Absent:      ReconcileAbsences(workingDays, summary.Present, len(approvedLeaves), summary.Absent),
		LateCount:   summary.Late,
		LeavesUsed:  len(approvedLeaves),
		Advances:    advanceTotal,
	}, policy)

	return calculation{staff: staff, breakdown: breakdown, advanceIDs: advanceIDs}, nil
}

// managedStaff loads the staff member and checks the caller manages their store.
func (s *PayrollServiceImpl) managedStaff(ctx context.Context, staffID string) (user.StaffProfile, user.Principal, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return user.StaffProfile{}, nil, err
	}

	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return user.StaffProfile{}, nil, err
	}

	if !principal.CanManageStore(staff.StoreID) {
		return user.StaffProfile{}, nil, user.ErrForbidden
	}
	return staff, principal, nil
}

func (s *PayrollServiceImpl) PreviewSalary(ctx context.Context, req payroll.SalaryPeriodRequest) (payroll.SalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryResponse{}, err
	}

	staff, _, err := s.managedStaff(ctx, req.StaffID)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}

	return s.salaryFor(ctx, staff, req.Year, req.Month)
}

// salaryFor returns the locked salary for the period if one exists, otherwise a fresh calculation.
func (s *PayrollServiceImpl) salaryFor(ctx context.Context, staff user.StaffProfile, year, month int) (payroll.SalaryResponse, error) {
	existing, err := s.salaryRepo.GetByStaffAndPeriod(ctx, staff.ID, year, month)
	if err != nil {
		return payroll.SalaryResponse{}, fmt.Errorf("failed to load salary record: %w", err)
	}
	if existing != nil && existing.Locked {
		return payroll.RecordToResponse(*existing), nil
	}

	calc, err := s.calculate(ctx, staff, year, month)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}
	return payroll.BreakdownToResponse(staff.ID, staff.StoreID, year, month, calc.breakdown, s.now()), nil
}

func (s *PayrollServiceImpl) LockSalary(ctx context.Context, req payroll.SalaryPeriodRequest) (payroll.SalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryResponse{}, err
	}

	staff, principal, err := s.managedStaff(ctx, req.StaffID)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}

	existing, err := s.salaryRepo.GetByStaffAndPeriod(ctx, staff.ID, req.Year, req.Month)
	if err != nil {
		return payroll.SalaryResponse{}, fmt.Errorf("failed to load salary record: %w", err)
	}
	if existing != nil && existing.Locked {
		return payroll.SalaryResponse{}, payroll.ErrAlreadyLocked
	}

	calc, err := s.calculate(ctx, staff, req.Year, req.Month)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}
	if calc.breakdown.NonComputable {
		return payroll.SalaryResponse{}, payroll.ErrNonComputable
	}

	record := payroll.NewMonthlySalaryRecord(staff.ID, staff.StoreID, req.Year, req.Month, calc.breakdown, s.now())
	record.Locked = true
	lockedBy := principal.PrincipalID()
	record.LockedBy = &lockedBy

	locked, err := s.salaryRepo.Lock(ctx, record, calc.advanceIDs)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}

	resp := payroll.RecordToResponse(locked)
	resp.TotalDeductions = calc.breakdown.TotalDeductions
	return resp, nil
}

func (s *PayrollServiceImpl) GetMyCurrentSalary(ctx context.Context) (payroll.SalaryResponse, error) {
	principal, err := user.StaffFromContext(ctx)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}

	staff, err := s.staffRepo.GetByID(ctx, principal.ID)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}

	st, err := s.storeRepo.GetByID(ctx, staff.StoreID)
	if err != nil {
		return payroll.SalaryResponse{}, fmt.Errorf("failed to load store: %w", err)
	}
	today := s.now().In(st.EffectivePolicy(s.policy).Location())

	return s.salaryFor(ctx, staff, today.Year(), int(today.Month()))
}

func (s *PayrollServiceImpl) GetMySalaryHistory(ctx context.Context) ([]payroll.SalaryResponse, error) {
	principal, err := user.StaffFromContext(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.salaryRepo.ListByStaff(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary records: %w", err)
	}

	responses := make([]payroll.SalaryResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, payroll.RecordToResponse(r))
	}
	return responses, nil
}

func (s *PayrollServiceImpl) RecordAdvance(ctx context.Context, req payroll.CreateAdvanceRequest) (payroll.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.AdvanceResponse{}, err
	}

	staff, principal, err := s.managedStaff(ctx, req.StaffID)
	if err != nil {
		return payroll.AdvanceResponse{}, err
	}

	created, err := s.advanceRepo.Create(ctx, payroll.SalaryAdvance{
		StaffID:  staff.ID,
		Amount:   req.Amount,
		GivenOn:  req.GivenOn,
		IssuedBy: principal.PrincipalID(),
		Note:     req.Note,
	})
	if err != nil {
		return payroll.AdvanceResponse{}, fmt.Errorf("failed to record salary advance: %w", err)
	}

	return payroll.AdvanceToResponse(created), nil
}
