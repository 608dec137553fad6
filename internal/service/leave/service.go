package leave

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/store"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/utils"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/validator"
)

type LeaveServiceImpl struct {
	leaveRepo leave.LeaveRequestRepository
	storeRepo store.StoreRepository
	policy    store.Policy
	now       func() time.Time
}

func NewLeaveService(
	leaveRepo leave.LeaveRequestRepository,
	storeRepo store.StoreRepository,
	policy store.Policy,
	now func() time.Time,
) leave.LeaveService {
	if now == nil {
		now = time.Now
	}
	return &LeaveServiceImpl{
		leaveRepo: leaveRepo,
		storeRepo: storeRepo,
		policy:    policy,
		now:       now,
	}
}

func (s *LeaveServiceImpl) Apply(ctx context.Context, req leave.ApplyLeaveRequest) (leave.LeaveRequestResponse, error) {
	staff, err := user.StaffFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	st, err := s.storeRepo.GetByID(ctx, staff.StoreID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to load store: %w", err)
	}
	policy := st.EffectivePolicy(s.policy)
	today := utils.DateString(s.now().In(policy.Location()))

	existing, err := s.leaveRepo.ListByStaff(ctx, staff.ID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	pending, err := ApplyLeave(Application{
		StaffID:   staff.ID,
		StoreID:   staff.StoreID,
		LeaveDate: req.LeaveDate,
		Type:      leave.LeaveType(req.Type),
		Reason:    strings.TrimSpace(req.Reason),
	}, existing, policy.MaxLeavesPerMonth, today)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	created, err := s.leaveRepo.Create(ctx, pending)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave requested", "leave_request_id", created.ID, "staff_id", staff.ID, "leave_date", created.LeaveDate)
	return leave.ToResponse(created), nil
}

func (s *LeaveServiceImpl) GetMyRequests(ctx context.Context) ([]leave.LeaveRequestResponse, error) {
	staff, err := user.StaffFromContext(ctx)
	if err != nil {
		return nil, err
	}

	requests, err := s.leaveRepo.ListByStaff(ctx, staff.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return toResponses(requests), nil
}

func (s *LeaveServiceImpl) ListStoreRequests(ctx context.Context, filter leave.StoreLeaveFilter) ([]leave.LeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if _, err := user.RequireStoreManager(ctx, filter.StoreID); err != nil {
		return nil, err
	}

	var repoFilter leave.LeaveRequestFilter
	if filter.Status != nil {
		status := leave.LeaveRequestStatus(*filter.Status)
		repoFilter.Status = &status
	}

	requests, err := s.leaveRepo.ListByStore(ctx, filter.StoreID, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return toResponses(requests), nil
}

func (s *LeaveServiceImpl) Approve(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	if !validator.IsValidUUID(id) {
		return leave.LeaveRequestResponse{}, validator.ValidationErrors{{Field: "id", Message: "id must be a valid UUID"}}
	}
	return s.decide(ctx, id, true, nil)
}

func (s *LeaveServiceImpl) Reject(ctx context.Context, req leave.RejectLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var reason *string
	if trimmed := strings.TrimSpace(req.Reason); trimmed != "" {
		reason = &trimmed
	}
	return s.decide(ctx, req.ID, false, reason)
}

func (s *LeaveServiceImpl) decide(ctx context.Context, id string, approve bool, reason *string) (leave.LeaveRequestResponse, error) {
	existing, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	principal, err := user.RequireStoreManager(ctx, existing.StoreID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	decided, err := Decide(existing, approve, principal.PrincipalID(), reason, s.now())
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if err := s.leaveRepo.Update(ctx, decided); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request decided", "leave_request_id", decided.ID, "status", decided.Status, "decided_by", principal.PrincipalID())
	return leave.ToResponse(decided), nil
}

func toResponses(requests []leave.LeaveRequest) []leave.LeaveRequestResponse {
	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.ToResponse(r))
	}
	return responses
}
