package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/utils"
)

type leaveRequestRepository struct {
	db *DB
}

func NewLeaveRequestRepository(db *DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

func (r *leaveRequestRepository) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.leaves {
		if existing.StaffID == req.StaffID && existing.LeaveDate == req.LeaveDate &&
			existing.Status != leave.LeaveRequestStatusRejected {
			return leave.LeaveRequest{}, leave.ErrDuplicateRequest
		}
	}

	if req.ID == "" {
		req.ID = newID()
	}
	now := r.db.now()
	req.CreatedAt = now
	req.UpdatedAt = now
	r.db.leaves[req.ID] = req
	return req, nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	req, ok := r.db.leaves[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

func (r *leaveRequestRepository) GetApprovedByStaffAndMonth(ctx context.Context, staffID string, year, month int) ([]leave.LeaveRequest, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	prefix := utils.MonthPrefix(year, month)
	return r.collect(func(req leave.LeaveRequest) bool {
		return req.StaffID == staffID &&
			req.Status == leave.LeaveRequestStatusApproved &&
			utils.SameMonth(req.LeaveDate, prefix)
	}), nil
}

func (r *leaveRequestRepository) ListByStaff(ctx context.Context, staffID string) ([]leave.LeaveRequest, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	return r.collect(func(req leave.LeaveRequest) bool {
		return req.StaffID == staffID
	}), nil
}

func (r *leaveRequestRepository) ListByStore(ctx context.Context, storeID string, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	return r.collect(func(req leave.LeaveRequest) bool {
		if req.StoreID != storeID {
			return false
		}
		if filter.Status != nil && req.Status != *filter.Status {
			return false
		}
		if filter.From != nil && req.LeaveDate < *filter.From {
			return false
		}
		if filter.To != nil && req.LeaveDate > *filter.To {
			return false
		}
		return true
	}), nil
}

func (r *leaveRequestRepository) Update(ctx context.Context, req leave.LeaveRequest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.leaves[req.ID]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	if !stored.IsPending() {
		return leave.ErrLeaveAlreadyProcessed
	}

	stored.Status = req.Status
	stored.ApprovedBy = req.ApprovedBy
	stored.RejectionReason = req.RejectionReason
	stored.DecidedAt = req.DecidedAt
	stored.UpdatedAt = r.db.now()
	r.db.leaves[req.ID] = stored
	return nil
}

// collect returns matches newest leave date first. Must be called with the lock held.
func (r *leaveRequestRepository) collect(match func(leave.LeaveRequest) bool) []leave.LeaveRequest {
	out := make([]leave.LeaveRequest, 0)
	for _, req := range r.db.leaves {
		if match(req) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LeaveDate != out[j].LeaveDate {
			return out[i].LeaveDate > out[j].LeaveDate
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
