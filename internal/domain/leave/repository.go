package leave

import "context"

type LeaveRequestFilter struct {
	Status *LeaveRequestStatus
	From   *string
	To     *string
}

type LeaveRequestRepository interface {
	// Create inserts a pending request. Returns ErrDuplicateRequest if a non-rejected request
	// already exists for the same staff member and date.
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)

	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// GetApprovedByStaffAndMonth returns approved requests whose leave date falls in the month.
	GetApprovedByStaffAndMonth(ctx context.Context, staffID string, year, month int) ([]LeaveRequest, error)

	ListByStaff(ctx context.Context, staffID string) ([]LeaveRequest, error)
	ListByStore(ctx context.Context, storeID string, filter LeaveRequestFilter) ([]LeaveRequest, error)

	// Update persists a decision. It only succeeds while the stored request is still pending,
	// and returns ErrLeaveAlreadyProcessed otherwise.
	Update(ctx context.Context, req LeaveRequest) error
}
