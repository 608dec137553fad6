package leave

import "context"

type LeaveService interface {
	// Apply creates a pending request for the calling staff member
	Apply(ctx context.Context, req ApplyLeaveRequest) (LeaveRequestResponse, error)

	GetMyRequests(ctx context.Context) ([]LeaveRequestResponse, error)
	ListStoreRequests(ctx context.Context, filter StoreLeaveFilter) ([]LeaveRequestResponse, error)

	Approve(ctx context.Context, id string) (LeaveRequestResponse, error)
	Reject(ctx context.Context, req RejectLeaveRequest) (LeaveRequestResponse, error)
}
