package leave

import (
	"time"
)

type LeaveType string

const (
	LeaveTypePaid   LeaveType = "paid"
	LeaveTypeUnpaid LeaveType = "unpaid"
)

func (t LeaveType) IsValid() bool {
	return t == LeaveTypePaid || t == LeaveTypeUnpaid
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "rejected"
)

func (s LeaveRequestStatus) IsValid() bool {
	switch s {
	case LeaveRequestStatusPending, LeaveRequestStatusApproved, LeaveRequestStatusRejected:
		return true
	}
	return false
}

// LeaveRequest is a single-day leave application.
type LeaveRequest struct {
	ID              string
	StaffID         string
	StoreID         string
	LeaveDate       string
	Type            LeaveType
	Reason          string
	Status          LeaveRequestStatus
	ApprovedBy      *string
	RejectionReason *string
	DecidedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (r LeaveRequest) IsPending() bool {
	return r.Status == LeaveRequestStatusPending
}
