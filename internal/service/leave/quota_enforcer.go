package leave

import (
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/utils"
)

// Application is a staff member's request for a day of leave.
type Application struct {
	StaffID   string
	StoreID   string
	LeaveDate string
	Type      leave.LeaveType
	Reason    string
}

// ApplyLeave checks an application against the staff member's existing requests and returns the
// new pending request. today is the store-local calendar date.
//
// Only approved requests count toward the monthly quota, so several pending requests for the same
// month may coexist.
func ApplyLeave(app Application, existing []leave.LeaveRequest, monthlyQuota int, today string) (leave.LeaveRequest, error) {
	if _, err := utils.ParseDate(app.LeaveDate); err != nil || app.LeaveDate <= today {
		return leave.LeaveRequest{}, leave.ErrInvalidDate
	}

	approvedInMonth := 0
	for _, r := range existing {
		if r.StaffID == app.StaffID && r.Status == leave.LeaveRequestStatusApproved && utils.SameMonth(r.LeaveDate, app.LeaveDate) {
			approvedInMonth++
		}
	}
	if approvedInMonth >= monthlyQuota {
		return leave.LeaveRequest{}, leave.ErrQuotaExceeded
	}

	for _, r := range existing {
		if r.StaffID == app.StaffID && r.LeaveDate == app.LeaveDate && r.Status != leave.LeaveRequestStatusRejected {
			return leave.LeaveRequest{}, leave.ErrDuplicateRequest
		}
	}

	leaveType := app.Type
	if leaveType == "" {
		leaveType = leave.LeaveTypePaid
	}

	return leave.LeaveRequest{
		StaffID:   app.StaffID,
		StoreID:   app.StoreID,
		LeaveDate: app.LeaveDate,
		Type:      leaveType,
		Reason:    app.Reason,
		Status:    leave.LeaveRequestStatusPending,
	}, nil
}

// Decide moves a pending request to approved or rejected. A request is decided exactly once.
func Decide(req leave.LeaveRequest, approve bool, decidedBy string, rejectionReason *string, at time.Time) (leave.LeaveRequest, error) {
	if !req.IsPending() {
		return leave.LeaveRequest{}, leave.ErrLeaveAlreadyProcessed
	}

	decidedAt := at.UTC()
	req.ApprovedBy = &decidedBy
	req.DecidedAt = &decidedAt
	if approve {
		req.Status = leave.LeaveRequestStatusApproved
		req.RejectionReason = nil
	} else {
		req.Status = leave.LeaveRequestStatusRejected
		req.RejectionReason = rejectionReason
	}
	return req, nil
}
