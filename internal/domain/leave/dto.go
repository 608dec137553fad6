package leave

import (
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/validator"
)

type ApplyLeaveRequest struct {
	LeaveDate string `json:"leave_date"`
	Type      string `json:"type"`
	Reason    string `json:"reason"`
}

func (r *ApplyLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_date",
			Message: "leave_date is required",
		})
	} else if _, ok := validator.IsValidDate(r.LeaveDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_date",
			Message: "leave_date must be in YYYY-MM-DD format",
		})
	}

	if r.Type == "" {
		r.Type = string(LeaveTypePaid)
	}
	if !LeaveType(r.Type).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be paid or unpaid",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	} else if len(r.Reason) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RejectLeaveRequest struct {
	ID     string `json:"-"`
	Reason string `json:"reason"`
}

func (r *RejectLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	if len(r.Reason) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type StoreLeaveFilter struct {
	StoreID string
	Status  *string
}

func (f *StoreLeaveFilter) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(f.StoreID) {
		errs = append(errs, validator.ValidationError{
			Field:   "store_id",
			Message: "store_id must be a valid UUID",
		})
	}

	if f.Status != nil && !LeaveRequestStatus(*f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be pending, approved or rejected",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveRequestResponse struct {
	ID              string  `json:"id"`
	StaffID         string  `json:"staff_id"`
	StoreID         string  `json:"store_id"`
	LeaveDate       string  `json:"leave_date"`
	Type            string  `json:"type"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	DecidedAt       *string `json:"decided_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

func ToResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:              r.ID,
		StaffID:         r.StaffID,
		StoreID:         r.StoreID,
		LeaveDate:       r.LeaveDate,
		Type:            string(r.Type),
		Reason:          r.Reason,
		Status:          string(r.Status),
		ApprovedBy:      r.ApprovedBy,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}
	if r.DecidedAt != nil {
		s := r.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &s
	}
	return resp
}
