package leave

import "errors"

var (
	// Apply errors
	ErrInvalidDate      = errors.New("leave can only be requested for a future date")
	ErrQuotaExceeded    = errors.New("monthly leave quota already used")
	ErrDuplicateRequest = errors.New("a leave request already exists for this date")

	// Decision errors
	ErrLeaveRequestNotFound  = errors.New("leave request not found")
	ErrLeaveAlreadyProcessed = errors.New("leave request has already been approved or rejected")
)
