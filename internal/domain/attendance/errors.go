package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrOutOfRange        = errors.New("you are outside the allowed radius of the store")
	ErrLocationRequired  = errors.New("location is required to check in at this store")
	ErrStoreFrozen       = errors.New("attendance is frozen for this store")
	ErrAlreadyMarked     = errors.New("attendance already recorded for this date")
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")

	// Correction errors
	ErrInvalidTransition = errors.New("attendance status cannot be changed from its current state")
	ErrInvalidStatus     = errors.New("invalid attendance status")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrConcurrentUpdate   = errors.New("attendance record was modified concurrently")
)
