package user

import "errors"

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient permissions")
	ErrInvalidClaims   = errors.New("token claims do not describe a known principal")
	ErrStaffNotFound   = errors.New("staff not found")
)
