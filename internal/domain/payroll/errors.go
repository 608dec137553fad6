package payroll

import (
	"errors"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/user"
)

var (
	ErrAlreadyLocked   = errors.New("salary for this period is already locked")
	ErrNonComputable   = errors.New("salary cannot be computed: the month has no working days")
	ErrAdvancesChanged = errors.New("salary advances changed since the salary was calculated")
	ErrInvalidPeriod   = errors.New("invalid salary period")
	ErrStaffNotFound   = user.ErrStaffNotFound
)
