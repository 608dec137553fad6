package payroll

import "context"

type AdvanceRepository interface {
	Create(ctx context.Context, advance SalaryAdvance) (SalaryAdvance, error)

	// GetUndeducted returns the staff member's advances not yet recovered from a salary.
	GetUndeducted(ctx context.Context, staffID string) ([]SalaryAdvance, error)
}

type SalaryRepository interface {
	// GetByStaffAndPeriod returns nil when no salary is stored for the period.
	GetByStaffAndPeriod(ctx context.Context, staffID string, year, month int) (*MonthlySalaryRecord, error)

	// ListByStaff returns stored salaries newest period first.
	ListByStaff(ctx context.Context, staffID string) ([]MonthlySalaryRecord, error)

	// Lock stores record as locked and marks advanceIDs as deducted in the record's period, all or
	// nothing. Returns ErrAlreadyLocked if the period is already locked and ErrAdvancesChanged if
	// the staff member's undeducted advances are no longer exactly advanceIDs.
	Lock(ctx context.Context, record MonthlySalaryRecord, advanceIDs []string) (MonthlySalaryRecord, error)
}
