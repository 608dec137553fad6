package payroll

import "context"

type PayrollService interface {
	// PreviewSalary returns the locked salary for the period, or a fresh calculation when none exists.
	PreviewSalary(ctx context.Context, req SalaryPeriodRequest) (SalaryResponse, error)

	// LockSalary calculates and permanently stores the salary, deducting outstanding advances.
	LockSalary(ctx context.Context, req SalaryPeriodRequest) (SalaryResponse, error)

	GetMyCurrentSalary(ctx context.Context) (SalaryResponse, error)
	GetMySalaryHistory(ctx context.Context) ([]SalaryResponse, error)

	RecordAdvance(ctx context.Context, req CreateAdvanceRequest) (AdvanceResponse, error)
}
