package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryAdvance is money paid to a staff member ahead of payday, recovered from the next locked salary.
type SalaryAdvance struct {
	ID            string
	StaffID       string
	Amount        decimal.Decimal
	GivenOn       string
	IssuedBy      string
	Note          *string
	Deducted      bool
	DeductedYear  *int
	DeductedMonth *int
	CreatedAt     time.Time
}

// SumAdvances totals advance amounts and collects their ids.
func SumAdvances(advances []SalaryAdvance) (decimal.Decimal, []string) {
	total := decimal.Zero
	ids := make([]string, 0, len(advances))
	for _, a := range advances {
		total = total.Add(a.Amount)
		ids = append(ids, a.ID)
	}
	return total, ids
}

// SameAdvanceSet reports whether advances are exactly the advances identified by ids.
func SameAdvanceSet(advances []SalaryAdvance, ids []string) bool {
	if len(advances) != len(ids) {
		return false
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for _, a := range advances {
		if !want[a.ID] {
			return false
		}
	}
	return true
}

// SalaryInput is everything the salary calculator needs for one staff member and month.
type SalaryInput struct {
	BaseSalary  decimal.Decimal
	WorkingDays int
	Present     int
	Absent      int
	LateCount   int
	LeavesUsed  int
	Advances    decimal.Decimal
}

// SalaryBreakdown carries every intermediate figure of a salary calculation.
type SalaryBreakdown struct {
	BaseSalary       decimal.Decimal
	WorkingDays      int
	Present          int
	Absent           int
	LateCount        int
	LeavesUsed       int
	DailySalary      decimal.Decimal
	AbsentDeduction  decimal.Decimal
	LatePenalty      decimal.Decimal
	AdvanceDeduction decimal.Decimal
	Bonus            decimal.Decimal
	TotalDeductions  decimal.Decimal
	FinalAmount      decimal.Decimal

	// NonComputable is set when the month has no working days. Such a breakdown cannot be locked.
	NonComputable bool
}

// MonthlySalaryRecord is a locked salary for one staff member and month. It is never modified.
type MonthlySalaryRecord struct {
	ID               string
	StaffID          string
	StoreID          string
	Year             int
	Month            int
	BaseSalary       decimal.Decimal
	DailySalary      decimal.Decimal
	WorkingDays      int
	PresentDays      int
	AbsentDays       int
	LateDays         int
	LeavesUsed       int
	LatePenalty      decimal.Decimal
	AbsentDeduction  decimal.Decimal
	AdvanceDeduction decimal.Decimal
	Bonus            decimal.Decimal
	FinalAmount      decimal.Decimal
	Locked           bool
	LockedBy         *string
	CalculatedAt     time.Time
	CreatedAt        time.Time
}

// NewMonthlySalaryRecord copies a breakdown into a record for the period.
func NewMonthlySalaryRecord(staffID, storeID string, year, month int, b SalaryBreakdown, calculatedAt time.Time) MonthlySalaryRecord {
	return MonthlySalaryRecord{
		StaffID:          staffID,
		StoreID:          storeID,
		Year:             year,
		Month:            month,
		BaseSalary:       b.BaseSalary,
		DailySalary:      b.DailySalary,
		WorkingDays:      b.WorkingDays,
		PresentDays:      b.Present,
		AbsentDays:       b.Absent,
		LateDays:         b.LateCount,
		LeavesUsed:       b.LeavesUsed,
		LatePenalty:      b.LatePenalty,
		AbsentDeduction:  b.AbsentDeduction,
		AdvanceDeduction: b.AdvanceDeduction,
		Bonus:            b.Bonus,
		FinalAmount:      b.FinalAmount,
		CalculatedAt:     calculatedAt,
	}
}
