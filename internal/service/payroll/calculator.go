package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/store"
)

// DailySalary divides the monthly salary evenly over the working days, rounded to a whole amount.
// A month without working days has a daily salary of zero.
func DailySalary(base decimal.Decimal, workingDays int) decimal.Decimal {
	if workingDays <= 0 || base.IsZero() {
		return decimal.Zero
	}
	return base.Div(decimal.NewFromInt(int64(workingDays))).Round(0)
}

// CalculateSalary turns one month of attendance figures into a payable amount.
// The perfect attendance bonus only looks at leaves used. Lates and absences do not forfeit it.
func CalculateSalary(in payroll.SalaryInput, policy store.Policy) payroll.SalaryBreakdown {
	daily := DailySalary(in.BaseSalary, in.WorkingDays)
	absentDeduction := daily.Mul(decimal.NewFromInt(int64(in.Absent)))
	latePenalty := LatePenalty(in.LateCount, daily, policy.LateFineAmount)

	bonus := decimal.Zero
	if in.LeavesUsed == 0 {
		bonus = policy.PerfectAttendanceBonus
	}

	totalDeductions := absentDeduction.Add(latePenalty).Add(in.Advances)
	final := in.BaseSalary.Sub(totalDeductions).Add(bonus).Round(0)
	if final.IsNegative() {
		final = decimal.Zero
	}

	return payroll.SalaryBreakdown{
		BaseSalary:       in.BaseSalary,
		WorkingDays:      in.WorkingDays,
		Present:          in.Present,
		Absent:           in.Absent,
		LateCount:        in.LateCount,
		LeavesUsed:       in.LeavesUsed,
		DailySalary:      daily,
		AbsentDeduction:  absentDeduction,
		LatePenalty:      latePenalty,
		AdvanceDeduction: in.Advances,
		Bonus:            bonus,
		TotalDeductions:  totalDeductions,
		FinalAmount:      final,
		NonComputable:    in.WorkingDays <= 0,
	}
}

// ReconcileAbsences adds the working days with no attendance or leave record to the recorded absences.
func ReconcileAbsences(workingDays, present, onLeave, recordedAbsent int) int {
	unaccounted := workingDays - (present + onLeave + recordedAbsent)
	if unaccounted < 0 {
		unaccounted = 0
	}
	return recordedAbsent + unaccounted
}
