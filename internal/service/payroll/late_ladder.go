package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LateConsequence is what the nth late arrival in a month costs.
type LateConsequence string

const (
	LateConsequenceWarning LateConsequence = "warning"
	LateConsequenceFine    LateConsequence = "fine"
	LateConsequenceHalfDay LateConsequence = "half_day"
	LateConsequenceFullDay LateConsequence = "full_day"
)

// ConsequenceFor returns the consequence of the ordinal-th late arrival in a month and a message
// suitable for showing the staff member. Ordinals start at 1.
func ConsequenceFor(ordinal int, fine decimal.Decimal) (LateConsequence, string) {
	switch {
	case ordinal <= 1:
		return LateConsequenceWarning, "1st late - Warning issued"
	case ordinal == 2:
		return LateConsequenceWarning, "2nd late - Final warning"
	case ordinal == 3:
		return LateConsequenceFine, fmt.Sprintf("3rd late - %s fine", fine.StringFixed(0))
	case ordinal == 4:
		return LateConsequenceHalfDay, "4th late - Half-day deducted"
	default:
		return LateConsequenceFullDay, fmt.Sprintf("%dth late - Marked absent", ordinal)
	}
}

// LatePenalty totals the penalty for lateCount late arrivals in one month.
// The first two are warnings, the third costs fine, the fourth half of dailySalary and each
// further one a full dailySalary. The sum is rounded to a whole amount once, at the end.
func LatePenalty(lateCount int, dailySalary, fine decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for i := 1; i <= lateCount; i++ {
		switch consequence, _ := ConsequenceFor(i, fine); consequence {
		case LateConsequenceFine:
			total = total.Add(fine)
		case LateConsequenceHalfDay:
			total = total.Add(dailySalary.Div(decimal.NewFromInt(2)))
		case LateConsequenceFullDay:
			total = total.Add(dailySalary)
		}
	}
	return total.Round(0)
}
