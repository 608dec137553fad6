package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/validator"
)

// ========== SALARY DTOs ==========

type SalaryPeriodRequest struct {
	StaffID string `json:"-"`
	Year    int    `json:"year"`
	Month   int    `json:"month"`
}

func (r *SalaryPeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "must be a valid UUID"})
	}
	if r.Year < 2000 || r.Year > 9999 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2000 and 9999"})
	}
	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SalaryResponse struct {
	StaffID          string          `json:"staff_id"`
	StoreID          string          `json:"store_id"`
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	BaseSalary       decimal.Decimal `json:"base_salary"`
	DailySalary      decimal.Decimal `json:"daily_salary"`
	WorkingDays      int             `json:"working_days"`
	PresentDays      int             `json:"present_days"`
	AbsentDays       int             `json:"absent_days"`
	LateDays         int             `json:"late_days"`
	LeavesUsed       int             `json:"leaves_used"`
	LatePenalty      decimal.Decimal `json:"late_penalty"`
	AbsentDeduction  decimal.Decimal `json:"absent_deduction"`
	AdvanceDeduction decimal.Decimal `json:"advance_deduction"`
	Bonus            decimal.Decimal `json:"bonus"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	FinalAmount      decimal.Decimal `json:"final_amount"`
	Locked           bool            `json:"locked"`
	NonComputable    bool            `json:"non_computable,omitempty"`
	CalculatedAt     string          `json:"calculated_at"`
}

func RecordToResponse(r MonthlySalaryRecord) SalaryResponse {
	return SalaryResponse{
		StaffID:          r.StaffID,
		StoreID:          r.StoreID,
		Year:             r.Year,
		Month:            r.Month,
		BaseSalary:       r.BaseSalary,
		DailySalary:      r.DailySalary,
		WorkingDays:      r.WorkingDays,
		PresentDays:      r.PresentDays,
		AbsentDays:       r.AbsentDays,
		LateDays:         r.LateDays,
		LeavesUsed:       r.LeavesUsed,
		LatePenalty:      r.LatePenalty,
		AbsentDeduction:  r.AbsentDeduction,
		AdvanceDeduction: r.AdvanceDeduction,
		Bonus:            r.Bonus,
		TotalDeductions:  r.AbsentDeduction.Add(r.LatePenalty).Add(r.AdvanceDeduction),
		FinalAmount:      r.FinalAmount,
		Locked:           r.Locked,
		CalculatedAt:     r.CalculatedAt.Format(time.RFC3339),
	}
}

func BreakdownToResponse(staffID, storeID string, year, month int, b SalaryBreakdown, calculatedAt time.Time) SalaryResponse {
	resp := RecordToResponse(NewMonthlySalaryRecord(staffID, storeID, year, month, b, calculatedAt))
	resp.TotalDeductions = b.TotalDeductions
	resp.NonComputable = b.NonComputable
	return resp
}

// ========== ADVANCE DTOs ==========

type CreateAdvanceRequest struct {
	StaffID string          `json:"-"`
	Amount  decimal.Decimal `json:"amount"`
	GivenOn string          `json:"given_on"`
	Note    *string         `json:"note,omitempty"`
}

func (r *CreateAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "must be a valid UUID"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be greater than zero"})
	}
	if _, ok := validator.IsValidDate(r.GivenOn); !ok {
		errs = append(errs, validator.ValidationError{Field: "given_on", Message: "must be in YYYY-MM-DD format"})
	}
	if r.Note != nil && len(*r.Note) > 500 {
		errs = append(errs, validator.ValidationError{Field: "note", Message: "must not exceed 500 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AdvanceResponse struct {
	ID       string          `json:"id"`
	StaffID  string          `json:"staff_id"`
	Amount   decimal.Decimal `json:"amount"`
	GivenOn  string          `json:"given_on"`
	IssuedBy string          `json:"issued_by"`
	Note     *string         `json:"note,omitempty"`
	Deducted bool            `json:"deducted"`
}

func AdvanceToResponse(a SalaryAdvance) AdvanceResponse {
	return AdvanceResponse{
		ID:       a.ID,
		StaffID:  a.StaffID,
		Amount:   a.Amount,
		GivenOn:  a.GivenOn,
		IssuedBy: a.IssuedBy,
		Note:     a.Note,
		Deducted: a.Deducted,
	}
}
