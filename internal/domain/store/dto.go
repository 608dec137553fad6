package store

import (
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/validator"
)

type HolidayDTO struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

type PolicyResponse struct {
	LateFineAmount         string  `json:"late_fine_amount"`
	PerfectAttendanceBonus string  `json:"perfect_attendance_bonus"`
	GracePeriodMinutes     int     `json:"grace_period_minutes"`
	MaxLeavesPerMonth      int     `json:"max_leaves_per_month"`
	DefaultRadiusMeters    float64 `json:"default_radius_meters"`
	ShiftStart             string  `json:"shift_start"`
	ShiftEnd               string  `json:"shift_end"`
	Timezone               string  `json:"timezone"`
}

type StoreResponse struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Latitude         float64        `json:"latitude"`
	Longitude        float64        `json:"longitude"`
	RadiusMeters     float64        `json:"radius_meters"`
	AttendanceFrozen bool           `json:"attendance_frozen"`
	Holidays         []HolidayDTO   `json:"holidays"`
	Policy           PolicyResponse `json:"policy"`
	UpdatedAt        string         `json:"updated_at"`
}

type FreezeRequest struct {
	StoreID string `json:"-"`
	Frozen  *bool  `json:"frozen"`
}

func (r *FreezeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.StoreID) {
		errs = append(errs, validator.ValidationError{
			Field:   "store_id",
			Message: "store_id must be a valid UUID",
		})
	}

	if r.Frozen == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "frozen",
			Message: "frozen is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateHolidaysRequest struct {
	StoreID  string       `json:"-"`
	Holidays []HolidayDTO `json:"holidays"`
}

func (r *UpdateHolidaysRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.StoreID) {
		errs = append(errs, validator.ValidationError{
			Field:   "store_id",
			Message: "store_id must be a valid UUID",
		})
	}

	seen := make(map[string]bool, len(r.Holidays))
	for i, h := range r.Holidays {
		field := "holidays[" + validator.Itoa(i) + "].date"
		if _, ok := validator.IsValidDate(h.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: "date must be in YYYY-MM-DD format",
			})
			continue
		}
		if seen[h.Date] {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: "duplicate holiday date",
			})
		}
		seen[h.Date] = true
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ImportHolidaysResponse struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Store    StoreResponse `json:"store"`
}
