package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "latitude and longitude must be provided together",
		})
	}

	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type MarkAttendanceRequest struct {
	StoreID string `json:"-"`
	StaffID string `json:"staff_id"`
	Date    string `json:"date"`
	Status  string `json:"status"`
}

func (r *MarkAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.StoreID) {
		errs = append(errs, validator.ValidationError{
			Field:   "store_id",
			Message: "store_id must be a valid UUID",
		})
	}

	if validator.IsEmpty(r.StaffID) {
		errs = append(errs, validator.ValidationError{
			Field:   "staff_id",
			Message: "staff_id is required",
		})
	} else if !validator.IsValidUUID(r.StaffID) {
		errs = append(errs, validator.ValidationError{
			Field:   "staff_id",
			Message: "staff_id must be a valid UUID",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if !Status(r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of present, absent, late, on_leave, holiday",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CorrectStatusRequest struct {
	ID     string `json:"-"`
	Status string `json:"status"`
}

func (r *CorrectStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	if !Status(r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of present, absent, late, on_leave, holiday",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type MonthFilter struct {
	Year  int
	Month int
}

func (f *MonthFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Year < 2000 || f.Year > 9999 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 9999",
		})
	}

	if f.Month < 1 || f.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceResponse struct {
	ID        string   `json:"id"`
	StaffID   string   `json:"staff_id"`
	StoreID   string   `json:"store_id"`
	Date      string   `json:"date"`
	CheckIn   *string  `json:"check_in,omitempty"`
	CheckOut  *string  `json:"check_out,omitempty"`
	IsLate    bool     `json:"is_late"`
	Status    string   `json:"status"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Origin    string   `json:"origin"`
	MarkedBy  *string  `json:"marked_by,omitempty"`
	UpdatedAt string   `json:"updated_at"`
}

// LateNotice tells a late staff member where they stand on this month's late ladder.
type LateNotice struct {
	Ordinal     int    `json:"ordinal"`
	Consequence string `json:"consequence"`
	Message     string `json:"message"`
}

type CheckInResponse struct {
	Attendance AttendanceResponse `json:"attendance"`
	Late       *LateNotice        `json:"late,omitempty"`
}

type MonthAttendanceResponse struct {
	Year    int                  `json:"year"`
	Month   int                  `json:"month"`
	Present int                  `json:"present"`
	Late    int                  `json:"late"`
	Absent  int                  `json:"absent"`
	OnLeave int                  `json:"on_leave"`
	Holiday int                  `json:"holiday"`
	Records []AttendanceResponse `json:"records"`
}

func ToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:        a.ID,
		StaffID:   a.StaffID,
		StoreID:   a.StoreID,
		Date:      a.Date,
		IsLate:    a.IsLate,
		Status:    string(a.Status),
		Latitude:  a.Latitude,
		Longitude: a.Longitude,
		Origin:    string(a.Origin),
		MarkedBy:  a.MarkedBy,
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
	}
	if a.CheckIn != nil {
		s := a.CheckIn.Format(time.RFC3339)
		resp.CheckIn = &s
	}
	if a.CheckOut != nil {
		s := a.CheckOut.Format(time.RFC3339)
		resp.CheckOut = &s
	}
	return resp
}
