package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusOnLeave Status = "on_leave"
	StatusHoliday Status = "holiday"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusOnLeave, StatusHoliday:
		return true
	}
	return false
}

// CountsAsPresent reports whether the day is a worked day. A late day is a worked day.
func (s Status) CountsAsPresent() bool {
	return s == StatusPresent || s == StatusLate
}

// Origin records who created the attendance record.
type Origin string

const (
	OriginSelf   Origin = "self"
	OriginAdmin  Origin = "admin"
	OriginSystem Origin = "system"
)

type Attendance struct {
	ID        string
	StaffID   string
	StoreID   string
	Date      string
	CheckIn   *time.Time
	CheckOut  *time.Time
	IsLate    bool
	Status    Status
	Latitude  *float64
	Longitude *float64
	Origin    Origin
	MarkedBy  *string
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOpen reports whether the staff member checked in and has not checked out.
func (a Attendance) IsOpen() bool {
	return a.CheckIn != nil && a.CheckOut == nil
}

// MonthSummary aggregates a staff member's attendance records for one month.
type MonthSummary struct {
	Present int
	Late    int
	Absent  int
	OnLeave int
	Holiday int
}

func Summarize(records []Attendance) MonthSummary {
	var s MonthSummary
	for _, r := range records {
		switch r.Status {
		case StatusPresent:
			s.Present++
		case StatusLate:
			s.Present++
			s.Late++
		case StatusAbsent:
			s.Absent++
		case StatusOnLeave:
			s.OnLeave++
		case StatusHoliday:
			s.Holiday++
		}
	}
	return s
}
