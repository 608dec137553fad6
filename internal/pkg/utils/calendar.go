package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// DateLayout is the ISO calendar date format used for attendance days, leave dates and holidays.
const DateLayout = "2006-01-02"

// DateString formats t as an ISO calendar date in t's own location.
func DateString(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses an ISO calendar date into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// SameMonth reports whether two ISO dates fall in the same calendar month.
func SameMonth(a, b string) bool {
	return len(a) >= 7 && len(b) >= 7 && a[:7] == b[:7]
}

// MonthPrefix returns the "YYYY-MM" prefix shared by every ISO date in the month.
func MonthPrefix(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// MonthBounds returns the first and last ISO date of the month.
func MonthBounds(year, month int) (first, last string) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return DateString(start), DateString(end)
}

// WorkingDaysInMonth counts the calendar days of the month whose ISO date is not a holiday.
// Weekends are working days unless declared as holidays.
func WorkingDaysInMonth(year, month int, holidays map[string]struct{}) int {
	if month < 1 || month > 12 {
		return 0
	}

	count := 0
	day := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	for day.Month() == time.Month(month) {
		if _, isHoliday := holidays[DateString(day)]; !isHoliday {
			count++
		}
		day = day.AddDate(0, 0, 1)
	}
	return count
}

// TimeToMinutes converts an "HH:MM" clock value into minutes since midnight.
func TimeToMinutes(clock string) (int, error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q: expected HH:MM", clock)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid hour in clock value %q", clock)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minute in clock value %q", clock)
	}

	return hours*60 + minutes, nil
}

// IsLate reports whether checkIn falls after the shift start plus the grace period.
// Only the hour and minute of checkIn in its own location are compared, so a check-in exactly on
// the grace boundary is on time. Shifts crossing midnight are not supported.
func IsLate(checkIn time.Time, shiftStart string, gracePeriodMinutes int) (bool, error) {
	startMinutes, err := TimeToMinutes(shiftStart)
	if err != nil {
		return false, err
	}

	checkInMinutes := checkIn.Hour()*60 + checkIn.Minute()
	return checkInMinutes > startMinutes+gracePeriodMinutes, nil
}

// LoadLocation resolves an IANA timezone name, falling back to UTC.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ClockOn returns the instant at clock ("HH:MM") on the given ISO date in loc.
func ClockOn(date string, clock string, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	minutes, err := TimeToMinutes(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, loc), nil
}
