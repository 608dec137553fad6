package store

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/utils"
)

const (
	DefaultLateFineAmount         = 200
	DefaultPerfectAttendanceBonus = 500
	DefaultGracePeriodMinutes     = 15
	DefaultMaxLeavesPerMonth      = 2
	DefaultRadiusMeters           = 100
	DefaultShiftStart             = "09:00"
	DefaultShiftEnd               = "18:00"
	DefaultTimezone               = "Asia/Kolkata"
)

// Policy carries the business constants used by check-in, leave and salary rules.
// It is a value type: callers derive a store's effective policy instead of mutating a shared one.
type Policy struct {
	LateFineAmount         decimal.Decimal
	PerfectAttendanceBonus decimal.Decimal
	GracePeriodMinutes     int
	MaxLeavesPerMonth      int
	DefaultRadiusMeters    float64
	ShiftStart             string
	ShiftEnd               string
	Timezone               string
}

func DefaultPolicy() Policy {
	return Policy{
		LateFineAmount:         decimal.NewFromInt(DefaultLateFineAmount),
		PerfectAttendanceBonus: decimal.NewFromInt(DefaultPerfectAttendanceBonus),
		GracePeriodMinutes:     DefaultGracePeriodMinutes,
		MaxLeavesPerMonth:      DefaultMaxLeavesPerMonth,
		DefaultRadiusMeters:    DefaultRadiusMeters,
		ShiftStart:             DefaultShiftStart,
		ShiftEnd:               DefaultShiftEnd,
		Timezone:               DefaultTimezone,
	}
}

// Location returns the policy timezone, UTC when it cannot be resolved.
func (p Policy) Location() *time.Location {
	return utils.LoadLocation(p.Timezone)
}

// PolicyOverrides are optional per-store replacements for the default policy.
type PolicyOverrides struct {
	LateFineAmount         *decimal.Decimal
	PerfectAttendanceBonus *decimal.Decimal
	GracePeriodMinutes     *int
	MaxLeavesPerMonth      *int
}

type Holiday struct {
	Date        string
	Description string
}

type Store struct {
	ID               string
	Name             string
	Latitude         float64
	Longitude        float64
	RadiusMeters     float64
	ShiftStart       string
	ShiftEnd         string
	Timezone         string
	Holidays         []Holiday
	AttendanceFrozen bool
	Overrides        PolicyOverrides
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// EffectivePolicy applies the store's shift, timezone and overrides on top of base.
func (s Store) EffectivePolicy(base Policy) Policy {
	p := base
	if s.ShiftStart != "" {
		p.ShiftStart = s.ShiftStart
	}
	if s.ShiftEnd != "" {
		p.ShiftEnd = s.ShiftEnd
	}
	if s.Timezone != "" {
		p.Timezone = s.Timezone
	}
	if s.Overrides.LateFineAmount != nil {
		p.LateFineAmount = *s.Overrides.LateFineAmount
	}
	if s.Overrides.PerfectAttendanceBonus != nil {
		p.PerfectAttendanceBonus = *s.Overrides.PerfectAttendanceBonus
	}
	if s.Overrides.GracePeriodMinutes != nil {
		p.GracePeriodMinutes = *s.Overrides.GracePeriodMinutes
	}
	if s.Overrides.MaxLeavesPerMonth != nil {
		p.MaxLeavesPerMonth = *s.Overrides.MaxLeavesPerMonth
	}
	return p
}

// HasGeofence reports whether check-ins at this store are location checked.
func (s Store) HasGeofence() bool {
	return utils.HasCoordinate(s.Latitude, s.Longitude)
}

// GeofenceRadius returns the configured radius, or the policy default when unset.
func (s Store) GeofenceRadius(p Policy) float64 {
	if s.RadiusMeters > 0 {
		return s.RadiusMeters
	}
	return p.DefaultRadiusMeters
}

func (s Store) HolidaySet() map[string]struct{} {
	set := make(map[string]struct{}, len(s.Holidays))
	for _, h := range s.Holidays {
		set[h.Date] = struct{}{}
	}
	return set
}

func (s Store) IsHoliday(date string) bool {
	for _, h := range s.Holidays {
		if h.Date == date {
			return true
		}
	}
	return false
}
