package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/store"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/utils"
)

// CheckIn is a staff member's self check-in attempt.
type CheckIn struct {
	StaffID   string
	At        time.Time
	Latitude  *float64
	Longitude *float64
}

// NewSelfCheckIn builds the record for a self check-in at st. existing is the record already
// stored for the staff member on the same store-local day, if any.
// The geofence is checked before lateness, so an out-of-range attempt never yields a record.
func NewSelfCheckIn(st store.Store, policy store.Policy, in CheckIn, existing *Attendance) (Attendance, error) {
	if st.AttendanceFrozen {
		return Attendance{}, ErrStoreFrozen
	}
	if existing != nil {
		return Attendance{}, ErrAlreadyMarked
	}

	if st.HasGeofence() {
		if in.Latitude == nil || in.Longitude == nil {
			return Attendance{}, ErrLocationRequired
		}
		if !utils.IsWithinRadius(*in.Latitude, *in.Longitude, st.Latitude, st.Longitude, st.GeofenceRadius(policy)) {
			return Attendance{}, ErrOutOfRange
		}
	}

	local := in.At.In(policy.Location())
	late, err := utils.IsLate(local, policy.ShiftStart, policy.GracePeriodMinutes)
	if err != nil {
		return Attendance{}, err
	}

	status := StatusPresent
	if late {
		status = StatusLate
	}

	checkIn := in.At.UTC()
	return Attendance{
		StaffID:   in.StaffID,
		StoreID:   st.ID,
		Date:      utils.DateString(local),
		CheckIn:   &checkIn,
		IsLate:    late,
		Status:    status,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Origin:    OriginSelf,
	}, nil
}

// Mark is an admin or system decision about a staff member's day.
type Mark struct {
	StaffID  string
	Date     string
	Status   Status
	Origin   Origin
	MarkedBy *string
}

// NewMark builds the record for an admin or system mark.
func NewMark(st store.Store, m Mark, existing *Attendance) (Attendance, error) {
	if !m.Status.IsValid() {
		return Attendance{}, ErrInvalidStatus
	}
	if st.AttendanceFrozen {
		return Attendance{}, ErrStoreFrozen
	}
	if existing != nil {
		return Attendance{}, ErrAlreadyMarked
	}

	return Attendance{
		StaffID:  m.StaffID,
		StoreID:  st.ID,
		Date:     m.Date,
		IsLate:   m.Status == StatusLate,
		Status:   m.Status,
		Origin:   m.Origin,
		MarkedBy: m.MarkedBy,
	}, nil
}

// Close returns a copy of a with the check-out time set. The status is unchanged.
func (a Attendance) Close(at time.Time) (Attendance, error) {
	if !a.Status.CountsAsPresent() || a.CheckIn == nil {
		return Attendance{}, ErrNotCheckedIn
	}
	if a.CheckOut != nil {
		return Attendance{}, ErrAlreadyCheckedOut
	}

	out := at.UTC()
	if out.Before(*a.CheckIn) {
		out = *a.CheckIn
	}
	a.CheckOut = &out
	return a, nil
}

// Correct returns a copy of a moved from ABSENT to status. ABSENT is the only correctable state.
func (a Attendance) Correct(status Status, by string) (Attendance, error) {
	if !status.IsValid() {
		return Attendance{}, ErrInvalidStatus
	}
	if a.Status != StatusAbsent || status == StatusAbsent {
		return Attendance{}, ErrInvalidTransition
	}

	a.Status = status
	a.IsLate = status == StatusLate
	a.Origin = OriginAdmin
	a.MarkedBy = &by
	return a, nil
}
