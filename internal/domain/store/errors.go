package store

import "errors"

var (
	ErrStoreNotFound     = errors.New("store not found")
	ErrInvalidCalendar   = errors.New("invalid iCalendar data")
	ErrNoHolidaysInInput = errors.New("no holidays found in calendar")
)
