package store

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/store"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/utils"
)

const (
	icsMaxFileSize = 2 * 1024 * 1024
	icsDateLayout  = "20060102"

	// maxHolidaySpan bounds how many days one all-day event may contribute.
	maxHolidaySpan = 31
)

// ParseHolidayCalendar reads an iCalendar feed and returns one holiday per day covered by an
// all-day VEVENT, sorted by date. Timed events are not holidays and are counted as skipped.
func ParseHolidayCalendar(r io.Reader) ([]store.Holiday, int, error) {
	cal, err := ics.ParseCalendar(io.LimitReader(r, icsMaxFileSize))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", store.ErrInvalidCalendar, err)
	}

	byDate := make(map[string]store.Holiday)
	skipped := 0
	for _, evt := range cal.Events() {
		days, ok := allDayEvent(evt)
		if !ok {
			skipped++
			continue
		}

		description := ""
		if summary := evt.GetProperty(ics.ComponentPropertySummary); summary != nil {
			description = strings.TrimSpace(summary.Value)
		}
		for _, day := range days {
			if _, dup := byDate[day]; dup {
				skipped++
				continue
			}
			byDate[day] = store.Holiday{Date: day, Description: description}
		}
	}

	if len(byDate) == 0 {
		return nil, skipped, store.ErrNoHolidaysInInput
	}

	holidays := make([]store.Holiday, 0, len(byDate))
	for _, h := range byDate {
		holidays = append(holidays, h)
	}
	sort.Slice(holidays, func(i, j int) bool { return holidays[i].Date < holidays[j].Date })
	return holidays, skipped, nil
}

// allDayEvent returns the ISO dates an all-day event covers. DTEND is exclusive; without it the
// event covers its start day only.
func allDayEvent(evt *ics.VEvent) ([]string, bool) {
	start, ok := dateProperty(evt, ics.ComponentPropertyDtStart)
	if !ok {
		return nil, false
	}

	end, ok := dateProperty(evt, ics.ComponentPropertyDtEnd)
	if !ok || !end.After(start) {
		end = start.AddDate(0, 0, 1)
	}

	var days []string
	for d := start; d.Before(end) && len(days) < maxHolidaySpan; d = d.AddDate(0, 0, 1) {
		days = append(days, utils.DateString(d))
	}
	return days, true
}

// dateProperty parses a DATE-valued property. DATE-TIME values are rejected.
func dateProperty(evt *ics.VEvent, name ics.ComponentProperty) (time.Time, bool) {
	prop := evt.GetProperty(name)
	if prop == nil {
		return time.Time{}, false
	}

	val := strings.TrimSpace(prop.Value)
	if len(val) != len(icsDateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(icsDateLayout, val)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
