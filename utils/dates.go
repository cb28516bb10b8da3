package utils

import (
	"errors"
	"time"
)

// refZone is the reference timezone for all calendar computations. Day windows
// and date-only input are interpreted here regardless of the caller's zone.
var refZone = time.Local

// SetTimezone switches the reference timezone by IANA name, e.g.
// "Europe/Berlin". An empty name keeps the host's local zone.
func SetTimezone(name string) error {
	if name == "" {
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	refZone = loc
	return nil
}

// Timezone returns the current reference timezone.
func Timezone() *time.Location {
	return refZone
}

// DayWindow returns the half-open interval [start, start+24h) of the calendar
// day containing t in the reference zone. A record exactly at the start
// belongs to that day; a record at the next midnight does not.
func DayWindow(t time.Time) (start, end time.Time) {
	t = t.In(refZone)
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, refZone)
	return start, start.Add(24 * time.Hour)
}

// ErrBadDate marks input that is neither a calendar date nor a timestamp.
var ErrBadDate = errors.New("unrecognized date format")

// ParseDate reads a calendar date (YYYY-MM-DD) as that day's start-of-day
// instant in the reference zone.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, refZone)
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	return t, nil
}

// ParseDateOrTime accepts either a calendar date (YYYY-MM-DD) or an RFC3339
// timestamp. Date-only input normalizes to that day's start in the reference
// zone, so both forms yield one canonical instant before any comparison.
func ParseDateOrTime(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, refZone); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, ErrBadDate
}
