package pipeline

import (
	"errors"
	"time"
)

const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date format")

// ParseDate reads a follow-up date as a calendar day in loc. Plain
// YYYY-MM-DD values are taken as-is; RFC 3339 timestamps are reduced to the
// calendar day they fall on in loc.
func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	if date, err := time.ParseInLocation(DateLayout, dateStr, loc); err == nil {
		return date, nil
	}
	ts, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return StartOfDay(ts, loc), nil
}

// NormalizeDate returns the YYYY-MM-DD form of a follow-up date.
func NormalizeDate(dateStr string, loc *time.Location) (string, error) {
	date, err := ParseDate(dateStr, loc)
	if err != nil {
		return "", err
	}
	return date.Format(DateLayout), nil
}

func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func IsDatePast(dateStr string, loc *time.Location, now time.Time) (bool, error) {
	date, err := ParseDate(dateStr, loc)
	if err != nil {
		return false, err
	}
	return date.Before(StartOfDay(now, loc)), nil
}
