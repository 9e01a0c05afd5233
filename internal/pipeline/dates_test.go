package pipeline

import (
	"testing"
	"time"
)

func mustLoadLoc(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func TestParseDatePlain(t *testing.T) {
	loc := mustLoadLoc(t)
	date, err := ParseDate("2024-03-10", loc)
	if err != nil {
		t.Fatalf("ParseDate error: %v", err)
	}
	if date.Day() != 10 || date.Hour() != 0 {
		t.Fatalf("unexpected date: %v", date)
	}
}

func TestParseDateTimestampUsesLocalDay(t *testing.T) {
	loc := mustLoadLoc(t)
	// 02:00 UTC is still the previous evening in New York.
	date, err := ParseDate("2024-01-02T02:00:00Z", loc)
	if err != nil {
		t.Fatalf("ParseDate error: %v", err)
	}
	if got := date.Format(DateLayout); got != "2024-01-01" {
		t.Fatalf("expected 2024-01-01, got %s", got)
	}
}

func TestParseDateInvalid(t *testing.T) {
	loc := mustLoadLoc(t)
	for _, in := range []string{"", "tomorrow", "2024-13-01", "01/02/2024"} {
		if _, err := ParseDate(in, loc); err != ErrInvalidDate {
			t.Fatalf("ParseDate(%q): expected ErrInvalidDate, got %v", in, err)
		}
	}
}

func TestIsDatePast(t *testing.T) {
	loc := mustLoadLoc(t)
	now := time.Date(2026, 2, 4, 10, 0, 0, 0, loc)
	past, err := IsDatePast("2026-02-03", loc, now)
	if err != nil {
		t.Fatalf("IsDatePast error: %v", err)
	}
	if !past {
		t.Fatalf("expected date to be past")
	}

	past, err = IsDatePast("2026-02-04", loc, now)
	if err != nil {
		t.Fatalf("IsDatePast error: %v", err)
	}
	if past {
		t.Fatalf("expected date to be not past")
	}
}

func TestNormalizeDate(t *testing.T) {
	loc := time.UTC
	got, err := NormalizeDate("2024-05-06T23:30:00+02:00", loc)
	if err != nil {
		t.Fatalf("NormalizeDate error: %v", err)
	}
	if got != "2024-05-06" {
		t.Fatalf("expected 2024-05-06, got %s", got)
	}
}
