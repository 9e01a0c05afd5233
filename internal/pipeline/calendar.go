package pipeline

import (
	"time"

	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/models"
)

const (
	calendarWeeks = 6
	calendarCells = calendarWeeks * 7
)

type CalendarDay struct {
	Date           string        `json:"date"`
	Day            int           `json:"day"`
	IsCurrentMonth bool          `json:"isCurrentMonth"`
	IsToday        bool          `json:"isToday"`
	Leads          []models.Lead `json:"leads"`
}

// BuildCalendar returns the 6x7 Sunday-first grid for the month, padded with
// the trailing days of the previous month and leading days of the next.
func BuildCalendar(year int, month time.Month, loc *time.Location) []CalendarDay {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	days := make([]CalendarDay, calendarCells)
	for i := range days {
		d := start.AddDate(0, 0, i)
		days[i] = CalendarDay{
			Date:           d.Format(DateLayout),
			Day:            d.Day(),
			IsCurrentMonth: d.Month() == first.Month() && d.Year() == first.Year(),
			Leads:          make([]models.Lead, 0),
		}
	}
	return days
}

// PlaceOnCalendar attaches every lead whose follow-up date falls on a cell and
// flags the cell for today. Leads without a parseable date are skipped.
func PlaceOnCalendar(days []CalendarDay, leads []models.Lead, today time.Time, loc *time.Location) []CalendarDay {
	index := make(map[string]int, len(days))
	for i := range days {
		index[days[i].Date] = i
	}

	todayKey := StartOfDay(today, loc).Format(DateLayout)
	if i, ok := index[todayKey]; ok {
		days[i].IsToday = true
	}

	for _, lead := range leads {
		if !lead.HasReminder() {
			continue
		}
		key, err := NormalizeDate(lead.FollowUpDate, loc)
		if err != nil {
			continue
		}
		if i, ok := index[key]; ok {
			days[i].Leads = append(days[i].Leads, lead)
		}
	}
	return days
}
