package pipeline

import (
	"time"

	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/models"
)

type Urgency string

const (
	UrgencyOverdue  Urgency = "overdue"
	UrgencyToday    Urgency = "today"
	UrgencyUpcoming Urgency = "upcoming"
)

type Reminder struct {
	Date    string  `json:"date"`
	Urgency Urgency `json:"urgency"`
	Label   string  `json:"label"`
	Rank    int     `json:"rank"`
}

// ClassifyReminder compares a follow-up date with today at day granularity
// in loc. The bool is false when there is no usable date.
func ClassifyReminder(date string, today time.Time, loc *time.Location) (Reminder, bool) {
	if date == "" {
		return Reminder{}, false
	}
	due, err := ParseDate(date, loc)
	if err != nil {
		return Reminder{}, false
	}
	day := StartOfDay(today, loc)
	r := Reminder{Date: due.Format(DateLayout)}

	switch {
	case due.Before(day):
		r.Urgency, r.Label, r.Rank = UrgencyOverdue, "Overdue", 3
	case due.Equal(day):
		r.Urgency, r.Label, r.Rank = UrgencyToday, "Today", 2
	default:
		r.Urgency, r.Label, r.Rank = UrgencyUpcoming, due.Format("Jan 2"), 1
	}
	return r, true
}

type Summary struct {
	Overdue   int `json:"overdue"`
	Today     int `json:"today"`
	Upcoming  int `json:"upcoming"`
	Scheduled int `json:"scheduled"`
	Total     int `json:"total"`
}

// Summarize counts reminders by urgency across all leads.
func Summarize(leads []models.Lead, today time.Time, loc *time.Location) Summary {
	s := Summary{Total: len(leads)}
	for _, lead := range leads {
		r, ok := ClassifyReminder(lead.FollowUpDate, today, loc)
		if !ok {
			continue
		}
		s.Scheduled++
		switch r.Urgency {
		case UrgencyOverdue:
			s.Overdue++
		case UrgencyToday:
			s.Today++
		case UrgencyUpcoming:
			s.Upcoming++
		}
	}
	return s
}
