package pipeline

import (
	"time"

	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/models"
)

// ViewState is what the client currently has selected on the board.
type ViewState struct {
	ScheduledOnly bool
}

type Card struct {
	Lead     models.Lead `json:"lead"`
	Reminder *Reminder   `json:"reminder,omitempty"`
}

type Column struct {
	Stage Stage  `json:"stage"`
	Count int    `json:"count"`
	Cards []Card `json:"cards"`
}

type Board struct {
	Columns []Column `json:"columns"`
	Summary Summary  `json:"summary"`
}

// BuildBoard derives the kanban columns and reminder counters. The summary
// always covers every lead, independent of the scheduled-only filter.
func BuildBoard(leads []models.Lead, now time.Time, view ViewState, loc *time.Location) Board {
	groups := GroupByStage(leads, StageFilter{ScheduledOnly: view.ScheduledOnly})
	columns := make([]Column, len(groups))
	for i, g := range groups {
		cards := make([]Card, len(g.Leads))
		for j, lead := range g.Leads {
			cards[j] = Card{Lead: lead}
			if r, ok := ClassifyReminder(lead.FollowUpDate, now, loc); ok {
				r := r
				cards[j].Reminder = &r
			}
		}
		columns[i] = Column{Stage: g.Stage, Count: len(cards), Cards: cards}
	}
	return Board{
		Columns: columns,
		Summary: Summarize(leads, now, loc),
	}
}
