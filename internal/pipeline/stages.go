package pipeline

import "github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/models"

type Stage struct {
	ID    models.LeadStatus `json:"id"`
	Label string            `json:"label"`
}

var stages = []Stage{
	{ID: models.StatusNew, Label: "Discovered"},
	{ID: models.StatusAnalyzed, Label: "Analyzed"},
	{ID: models.StatusContacted, Label: "Contacted"},
	{ID: models.StatusQualified, Label: "Qualified"},
}

// Stages returns the board columns in display order.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}

// Matches reports whether lead belongs in the stage. The first stage also
// holds leads that are still being enriched.
func (s Stage) Matches(lead models.Lead) bool {
	if lead.Status == s.ID {
		return true
	}
	return s.ID == models.StatusNew && lead.Status == models.StatusEnriching
}

type StageFilter struct {
	ScheduledOnly bool
}

func (f StageFilter) keep(lead models.Lead) bool {
	return !f.ScheduledOnly || lead.HasReminder()
}

type StageGroup struct {
	Stage Stage
	Leads []models.Lead
}

// GroupByStage buckets leads into the fixed stages, preserving input order
// within each stage.
func GroupByStage(leads []models.Lead, filter StageFilter) []StageGroup {
	groups := make([]StageGroup, len(stages))
	for i, st := range stages {
		groups[i] = StageGroup{Stage: st, Leads: make([]models.Lead, 0)}
		for _, lead := range leads {
			if st.Matches(lead) && filter.keep(lead) {
				groups[i].Leads = append(groups[i].Leads, lead)
			}
		}
	}
	return groups
}

var statusOrder = []models.LeadStatus{
	models.StatusNew,
	models.StatusAnalyzed,
	models.StatusContacted,
	models.StatusQualified,
}

func statusIndex(status models.LeadStatus) int {
	if status == models.StatusEnriching {
		status = models.StatusNew
	}
	for i, s := range statusOrder {
		if s == status {
			return i
		}
	}
	return -1
}

// NextStatus moves one stage forward, staying put at qualified. Unknown
// statuses are returned unchanged.
func NextStatus(current models.LeadStatus) models.LeadStatus {
	idx := statusIndex(current)
	if idx < 0 {
		return current
	}
	if idx+1 >= len(statusOrder) {
		return statusOrder[len(statusOrder)-1]
	}
	return statusOrder[idx+1]
}

// PrevStatus moves one stage back, staying put at new.
func PrevStatus(current models.LeadStatus) models.LeadStatus {
	idx := statusIndex(current)
	if idx < 0 {
		return current
	}
	if idx == 0 {
		return statusOrder[0]
	}
	return statusOrder[idx-1]
}
