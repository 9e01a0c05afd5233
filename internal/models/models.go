package models

import "time"

// LeadStatus is the pipeline position of a lead.
type LeadStatus string

const (
	StatusNew       LeadStatus = "new"
	StatusEnriching LeadStatus = "enriching"
	StatusAnalyzed  LeadStatus = "analyzed"
	StatusContacted LeadStatus = "contacted"
	StatusQualified LeadStatus = "qualified"

	SourceWebSearch = "web_search"
	SourceManual    = "manual"

	DefaultIndustry = "Imported"
	DefaultLocation = "Unknown"
)

var validStatuses = map[LeadStatus]struct{}{
	StatusNew:       {},
	StatusEnriching: {},
	StatusAnalyzed:  {},
	StatusContacted: {},
	StatusQualified: {},
}

func IsValidStatus(value string) bool {
	_, ok := validStatuses[LeadStatus(value)]
	return ok
}

type Lead struct {
	ID             string     `bson:"_id,omitempty" json:"id"`
	Name           string     `bson:"name" json:"name"`
	Industry       string     `bson:"industry,omitempty" json:"industry,omitempty"`
	Location       string     `bson:"location,omitempty" json:"location,omitempty"`
	Country        string     `bson:"country,omitempty" json:"country,omitempty"`
	Website        string     `bson:"website,omitempty" json:"website,omitempty"`
	Phone          string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Email          string     `bson:"email,omitempty" json:"email,omitempty"`
	LinkedIn       string     `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Status         LeadStatus `bson:"status" json:"status"`
	PipelineStatus LeadStatus `bson:"pipelineStatus,omitempty" json:"pipelineStatus,omitempty"`
	SourceType     string     `bson:"sourceType,omitempty" json:"sourceType,omitempty"`
	Rating         float64    `bson:"rating" json:"rating"`
	Reviews        int        `bson:"reviews" json:"reviews"`
	ImageURL       string     `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	FollowUpDate   string     `bson:"followUpDate,omitempty" json:"followUpDate,omitempty"`
	Notes          string     `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// HasReminder reports whether a follow-up date is attached.
func (l Lead) HasReminder() bool {
	return l.FollowUpDate != ""
}

// Note is a knowledge-base entry. Notes are never edited after creation.
type Note struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
