// Package importer turns pasted or uploaded tabular text into lead records.
// Everything here is a pure transform of its input.
package importer

import (
	"strings"
	"unicode/utf8"

	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	Comma = ','
	Tab   = '\t'
)

var newID = func() string {
	return primitive.NewObjectID().Hex()
}

// DetectDelimiter picks tab when the text contains any tab character and
// comma otherwise.
func DetectDelimiter(text string) rune {
	if strings.ContainsRune(text, '\t') {
		return Tab
	}
	return Comma
}

// ParseAuto parses pasted text with an auto-detected delimiter.
func ParseAuto(text string) ([]models.Lead, error) {
	return Parse(text, DetectDelimiter(text))
}

// Parse converts text into leads. The first non-blank line is the header; it
// must contain a name column. Rows whose name cell is empty are dropped.
func Parse(text string, delimiter rune) ([]models.Lead, error) {
	if !validDelimiter(delimiter) || !utf8.ValidString(text) {
		return nil, ErrMalformedRow
	}

	lines := splitLines(text)
	if len(lines) < 2 {
		return nil, ErrEmptyOrHeaderMissing
	}

	rows := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rows = append(rows, splitRow(line, delimiter))
	}
	return buildLeads(strings.Split(lines[0], string(delimiter)), rows)
}

func buildLeads(header []string, rows [][]string) ([]models.Lead, error) {
	cols := mapHeader(header)
	if !cols.hasName() {
		return nil, ErrMissingNameColumn
	}

	leads := make([]models.Lead, 0, len(rows))
	for _, cells := range rows {
		lead := newImportedLead()
		for idx := range header {
			f, ok := cols[idx]
			if !ok || idx >= len(cells) {
				continue
			}
			if value := cleanCell(cells[idx]); value != "" {
				assign(&lead, f, value)
			}
		}
		if lead.Name == "" {
			continue
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

func newImportedLead() models.Lead {
	return models.Lead{
		ID:             newID(),
		Status:         models.StatusNew,
		PipelineStatus: models.StatusNew,
		SourceType:     models.SourceWebSearch,
		Rating:         0,
		Reviews:        0,
		Industry:       models.DefaultIndustry,
		Location:       models.DefaultLocation,
	}
}

func validDelimiter(r rune) bool {
	switch r {
	case 0, '\n', '\r', '"', utf8.RuneError:
		return false
	}
	return true
}
