package importer

import (
	"strings"

	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/models"
)

type field int

const (
	fieldName field = iota
	fieldIndustry
	fieldLocation
	fieldCountry
	fieldWebsite
	fieldPhone
	fieldEmail
	fieldLinkedIn
)

func (f field) String() string {
	switch f {
	case fieldName:
		return "name"
	case fieldIndustry:
		return "industry"
	case fieldLocation:
		return "location"
	case fieldCountry:
		return "country"
	case fieldWebsite:
		return "website"
	case fieldPhone:
		return "phone"
	case fieldEmail:
		return "email"
	case fieldLinkedIn:
		return "linkedin"
	default:
		return "unknown"
	}
}

type columnRule struct {
	field    field
	keywords []string
}

// columnRules is evaluated top to bottom for every header cell; the first
// rule with a keyword contained in the header decides the column. The order
// is part of the import contract: "business website" is a name column.
var columnRules = []columnRule{
	{field: fieldName, keywords: []string{"name", "company", "business"}},
	{field: fieldIndustry, keywords: []string{"industry", "sector", "niche"}},
	{field: fieldLocation, keywords: []string{"location", "city", "address"}},
	{field: fieldCountry, keywords: []string{"country"}},
	{field: fieldWebsite, keywords: []string{"web", "url", "site"}},
	{field: fieldPhone, keywords: []string{"phone", "tel", "mobile"}},
	{field: fieldEmail, keywords: []string{"email", "mail"}},
	{field: fieldLinkedIn, keywords: []string{"linkedin"}},
}

func matchColumn(header string) (field, bool) {
	for _, rule := range columnRules {
		for _, kw := range rule.keywords {
			if strings.Contains(header, kw) {
				return rule.field, true
			}
		}
	}
	return 0, false
}

// columnMap maps a header column index to the lead field it feeds.
type columnMap map[int]field

func mapHeader(cells []string) columnMap {
	cols := make(columnMap, len(cells))
	for i, cell := range cells {
		if f, ok := matchColumn(normalizeHeader(cell)); ok {
			cols[i] = f
		}
	}
	return cols
}

func (c columnMap) hasName() bool {
	for _, f := range c {
		if f == fieldName {
			return true
		}
	}
	return false
}

func normalizeHeader(cell string) string {
	return stripQuotes(strings.ToLower(strings.TrimSpace(cell)))
}

func assign(lead *models.Lead, f field, value string) {
	switch f {
	case fieldName:
		lead.Name = value
	case fieldIndustry:
		lead.Industry = value
	case fieldLocation:
		lead.Location = value
	case fieldCountry:
		lead.Country = value
	case fieldWebsite:
		lead.Website = value
	case fieldPhone:
		lead.Phone = value
	case fieldEmail:
		lead.Email = value
	case fieldLinkedIn:
		lead.LinkedIn = value
	}
}
