package notifications

import (
	"bytes"
	"html/template"
	"time"

	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/models"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/pipeline"
)

const reminderNoticeTemplate = `<!DOCTYPE html>
<html>
<body>
  <h3>Follow-up scheduled</h3>
  <p><strong>Lead:</strong> {{.Name}}</p>
  <p><strong>Date:</strong> {{.Date}}</p>
  <p><strong>Stage:</strong> {{.Stage}}</p>
  {{if .Industry}}<p><strong>Industry:</strong> {{.Industry}}</p>{{end}}
  {{if .Location}}<p><strong>Location:</strong> {{.Location}}</p>{{end}}
  {{if .Phone}}<p><strong>Phone:</strong> {{.Phone}}</p>{{end}}
  {{if .Email}}<p><strong>Email:</strong> {{.Email}}</p>{{end}}
  {{if .Website}}<p><strong>Website:</strong> {{.Website}}</p>{{end}}
  {{if .Notes}}<p><strong>Notes:</strong><br/>{{.Notes}}</p>{{end}}
  <p><strong>ID:</strong> {{.ID}}</p>
</body>
</html>`

var reminderNoticeTmpl = template.Must(template.New("reminder_notice").Parse(reminderNoticeTemplate))

type reminderNoticeData struct {
	ID       string
	Name     string
	Date     string
	Stage    string
	Industry string
	Location string
	Phone    string
	Email    string
	Website  string
	Notes    string
}

func buildReminderNoticeHTML(lead models.Lead, loc *time.Location) (string, error) {
	data := reminderNoticeData{
		ID:       lead.ID,
		Name:     lead.Name,
		Date:     reminderDateLabel(lead.FollowUpDate, loc),
		Stage:    stageLabel(lead),
		Industry: lead.Industry,
		Location: lead.Location,
		Phone:    lead.Phone,
		Email:    lead.Email,
		Website:  lead.Website,
		Notes:    lead.Notes,
	}
	var buf bytes.Buffer
	if err := reminderNoticeTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func reminderDateLabel(value string, loc *time.Location) string {
	date, err := pipeline.ParseDate(value, loc)
	if err != nil {
		return value
	}
	return date.Format("Monday, January 2, 2006")
}

func stageLabel(lead models.Lead) string {
	for _, stage := range pipeline.Stages() {
		if stage.Matches(lead) {
			return stage.Label
		}
	}
	return string(lead.Status)
}
