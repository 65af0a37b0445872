package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/Obed704/church-portal/internal/model"
)

// Subject describes what a reminder points at.
type Subject struct {
	Title    string
	StartsAt *time.Time
	Location *string
}

var emailTemplate = template.Must(template.New("reminder").Parse(`<!DOCTYPE html>
<html>
<body>
<p>Hello {{.Name}},</p>
<p>This is your reminder for <strong>{{.Title}}</strong>{{if .When}}, {{.When}}{{end}}.</p>
{{if .Location}}<p>Location: {{.Location}}</p>{{end}}
{{if .Note}}<p>{{.Note}}</p>{{end}}
</body>
</html>`))

// Render builds the message for r addressed to user.
func Render(r model.Reminder, user model.User, subj Subject, now time.Time) (Message, error) {
	name := user.Email
	if user.Name != nil && *user.Name != "" {
		name = *user.Name
	}

	var when string
	if subj.StartsAt != nil {
		when = fmt.Sprintf("%s (%s)",
			humanize.RelTime(*subj.StartsAt, now, "ago", "from now"),
			subj.StartsAt.Format("Mon Jan 2, 15:04"))
	}

	text := "Reminder: " + subj.Title
	if when != "" {
		text += " starts " + when
	}
	if subj.Location != nil && *subj.Location != "" {
		text += " at " + *subj.Location
	}
	if r.Note != nil && *r.Note != "" {
		text += ". " + *r.Note
	}

	data := struct {
		Name, Title, When, Location, Note string
	}{Name: name, Title: subj.Title, When: when}
	if subj.Location != nil {
		data.Location = *subj.Location
	}
	if r.Note != nil {
		data.Note = *r.Note
	}
	var html bytes.Buffer
	if err := emailTemplate.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render reminder email: %w", err)
	}

	msg := Message{
		ID:      uuid.NewString(),
		UserID:  user.ID,
		To:      user.Email,
		Subject: subj.Title,
		Text:    text,
		HTML:    html.String(),
	}
	if user.Phone != nil {
		msg.Phone = *user.Phone
	}
	return msg, nil
}
