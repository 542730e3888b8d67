package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Email is a rendered message ready for an email sender.
type Email struct {
	From    string
	To      string
	Subject string
	HTML    string
}

var funcs = template.FuncMap{
	"longDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("Monday, January 2, 2006")
	},
	"minutes": func(d time.Duration) int {
		if d <= 0 {
			return 10
		}
		return int(d / time.Minute)
	},
}

var templates = mustParseTemplates()

func mustParseTemplates() map[Template]*template.Template {
	out := make(map[Template]*template.Template)
	for _, name := range []Template{TemplateVerificationCode, TemplateApplicationReceived, TemplateInterviewScheduled} {
		t := template.Must(template.New(string(name)).Funcs(funcs).ParseFS(templateFiles,
			"templates/layout.html",
			"templates/"+string(name)+".html",
		))
		out[name] = t
	}
	return out
}

// Render turns msg into a subject and HTML body.
func Render(msg Message) (Email, error) {
	if err := msg.Validate(); err != nil {
		return Email{}, err
	}
	t, ok := templates[msg.Template]
	if !ok {
		return Email{}, fmt.Errorf("unknown template %q", msg.Template)
	}
	var subject, body bytes.Buffer
	if err := t.ExecuteTemplate(&subject, "subject", msg); err != nil {
		return Email{}, fmt.Errorf("render %s subject: %w", msg.Template, err)
	}
	if err := t.ExecuteTemplate(&body, "layout", msg); err != nil {
		return Email{}, fmt.Errorf("render %s body: %w", msg.Template, err)
	}
	return Email{
		To:      msg.To.Email,
		Subject: html.UnescapeString(strings.TrimSpace(subject.String())),
		HTML:    body.String(),
	}, nil
}
