package services

import (
	"embed"
	"fmt"
	"html"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// templateMeta describes one built-in email template.
type templateMeta struct {
	ID           string
	Name         string
	File         string
	Placeholders []string
	Sample       map[string]string
}

// globalTemplates are the team request emails editable by admins.
var globalTemplates = []templateMeta{
	{
		ID:           "request_created",
		Name:         "Team Request Created",
		File:         "templates/request_created.html",
		Placeholders: []string{"recipient_name", "sender_name", "message", "cta_url", "profile_url"},
		Sample: map[string]string{
			"recipient_name": "Riya",
			"sender_name":    "Aarav",
			"message":        "Would you like to join our capstone team?",
			"cta_url":        "http://localhost:8000/requests",
			"profile_url":    "http://localhost:8000/profile?user_id=sample",
		},
	},
	{
		ID:           "request_accepted",
		Name:         "Team Request Accepted",
		File:         "templates/request_accepted.html",
		Placeholders: []string{"recipient_name", "accepter_name", "cta_url"},
		Sample: map[string]string{
			"recipient_name": "Aarav",
			"accepter_name":  "Riya",
			"cta_url":        "http://localhost:8000/requests",
		},
	},
}

// mentorTemplates are the mentorship emails each mentor can override.
var mentorTemplates = []templateMeta{
	{
		ID:           "mentor_request_created",
		Name:         "Mentorship Request Created",
		File:         "templates/mentor_request_created.html",
		Placeholders: []string{"recipient_name", "sender_name", "message", "cta_url"},
		Sample: map[string]string{
			"recipient_name": "Mentor",
			"sender_name":    "Aarav",
			"message":        "I'd love to get your guidance on my capstone.",
			"cta_url":        "http://localhost:8000/mentor/dashboard",
		},
	},
	{
		ID:           "mentor_request_accepted",
		Name:         "Mentorship Request Accepted",
		File:         "templates/mentor_request_accepted.html",
		Placeholders: []string{"recipient_name", "mentor_name", "cta_url"},
		Sample: map[string]string{
			"recipient_name": "Aarav",
			"mentor_name":    "Riya",
			"cta_url":        "http://localhost:8000/requests",
		},
	},
}

// adminTemplates are send-only and never exposed through the template API.
var adminTemplates = []templateMeta{
	{
		ID:   "mentor_application_created",
		File: "templates/mentor_application_created.html",
		Placeholders: []string{
			"recipient_name", "applicant_name", "applicant_email", "domain",
			"experience_years", "expertise", "availability", "bio", "links", "cta_url",
		},
	},
	{
		ID:           "mentor_application_approved",
		File:         "templates/mentor_application_approved.html",
		Placeholders: []string{"recipient_name", "cta_url"},
	},
}

func findTemplate(registry []templateMeta, templateID string) (templateMeta, bool) {
	for _, meta := range registry {
		if meta.ID == templateID {
			return meta, true
		}
	}
	return templateMeta{}, false
}

func readDefaultTemplate(file string) (string, error) {
	data, err := templateFS.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read embedded template %s: %w", file, err)
	}
	return string(data), nil
}

// renderTemplate substitutes {{key}} placeholders with HTML-escaped values.
// The message placeholder keeps line breaks as <br>.
func renderTemplate(template string, context map[string]string) string {
	rendered := template
	for key, value := range context {
		escaped := html.EscapeString(value)
		if key == "message" {
			escaped = strings.ReplaceAll(escaped, "\n", "<br>")
		}
		rendered = strings.ReplaceAll(rendered, "{{"+key+"}}", escaped)
	}
	return rendered
}
