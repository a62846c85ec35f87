package mailer

import (
	"strings"

	"github.com/outreach/internal/model"
)

// Placeholder is replaced with the recipient's organization.
const Placeholder = "{company}"

// DefaultSubject is used when a batch is submitted without a subject.
const DefaultSubject = "Job Application for " + Placeholder

// Render substitutes every Placeholder in tmpl with the contact's organization.
// An empty organization renders as an empty string.
func Render(tmpl string, c model.Contact) string {
	return strings.ReplaceAll(tmpl, Placeholder, c.Organization)
}

// RenderMessage builds the message a single contact receives. The attachment
// pointer is shared, never copied.
func RenderMessage(req model.BatchRequest, c model.Contact) model.Message {
	subject := req.SubjectTemplate
	if strings.TrimSpace(subject) == "" {
		subject = DefaultSubject
	}
	return model.Message{
		To:         c.Email,
		Subject:    Render(subject, c),
		Body:       Render(req.BodyTemplate, c),
		Attachment: req.Attachment,
	}
}
