package entity

import "github.com/joseph-ayodele/poster-outreach/constants"

// EmailTemplate is a static subject/body pair with {field} placeholders.
type EmailTemplate struct {
	ID      string
	Subject string
	Body    string
	Role    constants.RecipientRole
}

// TemplateInfo is the listing shape of a template.
type TemplateInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RenderedEmail is a message ready to send or preview.
type RenderedEmail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
