package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// AnnouncementEmailData holds data for the workshop announcement email.
type AnnouncementEmailData struct {
	Workshop *Workshop
	PageURL  string
}

// AnnouncementResult reports delivery per recipient. Failed maps recipient to error text.
type AnnouncementResult struct {
	Sent   int               `json:"sent"`
	Failed map[string]string `json:"failed,omitempty"`
}

// AnnouncementService sends the published programme to a recipient list.
type AnnouncementService interface {
	Announce(ctx context.Context, slug, pageURL string, recipients []string) (*AnnouncementResult, error)
}
