package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders a named email template into subject, html
// and text bodies.
type EmailTemplateRenderer interface {
	Render(templateName string, data interface{}) (subject, htmlBody, textBody string, err error)
}

// TeamInviteEmailData holds data for the invite notification email.
type TeamInviteEmailData struct {
	Email      string
	Username   string
	TeamName   string
	InviteRole string
}

// EmailService defines the contract for sending domain-level emails. Sends
// are best-effort; a failed notification never fails the operation that
// triggered it.
type EmailService interface {
	SendTeamInvite(ctx context.Context, data *TeamInviteEmailData) error
}
