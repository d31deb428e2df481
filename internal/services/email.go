package services

import (
	"context"
	"fmt"
	"log"

	"axleague/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and
// template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendTeamInvite sends the invite notification using the "team_invite"
// template and the given data.
func (s *emailService) SendTeamInvite(ctx context.Context, data *domain.TeamInviteEmailData) error {
	if data == nil {
		return fmt.Errorf("team invite data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("team_invite", data)
	if err != nil {
		return fmt.Errorf("failed to render team_invite template: %w", err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send team invite email: %w", err)
	}
	log.Printf("[EMAIL] Team invite sent to %s", data.Email)
	return nil
}
