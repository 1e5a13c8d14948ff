package services

import (
	"context"
	"fmt"
	"log/slog"

	"eventnexus/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	if logger == nil {
		logger = slog.Default()
	}
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

func (s *emailService) send(ctx context.Context, template, to string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(template, data)
	if err != nil {
		return fmt.Errorf("render %s template: %w", template, err)
	}
	if err := s.mailer.Send(ctx, to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send %s email: %w", template, err)
	}
	s.logger.InfoContext(ctx, "email sent", "template", template)
	return nil
}

func (s *emailService) SendPasswordReset(ctx context.Context, data *domain.PasswordResetEmailData) error {
	if data == nil {
		return fmt.Errorf("password reset data is nil")
	}
	return s.send(ctx, "password_reset", data.Email, data)
}

func (s *emailService) SendProposalReceived(ctx context.Context, data *domain.ProposalReceivedEmailData) error {
	if data == nil {
		return fmt.Errorf("proposal received data is nil")
	}
	return s.send(ctx, "proposal_received", data.Email, data)
}

func (s *emailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationConfirmationEmailData) error {
	if data == nil {
		return fmt.Errorf("registration confirmation data is nil")
	}
	return s.send(ctx, "registration_confirmation", data.Email, data)
}
