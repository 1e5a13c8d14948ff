package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// PasswordResetEmailData holds data for the password reset email.
type PasswordResetEmailData struct {
	Email    string
	ResetURL string
}

// ProposalReceivedEmailData holds data for the speaker proposal confirmation.
type ProposalReceivedEmailData struct {
	Email string
	Name  string
}

// RegistrationConfirmationEmailData holds data for the registration confirmation.
type RegistrationConfirmationEmailData struct {
	Email      string
	Name       string
	EventTitle string
	EventDate  string
	EventTime  string
	Location   string
	EventURL   string
	Paid       bool
}

// EmailService sends the domain-level emails.
type EmailService interface {
	SendPasswordReset(ctx context.Context, data *PasswordResetEmailData) error
	SendProposalReceived(ctx context.Context, data *ProposalReceivedEmailData) error
	SendRegistrationConfirmation(ctx context.Context, data *RegistrationConfirmationEmailData) error
}
