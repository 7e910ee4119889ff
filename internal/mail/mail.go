// Package mail sends transactional emails through Mailgun, with Hermes
// rendering the HTML bodies.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/matcornic/hermes/v2"

	"github.com/rolodex-dev/rolodex/internal/config"
	"github.com/rolodex-dev/rolodex/internal/logger"
)

type Sender interface {
	SendConfirmationMail(email, username, token string) error
	SendPasswordResetMail(email, username, token string) error
}

type Manager struct {
	hermes    *hermes.Hermes
	mailgun   *mailgun.MailgunImpl
	from      string
	appName   string
	publicURL string
	// Without an API key mails are rendered but not sent. Used in
	// development and tests.
	dryRun bool
}

const sendTimeout = 2 * time.Second

func New(cfg *config.Config) *Manager {
	dryRun := cfg.Private.MailgunKey == ""
	if dryRun {
		logger.Log.Info("no mailgun key configured, emails will not be sent")
	}

	return &Manager{
		hermes: &hermes.Hermes{
			Theme:         new(hermes.Default),
			TextDirection: hermes.TDLeftToRight,
			Product: hermes.Product{
				Name: cfg.Public.Mail.AppName,
				Link: cfg.Public.Mail.PublicURL,
			},
		},
		mailgun:   mailgun.NewMailgun(cfg.Public.Mail.Domain, cfg.Private.MailgunKey),
		from:      cfg.Public.Mail.Sender,
		appName:   cfg.Public.Mail.AppName,
		publicURL: cfg.Public.Mail.PublicURL,
		dryRun:    dryRun,
	}
}

func (m *Manager) SendConfirmationMail(email, username, token string) error {
	body := hermes.Email{
		Body: hermes.Body{
			Name: username,
			Intros: []string{
				fmt.Sprintf("Welcome to %s! We're very excited to have you on board.", m.appName),
			},
			Actions: []hermes.Action{
				{
					Instructions: "To confirm your email address, please click the button below:",
					Button: hermes.Button{
						Text: "Confirm email",
						Link: fmt.Sprintf("%s/auth/confirm/%s", m.publicURL, token),
					},
				},
			},
			Outros: []string{
				"If you did not sign up, you can safely ignore this email.",
			},
		},
	}
	return m.send(email, "Confirm your email", body)
}

func (m *Manager) SendPasswordResetMail(email, username, token string) error {
	body := hermes.Email{
		Body: hermes.Body{
			Name: username,
			Intros: []string{
				fmt.Sprintf("You have requested a password reset for your %s account.", m.appName),
			},
			Actions: []hermes.Action{
				{
					Instructions: "Use the following code to reset your password:",
					InviteCode:   token,
				},
			},
			Outros: []string{
				"If you did not request a password reset, no further action is required.",
			},
		},
	}
	return m.send(email, "Reset your password", body)
}

func (m *Manager) send(email, subject string, body hermes.Email) error {
	html, err := m.hermes.GenerateHTML(body)
	if err != nil {
		return fmt.Errorf("failed to render email: %w", err)
	}

	if m.dryRun {
		logger.Log.Info("skipping email send", "to", email, "subject", subject)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	message := m.mailgun.NewMessage(m.from, subject, "", email)
	message.SetHtml(html)
	if _, _, err := m.mailgun.Send(ctx, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.Log.Debug("email sent", "to", email, "subject", subject)
	return nil
}
