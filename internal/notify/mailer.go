// Package notify holds the outbound notification surfaces: the welcome email
// sender (an external collaborator behind the Mailer interface) and the ops
// Slack announcer.
package notify

import (
	"context"

	"github.com/rs/zerolog/log"
)

// WelcomePackage is the content of the onboarding welcome notice.
type WelcomePackage struct {
	To               string
	OrganizationName string
	AccessURL        string
	AdminFirstName   string
}

// Mailer sends transactional email. The real sender is an external service;
// this interface keeps it injectable.
type Mailer interface {
	SendWelcome(ctx context.Context, pkg WelcomePackage) error
}

// LogMailer is the default Mailer when no email service is configured. It
// records the welcome package instead of sending it.
type LogMailer struct{}

func (LogMailer) SendWelcome(_ context.Context, pkg WelcomePackage) error {
	log.Info().
		Str("to", pkg.To).
		Str("organization", pkg.OrganizationName).
		Str("access_url", pkg.AccessURL).
		Msg("welcome email (no mailer configured)")
	return nil
}
