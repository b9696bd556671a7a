package auth

import "github.com/rs/zerolog/log"

// Mailer delivers authentication emails. The default implementation only
// logs the reset link; deployments front it with a real delivery service.
type Mailer interface {
	SendPasswordReset(email, link string) error
}

// LogMailer writes reset links to the application log instead of sending
// mail. Useful for development and for setups where an external process
// tails the log for delivery.
type LogMailer struct{}

// SendPasswordReset logs the reset link for the given address.
func (LogMailer) SendPasswordReset(email, link string) error {
	log.Info().
		Str("email", email).
		Str("link", link).
		Msg("password reset requested")

	return nil
}
