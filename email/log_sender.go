package email

import (
	"github.com/rs/zerolog/log"

	"github.com/accountkit/go-account-server/accounts"
)

var _ Sender = (*LogSender)(nil)

// LogSender writes confirmation links to the log instead of sending mail.
// Used in development, where no SMTP account is configured.
type LogSender struct {
	baseURL string
}

func NewLogSender(baseURL string) *LogSender {
	return &LogSender{baseURL: baseURL}
}

func (s *LogSender) SendEmailConfirmationToken(account *accounts.Account, token string) {
	log.Info().
		Str("email", account.Email).
		Str("link", ConfirmationLink(s.baseURL, account.ID, token)).
		Msg("email confirmation link")
}
