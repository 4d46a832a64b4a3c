package email

import (
	"fmt"
	"net/smtp"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/accountkit/go-account-server/accounts"
	"github.com/accountkit/go-account-server/internal/config"
)

var _ Sender = (*SMTPSender)(nil)

// SMTPSender delivers confirmation mail through the configured SMTP
// account. Delivery failures are logged, never propagated.
type SMTPSender struct {
	config config.EnvConfig
}

func NewSMTPSender(cfg config.EnvConfig) *SMTPSender {
	return &SMTPSender{config: cfg}
}

func (s *SMTPSender) SendEmailConfirmationToken(account *accounts.Account, token string) {
	from := s.config.GetSmtpAccount()
	host := s.config.GetSmtpHost()
	addr := host + ":" + s.config.GetSmtpPort()
	link := ConfirmationLink(s.config.GetBaseURL(), account.ID, token)

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Confirm your email\r\n\r\nConfirm your email address by opening the link below:\r\n\r\n%s\r\n",
		from, account.Email, link)

	auth := smtp.PlainAuth("", from, s.config.GetSmtpPassword(), host)
	if err := smtp.SendMail(addr, auth, from, []string{account.Email}, []byte(msg)); err != nil {
		log.Err(err).Str("email", account.Email).Msg("failed to send confirmation email")
	}
}

// ConfirmationLink builds the link a user opens to confirm their email.
// Tokens are URL-safe, but they are query-escaped anyway.
func ConfirmationLink(baseURL, accountID, token string) string {
	return fmt.Sprintf("%s/confirm-email?id=%s&token=%s",
		baseURL, url.QueryEscape(accountID), url.QueryEscape(token))
}
