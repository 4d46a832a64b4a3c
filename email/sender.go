// Package email holds the outbound mail collaborator consumed by the
// account service. Delivery is best-effort: the service never relies on a
// return value, and a delivery failure never rolls back account creation.
package email

import "github.com/accountkit/go-account-server/accounts"

// Sender dispatches account-related mail. Implementations handle their own
// failures (logging, retries); callers treat dispatch as fire-and-forget.
type Sender interface {
	SendEmailConfirmationToken(account *accounts.Account, token string)
}
