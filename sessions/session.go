package sessions

import "time"

// Session is evidence that a caller has authenticated as a given account.
// Claims are a point-in-time snapshot taken from the account at
// establishment; they are not re-validated against live account state here.
type Session struct {
	ID        string            // Opaque handle the transport layer attaches to responses (cookie value)
	AccountID string            // Account this session authenticates
	IssuedAt  time.Time         // When the session was established
	Claims    map[string]string // Snapshot of account claims at establishment
}

// Claim keys populated at session establishment.
const (
	ClaimSubject       = "sub"
	ClaimName          = "name"
	ClaimEmail         = "email"
	ClaimEmailVerified = "email_verified"
)
