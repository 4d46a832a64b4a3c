package accounts

// Store persists account records and hashed credentials and enforces the
// uniqueness invariants over UserName and Email. Lookups are
// case-insensitive and return (nil, nil) when no account matches.
//
// Create performs its uniqueness check and insert as a single atomic unit:
// of two concurrent Create calls with the same userName or email, at most
// one succeeds. Mutations on a single account are linearized by the store.
type Store interface {
	GetByID(id string) (*Account, error)
	GetByUserName(userName string) (*Account, error)
	GetByEmail(email string) (*Account, error)

	// Create hashes the password, assigns a fresh ID and security stamp and
	// stores the account with EmailConfirmed=false. Returns
	// errors.ErrDuplicateUserName or errors.ErrDuplicateEmail when either
	// is already taken.
	Create(userName, email, plaintextPassword string) (*Account, error)

	// SetPasswordHash replaces the stored hash and bumps the security
	// stamp, invalidating all previously issued tokens for the account.
	SetPasswordHash(id, newHash string) error

	// MarkEmailConfirmed sets EmailConfirmed and bumps the security stamp.
	// EmailConfirmed never reverts to false.
	MarkEmailConfirmed(id string) error

	// VerifyPassword checks a plaintext password against the account's
	// stored hash. The plaintext is never logged or echoed.
	VerifyPassword(account *Account, plaintext string) bool

	Delete(id string) error
}
