package sessions

// Repo defines the interface for session storage operations.
type Repo interface {
	// Upsert creates or updates a session
	Upsert(sessionID string, session Session) error

	// Get retrieves a session by ID; absence is (nil, nil), not an error
	Get(sessionID string) (*Session, error)

	// Delete removes a session by ID; deleting a missing session is not an error
	Delete(sessionID string) error
}
