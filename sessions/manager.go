package sessions

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/accountkit/go-account-server/accounts"
)

// Manager establishes and tears down authenticated sessions and maps an
// incoming request's session evidence to the identity it claims.
type Manager struct {
	repo    Repo
	nowTime func() time.Time // nowTime function (injectable for testing)
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// NewManager initializes a new Manager backed by the given repo.
func NewManager(repo Repo, options ...ManagerOption) (*Manager, error) {
	if repo == nil {
		return nil, errors.New("[NewManager] session repo is required")
	}

	manager := &Manager{
		repo:    repo,
		nowTime: time.Now,
	}

	for _, opt := range options {
		opt(manager)
	}

	return manager, nil
}

// Establish creates a session carrying a snapshot of claims taken from the
// account at this instant and returns it. The session ID is the opaque
// handle the transport layer attaches to the outgoing response.
func (m *Manager) Establish(account *accounts.Account) (*Session, error) {
	if account == nil {
		return nil, errors.New("[Manager.Establish] account is required")
	}

	session := Session{
		ID:        uuid.New().String(),
		AccountID: account.ID,
		IssuedAt:  m.nowTime(),
		Claims: map[string]string{
			ClaimSubject:       account.ID,
			ClaimName:          account.UserName,
			ClaimEmail:         account.Email,
			ClaimEmailVerified: strconv.FormatBool(account.EmailConfirmed),
		},
	}

	if err := m.repo.Upsert(session.ID, session); err != nil {
		return nil, errors.Wrap(err, "[Manager.Establish] repo.Upsert")
	}
	return &session, nil
}

// Resolve returns the session the given evidence names, or (nil, nil) when
// there is no valid session for it.
func (m *Manager) Resolve(evidence string) (*Session, error) {
	session, err := m.repo.Get(evidence)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.Resolve] repo.Get")
	}
	return session, nil
}

// Clear terminates the session named by the evidence; subsequent Resolve
// calls with the same evidence return absence. Clearing an already-cleared
// session is not an error.
func (m *Manager) Clear(evidence string) error {
	if err := m.repo.Delete(evidence); err != nil {
		return errors.Wrap(err, "[Manager.Clear] repo.Delete")
	}
	return nil
}
