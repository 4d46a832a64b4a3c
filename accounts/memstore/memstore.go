package memstore

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/accountkit/go-account-server/accounts"
	apperrors "github.com/accountkit/go-account-server/internal/errors"
)

var _ accounts.Store = (*Store)(nil)

// Store is an in-memory implementation of accounts.Store. The uniqueness
// check and insert in Create run under one write lock, and all mutations on
// a single account are linearized by the same lock, so a concurrent
// password set and email confirmation cannot both read a stale security
// stamp.
type Store struct {
	mu        sync.RWMutex
	accounts  map[string]accounts.Account // id -> account
	userNames map[string]string           // folded userName -> id
	emails    map[string]string           // folded email -> id
	nowTime   func() time.Time
}

type Option func(*Store)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *Store) {
		s.nowTime = nowFunc
	}
}

func New(options ...Option) *Store {
	s := &Store{
		accounts:  make(map[string]accounts.Account),
		userNames: make(map[string]string),
		emails:    make(map[string]string),
		nowTime:   time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// fold normalizes userName and email keys for case-insensitive uniqueness
func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *Store) GetByID(id string) (*accounts.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	return &account, nil
}

func (s *Store) GetByUserName(userName string) (*accounts.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.userNames[fold(userName)]
	if !ok {
		return nil, nil
	}
	account := s.accounts[id]
	return &account, nil
}

func (s *Store) GetByEmail(email string) (*accounts.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[fold(email)]
	if !ok {
		return nil, nil
	}
	account := s.accounts[id]
	return &account, nil
}

func (s *Store) Create(userName, email, plaintextPassword string) (*accounts.Account, error) {
	hash, err := accounts.HashPassword(plaintextPassword)
	if err != nil {
		return nil, apperrors.Wrapf(err, "memstore.Create: hashing password")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.userNames[fold(userName)]; taken {
		return nil, apperrors.ErrDuplicateUserName
	}
	if _, taken := s.emails[fold(email)]; taken {
		return nil, apperrors.ErrDuplicateEmail
	}

	account := accounts.Account{
		ID:             uuid.New().String(),
		UserName:       userName,
		Email:          email,
		PasswordHash:   hash,
		EmailConfirmed: false,
		SecurityStamp:  uuid.New().String(),
		CreatedAt:      s.nowTime(),
	}

	s.accounts[account.ID] = account
	s.userNames[fold(userName)] = account.ID
	s.emails[fold(email)] = account.ID

	return &account, nil
}

func (s *Store) SetPasswordHash(id, newHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return apperrors.ErrNotFound
	}

	account.PasswordHash = newHash
	account.SecurityStamp = uuid.New().String()
	s.accounts[id] = account
	return nil
}

func (s *Store) MarkEmailConfirmed(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if account.EmailConfirmed {
		return nil
	}

	account.EmailConfirmed = true
	account.SecurityStamp = uuid.New().String()
	s.accounts[id] = account
	return nil
}

func (s *Store) VerifyPassword(account *accounts.Account, plaintext string) bool {
	if account == nil {
		return false
	}
	return accounts.CheckPasswordHash(plaintext, account.PasswordHash)
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil
	}

	delete(s.userNames, fold(account.UserName))
	delete(s.emails, fold(account.Email))
	delete(s.accounts, id)
	return nil
}
