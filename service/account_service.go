package service

import (
	"github.com/pkg/errors"

	"github.com/accountkit/go-account-server/accounts"
	"github.com/accountkit/go-account-server/email"
	apperrors "github.com/accountkit/go-account-server/internal/errors"
	"github.com/accountkit/go-account-server/sessions"
	"github.com/accountkit/go-account-server/token"
)

// UserInfo is the result of resolving the current user from session
// evidence. Claims are whatever snapshot the session carried, echoed even
// when the account behind it no longer exists.
type UserInfo struct {
	Claims          map[string]string `json:"claims"`
	IsAuthenticated bool              `json:"is_authenticated"`
	Account         *accounts.Account `json:"account,omitempty"`
}

// AccountService orchestrates the credential store, token codec and
// session manager into the operations the controller calls. It is the sole
// entry point; no other component mutates accounts or sessions.
type AccountService struct {
	store       accounts.Store
	tokens      *token.Codec
	sessions    *sessions.Manager
	emailSender email.Sender
}

// NewAccountService initializes a new AccountService with required dependencies.
func NewAccountService(
	store accounts.Store,
	tokens *token.Codec,
	sessionManager *sessions.Manager,
	emailSender email.Sender,
) (*AccountService, error) {
	if store == nil {
		return nil, errors.New("[NewAccountService] account store is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewAccountService] token codec is required")
	}
	if sessionManager == nil {
		return nil, errors.New("[NewAccountService] session manager is required")
	}
	if emailSender == nil {
		return nil, errors.New("[NewAccountService] email sender is required")
	}

	return &AccountService{
		store:       store,
		tokens:      tokens,
		sessions:    sessionManager,
		emailSender: emailSender,
	}, nil
}

// Create registers a new account, dispatches a confirmation token through
// the email sender and establishes a session. The account is logged in
// immediately, before its email is confirmed, matching the original
// behavior. Email dispatch is best-effort; its failure never rolls back
// the creation.
func (as *AccountService) Create(userName, email, password string) (*accounts.Account, *sessions.Session, error) {
	if err := accounts.ValidatePasswordStrength(password); err != nil {
		return nil, nil, err
	}

	account, err := as.store.Create(userName, email, password)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrDuplicateUserName) || apperrors.Is(err, apperrors.ErrDuplicateEmail) {
			return nil, nil, err
		}
		return nil, nil, errors.Wrap(err, "[AccountService.Create] store.Create")
	}

	confirmToken, err := as.tokens.Issue(token.PurposeConfirmEmail, account)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[AccountService.Create] tokens.Issue")
	}
	as.emailSender.SendEmailConfirmationToken(account, confirmToken)

	session, err := as.sessions.Establish(account)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[AccountService.Create] sessions.Establish")
	}

	return account, session, nil
}

// ConfirmEmail validates a confirmation token against the account's live
// security stamp, marks the email confirmed and establishes a session.
// The stamp comparison rejects both tampered tokens and stale ones: a
// token issued before a password change, or one already spent on a
// successful confirmation.
func (as *AccountService) ConfirmEmail(accountID, rawToken string) (*accounts.Account, *sessions.Session, error) {
	account, err := as.store.GetByID(accountID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[AccountService.ConfirmEmail] store.GetByID")
	}
	if account == nil {
		return nil, nil, apperrors.ErrNotFound
	}

	payload, err := as.tokens.Decode(token.PurposeConfirmEmail, rawToken)
	if err != nil {
		return nil, nil, apperrors.ErrInvalidToken
	}
	if payload.AccountID != account.ID || payload.Stamp != account.SecurityStamp {
		return nil, nil, apperrors.ErrInvalidToken
	}

	if err := as.store.MarkEmailConfirmed(account.ID); err != nil {
		return nil, nil, errors.Wrap(err, "[AccountService.ConfirmEmail] store.MarkEmailConfirmed")
	}

	// Re-read so the session claims snapshot carries the confirmed state
	account, err = as.store.GetByID(accountID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[AccountService.ConfirmEmail] store.GetByID after confirm")
	}
	if account == nil {
		return nil, nil, apperrors.ErrNotFound
	}

	session, err := as.sessions.Establish(account)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[AccountService.ConfirmEmail] sessions.Establish")
	}

	return account, session, nil
}

// LogIn authenticates by email and password and establishes a session.
// An unknown email and a wrong password return the identical
// ErrWrongCredentials, so a caller cannot probe which emails are
// registered.
func (as *AccountService) LogIn(email, password string) (*accounts.Account, *sessions.Session, error) {
	account, err := as.store.GetByEmail(email)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[AccountService.LogIn] store.GetByEmail")
	}
	if account == nil {
		// Mask that an account with that email does not exist.
		return nil, nil, apperrors.ErrWrongCredentials
	}

	if !as.store.VerifyPassword(account, password) {
		return nil, nil, apperrors.ErrWrongCredentials
	}

	session, err := as.sessions.Establish(account)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[AccountService.LogIn] sessions.Establish")
	}

	return account, session, nil
}

// LogOut clears the session named by the evidence. Logging out without a
// session is a transport concern, not an error here.
func (as *AccountService) LogOut(evidence string) error {
	if err := as.sessions.Clear(evidence); err != nil {
		return errors.Wrap(err, "[AccountService.LogOut] sessions.Clear")
	}
	return nil
}

// CurrentUser resolves session evidence into the account it names. When
// the session points at an account that no longer exists, the session is
// proactively cleared and the caller reported unauthenticated - but the
// raw claims the session carried are still echoed.
func (as *AccountService) CurrentUser(evidence string) (*UserInfo, error) {
	info := &UserInfo{Claims: map[string]string{}}

	session, err := as.sessions.Resolve(evidence)
	if err != nil {
		return nil, errors.Wrap(err, "[AccountService.CurrentUser] sessions.Resolve")
	}
	if session == nil {
		return info, nil
	}

	info.Claims = session.Claims

	account, err := as.store.GetByID(session.AccountID)
	if err != nil {
		return nil, errors.Wrap(err, "[AccountService.CurrentUser] store.GetByID")
	}
	if account == nil {
		// Self-healing: the account vanished since the session was
		// established, so the session is dead weight.
		if err := as.sessions.Clear(session.ID); err != nil {
			return nil, errors.Wrap(err, "[AccountService.CurrentUser] sessions.Clear")
		}
		return info, nil
	}

	info.IsAuthenticated = true
	info.Account = account
	return info, nil
}

// SetPassword replaces the caller's password after verifying the current
// one. The security stamp bump invalidates outstanding tokens; the
// caller's own session is deliberately kept, matching the original
// behavior.
func (as *AccountService) SetPassword(evidence, currentPassword, newPassword string) error {
	session, err := as.sessions.Resolve(evidence)
	if err != nil {
		return errors.Wrap(err, "[AccountService.SetPassword] sessions.Resolve")
	}
	if session == nil {
		return apperrors.ErrUnauthenticated
	}

	account, err := as.store.GetByID(session.AccountID)
	if err != nil {
		return errors.Wrap(err, "[AccountService.SetPassword] store.GetByID")
	}
	if account == nil {
		return apperrors.ErrNotFound
	}

	if !as.store.VerifyPassword(account, currentPassword) {
		return apperrors.ErrWrongCredentials
	}

	if err := accounts.ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	newHash, err := accounts.HashPassword(newPassword)
	if err != nil {
		return errors.Wrap(err, "[AccountService.SetPassword] hashing password")
	}

	if err := as.store.SetPasswordHash(account.ID, newHash); err != nil {
		return errors.Wrap(err, "[AccountService.SetPassword] store.SetPasswordHash")
	}
	return nil
}
