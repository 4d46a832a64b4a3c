package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/accountkit/go-account-server/accounts"
	"github.com/accountkit/go-account-server/accounts/memstore"
	apperrors "github.com/accountkit/go-account-server/internal/errors"
	"github.com/accountkit/go-account-server/service"
	"github.com/accountkit/go-account-server/sessions"
	"github.com/accountkit/go-account-server/token"
)

const (
	secretStr        = "test-secret"
	testUserName     = "alice"
	testUserEmail    = "a@x.com"
	testUserPassword = "P@ssword1"
	testNewPassword  = "N3wPassword2"
)

// captureSender records the last confirmation dispatch instead of sending mail
type captureSender struct {
	account *accounts.Account
	token   string
	calls   int
}

func (c *captureSender) SendEmailConfirmationToken(account *accounts.Account, token string) {
	c.account = account
	c.token = token
	c.calls++
}

// testFixture holds all test dependencies
type testFixture struct {
	store    *memstore.Store
	codec    *token.Codec
	sessions *sessions.Manager
	sender   *captureSender
	service  *service.AccountService
}

// setupTestFixture creates a new test fixture with all dependencies
func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	store := memstore.New()

	codec, err := token.NewCodec(token.NewHMACSigner(secretStr))
	require.NoError(t, err)

	sessionManager, err := sessions.NewManager(sessions.NewInMemoryRepo())
	require.NoError(t, err)

	sender := &captureSender{}

	accountService, err := service.NewAccountService(store, codec, sessionManager, sender)
	require.NoError(t, err)

	return &testFixture{
		store:    store,
		codec:    codec,
		sessions: sessionManager,
		sender:   sender,
		service:  accountService,
	}
}

// createTestAccount registers an account through the service and returns it
// with the session established by the auto-login
func (f *testFixture) createTestAccount(t *testing.T) (*accounts.Account, *sessions.Session) {
	t.Helper()
	account, session, err := f.service.Create(testUserName, testUserEmail, testUserPassword)
	require.NoError(t, err)
	return account, session
}

func TestCreate(t *testing.T) {
	f := setupTestFixture(t)

	account, session, err := f.service.Create(testUserName, testUserEmail, testUserPassword)
	require.NoError(t, err)
	require.NotEmpty(t, account.ID)
	require.False(t, account.EmailConfirmed)

	// Auto-login before email confirmation, matching the original behavior
	require.NotNil(t, session)
	resolved, err := f.sessions.Resolve(session.ID)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	require.Equal(t, account.ID, resolved.AccountID)
	require.Equal(t, "false", resolved.Claims[sessions.ClaimEmailVerified])

	// Confirmation token was dispatched and binds the account's live stamp
	require.Equal(t, 1, f.sender.calls)
	require.Equal(t, account.ID, f.sender.account.ID)
	payload, err := f.codec.Decode(token.PurposeConfirmEmail, f.sender.token)
	require.NoError(t, err)
	require.Equal(t, account.ID, payload.AccountID)
	require.Equal(t, account.SecurityStamp, payload.Stamp)
}

func TestCreateDuplicates(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestAccount(t)

	_, _, err := f.service.Create(testUserName, "other@x.com", testUserPassword)
	require.ErrorIs(t, err, apperrors.ErrDuplicateUserName)

	_, _, err = f.service.Create("bob", testUserEmail, testUserPassword)
	require.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

	// The losers dispatched nothing
	require.Equal(t, 1, f.sender.calls)
}

func TestCreateRejectsWeakPassword(t *testing.T) {
	f := setupTestFixture(t)

	_, _, err := f.service.Create(testUserName, testUserEmail, "short")
	require.Error(t, err)

	account, err := f.store.GetByEmail(testUserEmail)
	require.NoError(t, err)
	require.Nil(t, account)
	require.Zero(t, f.sender.calls)
}

func TestConfirmEmail(t *testing.T) {
	f := setupTestFixture(t)
	account, _ := f.createTestAccount(t)

	confirmed, session, err := f.service.ConfirmEmail(account.ID, f.sender.token)
	require.NoError(t, err)
	require.True(t, confirmed.EmailConfirmed)

	// The fresh session's claims carry the confirmed state
	require.Equal(t, "true", session.Claims[sessions.ClaimEmailVerified])

	stored, err := f.store.GetByID(account.ID)
	require.NoError(t, err)
	require.True(t, stored.EmailConfirmed)
	require.NotEqual(t, account.SecurityStamp, stored.SecurityStamp)
}

func TestConfirmEmailReplayRejected(t *testing.T) {
	f := setupTestFixture(t)
	account, _ := f.createTestAccount(t)
	confirmToken := f.sender.token

	_, _, err := f.service.ConfirmEmail(account.ID, confirmToken)
	require.NoError(t, err)

	// The confirm bumped the stamp, so the spent token no longer matches
	_, _, err = f.service.ConfirmEmail(account.ID, confirmToken)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestConfirmEmailDistinguishesNotFoundFromBadToken(t *testing.T) {
	f := setupTestFixture(t)
	account, _ := f.createTestAccount(t)

	_, _, err := f.service.ConfirmEmail("no-such-account", f.sender.token)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	_, _, err = f.service.ConfirmEmail(account.ID, "garbage")
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestConfirmTokenInvalidatedByPasswordChange(t *testing.T) {
	f := setupTestFixture(t)
	account, session := f.createTestAccount(t)
	confirmToken := f.sender.token

	require.NoError(t, f.service.SetPassword(session.ID, testUserPassword, testNewPassword))

	// Stamp changed, so the token dies before its expiry
	_, _, err := f.service.ConfirmEmail(account.ID, confirmToken)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestConfirmEmailRejectsTokenForOtherAccount(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestAccount(t)
	aliceToken := f.sender.token

	bob, _, err := f.service.Create("bob", "b@x.com", testUserPassword)
	require.NoError(t, err)

	_, _, err = f.service.ConfirmEmail(bob.ID, aliceToken)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestLogIn(t *testing.T) {
	f := setupTestFixture(t)
	account, _ := f.createTestAccount(t)

	loggedIn, session, err := f.service.LogIn(testUserEmail, testUserPassword)
	require.NoError(t, err)
	require.Equal(t, account.ID, loggedIn.ID)

	resolved, err := f.sessions.Resolve(session.ID)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	require.Equal(t, account.ID, resolved.AccountID)
}

func TestLogInMasksUnknownEmail(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestAccount(t)

	_, _, unknownEmailErr := f.service.LogIn("nobody@x.com", testUserPassword)
	require.ErrorIs(t, unknownEmailErr, apperrors.ErrWrongCredentials)

	_, _, wrongPasswordErr := f.service.LogIn(testUserEmail, "WrongPass1")
	require.ErrorIs(t, wrongPasswordErr, apperrors.ErrWrongCredentials)

	// Identical kind and message: a caller cannot tell the cases apart
	require.Equal(t, unknownEmailErr.Error(), wrongPasswordErr.Error())
}

func TestLogOut(t *testing.T) {
	f := setupTestFixture(t)
	_, session := f.createTestAccount(t)

	require.NoError(t, f.service.LogOut(session.ID))

	resolved, err := f.sessions.Resolve(session.ID)
	require.NoError(t, err)
	require.Nil(t, resolved)

	// Logging out again, or without a session, is not an error
	require.NoError(t, f.service.LogOut(session.ID))
	require.NoError(t, f.service.LogOut(""))
}

func TestCurrentUser(t *testing.T) {
	f := setupTestFixture(t)
	account, session := f.createTestAccount(t)

	info, err := f.service.CurrentUser(session.ID)
	require.NoError(t, err)
	require.True(t, info.IsAuthenticated)
	require.NotNil(t, info.Account)
	require.Equal(t, account.ID, info.Account.ID)
	require.Equal(t, testUserName, info.Claims[sessions.ClaimName])
}

func TestCurrentUserWithoutSession(t *testing.T) {
	f := setupTestFixture(t)

	info, err := f.service.CurrentUser("no-such-session")
	require.NoError(t, err)
	require.False(t, info.IsAuthenticated)
	require.Nil(t, info.Account)
	require.Empty(t, info.Claims)
}

func TestCurrentUserClearsSessionForVanishedAccount(t *testing.T) {
	f := setupTestFixture(t)
	account, session := f.createTestAccount(t)

	require.NoError(t, f.store.Delete(account.ID))

	info, err := f.service.CurrentUser(session.ID)
	require.NoError(t, err)
	require.False(t, info.IsAuthenticated)
	require.Nil(t, info.Account)
	// The stale claims the session carried are still echoed
	require.Equal(t, account.ID, info.Claims[sessions.ClaimSubject])

	// Self-healing: the session is gone, so a second resolve comes back
	// unauthenticated with no claims at all
	info, err = f.service.CurrentUser(session.ID)
	require.NoError(t, err)
	require.False(t, info.IsAuthenticated)
	require.Empty(t, info.Claims)
}

func TestSetPassword(t *testing.T) {
	f := setupTestFixture(t)
	account, session := f.createTestAccount(t)

	require.NoError(t, f.service.SetPassword(session.ID, testUserPassword, testNewPassword))

	// Old password is dead, new one works
	_, _, err := f.service.LogIn(testUserEmail, testUserPassword)
	require.ErrorIs(t, err, apperrors.ErrWrongCredentials)
	_, _, err = f.service.LogIn(testUserEmail, testNewPassword)
	require.NoError(t, err)

	// Stamp bumped, caller's own session deliberately kept
	updated, err := f.store.GetByID(account.ID)
	require.NoError(t, err)
	require.NotEqual(t, account.SecurityStamp, updated.SecurityStamp)

	resolved, err := f.sessions.Resolve(session.ID)
	require.NoError(t, err)
	require.NotNil(t, resolved)
}

func TestSetPasswordWrongCurrent(t *testing.T) {
	f := setupTestFixture(t)
	account, session := f.createTestAccount(t)

	err := f.service.SetPassword(session.ID, "WrongPass1", testNewPassword)
	require.ErrorIs(t, err, apperrors.ErrWrongCredentials)

	// Stored hash and stamp unchanged
	unchanged, err := f.store.GetByID(account.ID)
	require.NoError(t, err)
	require.Equal(t, account.PasswordHash, unchanged.PasswordHash)
	require.Equal(t, account.SecurityStamp, unchanged.SecurityStamp)
}

func TestSetPasswordRequiresSession(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestAccount(t)

	err := f.service.SetPassword("no-such-session", testUserPassword, testNewPassword)
	require.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestSetPasswordAccountVanished(t *testing.T) {
	f := setupTestFixture(t)
	account, session := f.createTestAccount(t)

	require.NoError(t, f.store.Delete(account.ID))

	err := f.service.SetPassword(session.ID, testUserPassword, testNewPassword)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSetPasswordRejectsWeakPassword(t *testing.T) {
	f := setupTestFixture(t)
	account, session := f.createTestAccount(t)

	err := f.service.SetPassword(session.ID, testUserPassword, "short")
	require.Error(t, err)

	unchanged, err := f.store.GetByID(account.ID)
	require.NoError(t, err)
	require.Equal(t, account.SecurityStamp, unchanged.SecurityStamp)
}
