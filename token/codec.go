package token

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/accountkit/go-account-server/accounts"
)

// Purposes constrain what a token may be used for. A token issued for one
// purpose is rejected when decoded for another.
const (
	PurposeConfirmEmail = "confirm-email"
)

// DefaultTTL is the token lifetime used when none is configured.
const DefaultTTL = 24 * time.Hour

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrWrongPurpose   = errors.New("wrong token purpose")
	ErrTokenExpired   = errors.New("token expired")
)

// Payload is the decoded content of a token. Stamp is the account's
// security stamp at issuance time; comparing it against the live account
// is the caller's job, because the codec has no store access.
type Payload struct {
	Purpose   string
	AccountID string
	Stamp     string
	ExpiresAt time.Time
}

// Codec issues and validates opaque, purpose-bound, time-limited tokens.
// Tokens are URL-safe signed JWTs, so a client cannot forge or alter the
// embedded account id or stamp.
type Codec struct {
	signer  Signer
	ttl     time.Duration
	nowTime func() time.Time // nowTime function (injectable for testing)
}

// CodecOption defines a function type to modify the Codec instance.
type CodecOption func(*Codec)

// WithTTL overrides the default token lifetime
func WithTTL(ttl time.Duration) CodecOption {
	return func(c *Codec) {
		c.ttl = ttl
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowTime = nowFunc
	}
}

// NewCodec creates a codec that signs tokens with the given signer.
func NewCodec(signer Signer, options ...CodecOption) (*Codec, error) {
	if signer == nil {
		return nil, errors.New("[NewCodec] signer is required")
	}

	codec := &Codec{
		signer:  signer,
		ttl:     DefaultTTL,
		nowTime: time.Now,
	}

	for _, opt := range options {
		opt(codec)
	}

	return codec, nil
}

// Issue produces a signed token binding purpose, account id, the account's
// current security stamp and an expiry timestamp.
func (c *Codec) Issue(purpose string, account *accounts.Account) (string, error) {
	if account == nil {
		return "", errors.New("[Codec.Issue] account is required")
	}

	now := c.nowTime()
	claims := jwtlib.MapClaims{
		"purpose": purpose,
		"sub":     account.ID,
		"stamp":   account.SecurityStamp,
		"iat":     now.Unix(),
		"exp":     now.Add(c.ttl).Unix(),
		"jti":     uuid.New().String(),
	}

	signedToken, err := c.signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("[Codec.Issue] signing token: %w", err)
	}
	return signedToken, nil
}

// Decode verifies a raw token for the given purpose and returns its
// payload. Fails with ErrMalformedToken when the token cannot be parsed or
// its signature does not verify, ErrTokenExpired when past its expiry and
// ErrWrongPurpose on a purpose mismatch.
func (c *Codec) Decode(purpose, rawToken string) (*Payload, error) {
	parsed, err := jwtlib.Parse(
		rawToken,
		c.signer.GetVerificationKey,
		jwtlib.WithValidMethods([]string{c.signer.GetSigningMethod().Alg()}),
		jwtlib.WithTimeFunc(c.nowTime),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrMalformedToken
	}

	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, ErrMalformedToken
	}

	tokenPurpose, _ := claims["purpose"].(string)
	if tokenPurpose != purpose {
		return nil, ErrWrongPurpose
	}

	accountID, _ := claims["sub"].(string)
	stamp, _ := claims["stamp"].(string)
	if accountID == "" || stamp == "" {
		return nil, ErrMalformedToken
	}

	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return nil, ErrMalformedToken
	}

	return &Payload{
		Purpose:   tokenPurpose,
		AccountID: accountID,
		Stamp:     stamp,
		ExpiresAt: expiry.Time,
	}, nil
}
