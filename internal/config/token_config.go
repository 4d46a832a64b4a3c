package config

import "time"

type TokenConfig interface {
	GetTokenSecret() string
	GetConfirmTokenTTL() time.Duration
}

type Tokens struct{}

var _ TokenConfig = Tokens{}

// GetTokenSecret returns the HMAC secret used to sign confirmation tokens.
// Must be overridden in production via TOKEN_SECRET.
func (Tokens) GetTokenSecret() string {
	return GetEnv("TOKEN_SECRET", "dev-only-secret-do-not-deploy")
}

func (Tokens) GetConfirmTokenTTL() time.Duration {
	return 24 * time.Hour
}
