package config

import "time"

type SessionConfig interface {
	GetMaxSessionAge() time.Duration
	GetSessionCookieName() string
}

type Sessions struct{}

var _ SessionConfig = Sessions{}

func (Sessions) GetMaxSessionAge() time.Duration {
	return 30 * 24 * time.Hour
}

func (Sessions) GetSessionCookieName() string {
	return "session_id"
}
