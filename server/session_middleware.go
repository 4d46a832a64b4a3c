package server

import (
	"context"
	"net/http"

	"github.com/accountkit/go-account-server/sessions"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeySession stores the resolved session for auth-gated routes
const ContextKeySession ContextKey = "session"

// RequireSessionAuth gates routes that need an authenticated caller. It
// resolves the session cookie and rejects the request with 401 before the
// handler runs, so handlers behind it can assume a live session.
func (s *Server) RequireSessionAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			evidence := s.sessionEvidence(r)
			if evidence == "" {
				writeError(w, http.StatusUnauthorized, s.localizer.Localize(MsgNotAuthenticated))
				return
			}

			session, err := s.sessions.Resolve(evidence)
			if err != nil {
				writeError(w, http.StatusInternalServerError, s.localizer.Localize(MsgSomethingWentWrong))
				return
			}
			if session == nil {
				writeError(w, http.StatusUnauthorized, s.localizer.Localize(MsgNotAuthenticated))
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, session)
			next(w, r.WithContext(ctx))
		}
	}
}

// sessionEvidence extracts the raw session evidence the client presented,
// or "" when there is none.
func (s *Server) sessionEvidence(r *http.Request) string {
	cookie, err := r.Cookie(s.config.GetSessionCookieName())
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SessionFromContext returns the session injected by RequireSessionAuth.
func SessionFromContext(ctx context.Context) *sessions.Session {
	session, _ := ctx.Value(ContextKeySession).(*sessions.Session)
	return session
}
