package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/accountkit/go-account-server/accounts"
	apperrors "github.com/accountkit/go-account-server/internal/errors"
)

// CreateHandler registers a new account. On success the confirmation email
// is already on its way and the caller is logged in (cookie set) even
// though the email is not yet confirmed.
func (s *Server) CreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params AccountCreateParameters
		if !s.decodeParams(w, r, &params) {
			return
		}
		if err := accounts.ValidatePasswordStrength(params.Password); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		_, session, err := s.accounts.Create(params.UserName, params.Email, params.Password)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}

		s.setSessionCookie(w, session.ID)
		w.WriteHeader(http.StatusOK)
	}
}

// ConfirmEmailHandler redeems an email confirmation token and logs the
// caller in. Unlike log-in, a missing account and a bad token are
// distinguishable here.
func (s *Server) ConfirmEmailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params AccountConfirmEmailParameters
		if !s.decodeParams(w, r, &params) {
			return
		}

		_, session, err := s.accounts.ConfirmEmail(params.ID, params.Token)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}

		s.setSessionCookie(w, session.ID)
		w.WriteHeader(http.StatusOK)
	}
}

// LogInHandler authenticates by email and password. An unknown email and a
// wrong password produce the identical response.
func (s *Server) LogInHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params AccountLogInParameters
		if !s.decodeParams(w, r, &params) {
			return
		}

		_, session, err := s.accounts.LogIn(params.Email, params.Password)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}

		s.setSessionCookie(w, session.ID)
		w.WriteHeader(http.StatusOK)
	}
}

// LogOutHandler runs behind RequireSessionAuth.
func (s *Server) LogOutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := SessionFromContext(r.Context())
		if err := s.accounts.LogOut(session.ID); err != nil {
			s.writeServiceError(w, err)
			return
		}

		s.clearSessionCookie(w)
		w.WriteHeader(http.StatusOK)
	}
}

// UserInfoHandler reports the caller's claims, authentication state and,
// when authenticated, the account itself. Works with or without a session.
func (s *Server) UserInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		evidence := s.sessionEvidence(r)

		info, err := s.accounts.CurrentUser(evidence)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}

		if !info.IsAuthenticated && evidence != "" {
			// The session behind the cookie is gone (logged out elsewhere
			// or account deleted); drop the stale cookie too.
			s.clearSessionCookie(w)
		}

		writeJSON(w, http.StatusOK, info)
	}
}

// SetPasswordHandler runs behind RequireSessionAuth.
func (s *Server) SetPasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params SettingsPasswordParameters
		if !s.decodeParams(w, r, &params) {
			return
		}
		if err := accounts.ValidatePasswordStrength(params.NewPassword); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := s.accounts.SetPassword(s.sessionEvidence(r), params.CurrentPassword, params.NewPassword); err != nil {
			s.writeServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

// decodeParams decodes the JSON body into v and runs struct-tag
// validation, writing the 400 response itself on failure.
func (s *Server) decodeParams(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// writeServiceError translates the service's error kinds into status codes
// and localized messages. Anything unrecognized is a storage or internal
// failure and maps to a 500 with a generic message.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		writeError(w, http.StatusBadRequest, s.localizer.Localize(MsgUserDoesNotExist))
	case apperrors.Is(err, apperrors.ErrInvalidToken):
		writeError(w, http.StatusBadRequest, s.localizer.Localize(MsgInvalidToken))
	case apperrors.Is(err, apperrors.ErrWrongCredentials):
		writeError(w, http.StatusBadRequest, s.localizer.Localize(MsgWrongPassword))
	case apperrors.Is(err, apperrors.ErrDuplicateUserName):
		writeError(w, http.StatusBadRequest, s.localizer.Localize(MsgUserNameAlreadyTaken))
	case apperrors.Is(err, apperrors.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, s.localizer.Localize(MsgEmailAlreadyRegistered))
	case apperrors.Is(err, apperrors.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, s.localizer.Localize(MsgNotAuthenticated))
	default:
		log.Err(err).Msg("account operation failed")
		writeError(w, http.StatusInternalServerError, s.localizer.Localize(MsgSomethingWentWrong))
	}
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetSessionCookieName(),
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(s.config.GetMaxSessionAge() / time.Second),
		HttpOnly: true,
		Secure:   s.env != "DEV",
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetSessionCookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.env != "DEV",
		SameSite: http.SameSiteLaxMode,
	})
}
