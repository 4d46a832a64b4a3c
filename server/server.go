package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/accountkit/go-account-server/internal/config"
	"github.com/accountkit/go-account-server/service"
	"github.com/accountkit/go-account-server/sessions"
)

// Server is the thin HTTP controller over the account service: parameter
// mapping, cookie handling and status translation. All business-rule
// sequencing lives in the service.
type Server struct {
	env       string // Environment (e.g., "DEV", "PROD")
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	accounts  *service.AccountService
	sessions  *sessions.Manager
	localizer Localizer
	validate  *validator.Validate
}

func New(cfg config.Config, accountService *service.AccountService, sessionManager *sessions.Manager, localizer Localizer) (*Server, error) {
	if accountService == nil {
		return nil, fmt.Errorf("[Server New] account service is required")
	}
	if sessionManager == nil {
		return nil, fmt.Errorf("[Server New] session manager is required")
	}
	if localizer == nil {
		localizer = NewDefaultLocalizer()
	}

	s := &Server{
		mux:       http.NewServeMux(),
		config:    cfg,
		accounts:  accountService,
		sessions:  sessionManager,
		localizer: localizer,
		validate:  validator.New(),
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			log.Debug().Str("method", parts[0]).Str("path", parts[1]).Msg("route")
		} else {
			log.Debug().Str("path", parts[0]).Msg("route")
		}
	}
}
