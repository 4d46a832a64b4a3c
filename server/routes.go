package server

func (s *Server) initRoutes() {
	// Account lifecycle
	s.RegisterRouteFunc("POST "+RouteUserCreate, ChainMiddleware(s.CreateHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteUserConfirmEmail, ChainMiddleware(s.ConfirmEmailHandler(), s.APIMiddleware()...))

	// Login state
	s.RegisterRouteFunc("POST "+RouteUserLogIn, ChainMiddleware(s.LogInHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("DELETE "+RouteUserLogOut, ChainMiddleware(s.LogOutHandler(), append(s.APIMiddleware(), s.RequireSessionAuth())...))
	s.RegisterRouteFunc("GET "+RouteUserInfo, ChainMiddleware(s.UserInfoHandler(), s.APIMiddleware()...))

	// Settings
	s.RegisterRouteFunc("PUT "+RouteUserPassword, ChainMiddleware(s.SetPasswordHandler(), append(s.APIMiddleware(), s.RequireSessionAuth())...))
}
