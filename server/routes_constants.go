package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteUserCreate       = "/api/user/create"
	RouteUserConfirmEmail = "/api/user/confirm-email"
	RouteUserLogIn        = "/api/user/log-in"
	RouteUserLogOut       = "/api/user/log-out"
	RouteUserInfo         = "/api/user/info"
	RouteUserPassword     = "/api/user/password"
)
