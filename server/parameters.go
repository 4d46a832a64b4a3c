package server

// Request parameter structs for the user API. Validation rules live in the
// struct tags and run before any service call.

type AccountCreateParameters struct {
	UserName string `json:"user_name" validate:"required,min=2,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AccountConfirmEmailParameters struct {
	ID    string `json:"id" validate:"required"`
	Token string `json:"token" validate:"required"`
}

type AccountLogInParameters struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SettingsPasswordParameters struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}
