package server

// Message keys the controller maps errors onto. The core returns error
// kinds only; turning them into user-facing text happens here, at the
// transport boundary.
const (
	MsgUserDoesNotExist       = "ThisUserDoesNotExist"
	MsgWrongPassword          = "WrongPassword"
	MsgInvalidToken           = "InvalidToken"
	MsgUserNameAlreadyTaken   = "UserNameAlreadyTaken"
	MsgEmailAlreadyRegistered = "EmailAlreadyRegistered"
	MsgNotAuthenticated       = "NotAuthenticated"
	MsgSomethingWentWrong     = "SomethingWentWrong"
)

// Localizer maps message keys to user-facing strings.
type Localizer interface {
	Localize(key string) string
}

type mapLocalizer map[string]string

var _ Localizer = mapLocalizer{}

// NewDefaultLocalizer returns the built-in English localizer.
func NewDefaultLocalizer() Localizer {
	return mapLocalizer{
		MsgUserDoesNotExist:       "This user does not exist.",
		MsgWrongPassword:          "The password is wrong.",
		MsgInvalidToken:           "The confirmation link is invalid or has expired.",
		MsgUserNameAlreadyTaken:   "This username is already taken.",
		MsgEmailAlreadyRegistered: "This email is already registered.",
		MsgNotAuthenticated:       "You are not logged in.",
		MsgSomethingWentWrong:     "Something went wrong. Please try again later.",
	}
}

func (m mapLocalizer) Localize(key string) string {
	if msg, ok := m[key]; ok {
		return msg
	}
	return key
}
