package service

import "errors"

var (
	ErrInternal                               = errors.New("internal server error")
	ErrUnauthorized                           = errors.New("unauthorized")
	ErrInvalidCredentials                     = errors.New("invalid credentials")
	ErrUserAlreadyExists                      = errors.New("user with this email or username already exists")
	ErrUsernameCannotContainSpecialCharacters = errors.New("username cannot contain special characters")
	ErrUserNotFound                           = errors.New("user not found")
	ErrIdentityUnresolved                     = errors.New("could not resolve identity, please sign in and try again")
	ErrInvalidTier                            = errors.New("invalid support tier")
	ErrUnknownAction                          = errors.New("unknown support action")
)

const genericActionErrMessage = "the support service is unavailable, please try again later"

// ActionError carries the action endpoint's failure message verbatim so the
// caller can surface it as-is.
type ActionError struct {
	Message string
}

func (e *ActionError) Error() string {
	return e.Message
}
