package handler

import "errors"

var (
	errNotAuthorized         = errors.New("user is not authorized")
	errUsernameIsNotProvided = errors.New("please provide username")
	errInvalidUsername       = errors.New("invalid username, it should start with: '@'")
	errCreatorIsNotProvided  = errors.New("please provide creator")
	errInvalidID             = errors.New("provided an invalid ID")
	errInvalidLimit          = errors.New("provided an invalid limit")
)
