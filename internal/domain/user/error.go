package user

import "errors"

var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrPasswordMissing = errors.New("password is required")
)
