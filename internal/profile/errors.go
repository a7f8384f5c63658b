package profile

import "errors"

var (
	ErrNotFound      = errors.New("profile not found")
	ErrAlreadyExists = errors.New("profile already exists for this user")
	ErrEmailTaken    = errors.New("email already registered")
	ErrEmailMismatch = errors.New("email must match authenticated user's email")
)
