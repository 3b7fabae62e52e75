package application

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown account and a wrong
	// password; callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBeerNotFound       = errors.New("beer not found")
	ErrImageStoreDisabled = errors.New("image storage not configured")
)
