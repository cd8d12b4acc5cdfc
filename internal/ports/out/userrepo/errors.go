package userrepo

import "errors"

var (
	ErrNotFound = errors.New("user not found")
	// ErrAlreadyExists reports a Create against an email that is already
	// registered.
	ErrAlreadyExists = errors.New("user already exists")
)
