// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrAccountNotFound is returned when an account cannot be found by email.
	ErrAccountNotFound = errors.New("account not found")

	// ErrEmailAlreadyExists is returned when signing up with an email that is already registered.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned when email or password is wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
