// Package usecase implements the business logic for the market feature.
package usecase

import "errors"

var (
	// ErrExchangeNotFound is returned when the referenced exchange does not exist.
	ErrExchangeNotFound = errors.New("exchange not found")

	// ErrCompanyNotFound is returned when the referenced company does not exist.
	ErrCompanyNotFound = errors.New("company not found")

	// ErrShareNotFound is returned when the referenced share does not exist.
	ErrShareNotFound = errors.New("share not found")

	// ErrAlreadyExists is returned when creating reference data that collides
	// with an existing row (exchange name, company ticker, broker email,
	// or a second share for the same company).
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidPrice is returned when a share price of zero or less is supplied.
	ErrInvalidPrice = errors.New("price must be greater than zero")

	// ErrInvalidQuantity is returned when a negative initial inventory is supplied.
	ErrInvalidQuantity = errors.New("available quantity must not be negative")

	// ErrConcurrencyConflict is returned when a price update lost a version
	// check against a concurrent inventory mutation. Callers may retry.
	ErrConcurrencyConflict = errors.New("concurrent modification detected")
)
