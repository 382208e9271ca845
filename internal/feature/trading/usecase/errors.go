// Package usecase implements the business logic for the trading feature.
package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuantity is returned when a trade is requested with a quantity of zero or less.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	// ErrShareholderNotFound is returned when the trading shareholder does not exist.
	ErrShareholderNotFound = errors.New("shareholder not found")

	// ErrShareNotFound is returned when the traded share does not exist.
	ErrShareNotFound = errors.New("share not found")

	// ErrBrokerNotFound is returned when the referenced broker does not exist.
	ErrBrokerNotFound = errors.New("broker not found")

	// ErrHoldingNotFound is returned by repositories when no holding exists
	// for a (shareholder, share) pair. On a buy this is the create path, not a failure.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrNoHoldings is returned when selling a share the shareholder owns nothing of.
	ErrNoHoldings = errors.New("shareholder owns no shares of this company")

	// ErrInsufficientInventory is the match target for InsufficientInventoryError.
	ErrInsufficientInventory = errors.New("insufficient share inventory")

	// ErrInsufficientHoldings is the match target for InsufficientHoldingsError.
	ErrInsufficientHoldings = errors.New("insufficient holdings")

	// ErrConcurrencyConflict is returned when a version check failed and the
	// bounded in-engine retries were exhausted. Callers may retry the call.
	ErrConcurrencyConflict = errors.New("concurrent modification detected")
)

// InsufficientInventoryError reports a buy that exceeds the share's available
// inventory, carrying both quantities for diagnostics.
type InsufficientInventoryError struct {
	Requested int64
	Available int64
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient share inventory: requested %d, available %d", e.Requested, e.Available)
}

// Is makes errors.Is(err, ErrInsufficientInventory) match.
func (e *InsufficientInventoryError) Is(target error) bool {
	return target == ErrInsufficientInventory
}

// InsufficientHoldingsError reports a sell that exceeds the shareholder's
// holding, carrying both quantities for diagnostics.
type InsufficientHoldingsError struct {
	Requested int64
	Held      int64
}

func (e *InsufficientHoldingsError) Error() string {
	return fmt.Sprintf("insufficient holdings: requested %d, held %d", e.Requested, e.Held)
}

// Is makes errors.Is(err, ErrInsufficientHoldings) match.
func (e *InsufficientHoldingsError) Is(target error) bool {
	return target == ErrInsufficientHoldings
}
