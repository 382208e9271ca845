// Package entity defines the ledger entities for the trading feature.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shareholder represents a participant who can hold and trade shares.
// PortfolioValue is a denormalized aggregate: the sum of amount × current
// share price over all of the shareholder's holdings. The trade engine and
// valuation recalculation are the only writers.
type Shareholder struct {
	// ID is the unique identifier for the shareholder.
	ID uint `gorm:"primaryKey"`

	// Name is the shareholder's display name.
	Name string `gorm:"size:255;not null"`

	// Email is the shareholder's contact address.
	// It must be unique across all shareholders.
	Email string `gorm:"size:255;not null;uniqueIndex"`

	// PortfolioValue is the derived aggregate valuation, kept denormalized
	// for fast reads.
	PortfolioValue decimal.Decimal `gorm:"type:decimal(20,4);not null"`

	// Version is bumped on every PortfolioValue mutation.
	Version uint `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
