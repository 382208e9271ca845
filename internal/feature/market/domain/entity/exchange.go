// Package entity defines the reference-data entities for the market feature.
package entity

import "time"

// Exchange represents a stock exchange on which companies are listed.
type Exchange struct {
	// ID is the unique identifier for the exchange.
	ID uint `gorm:"primaryKey"`

	// Name is the exchange's display name (e.g. "NYSE").
	// It must be unique across all exchanges.
	Name string `gorm:"size:255;not null;uniqueIndex"`

	// Country is the ISO country the exchange operates from.
	Country string `gorm:"size:64"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
