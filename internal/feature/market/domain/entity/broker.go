package entity

import "time"

// Broker represents a brokerage through which trades are placed.
// It is read-only reference data for the trade engine; only existence is checked.
type Broker struct {
	// ID is the unique identifier for the broker.
	ID uint `gorm:"primaryKey"`

	// Name is the broker's display name.
	Name string `gorm:"size:255;not null"`

	// Email is the broker's contact address.
	// It must be unique across all brokers.
	Email string `gorm:"size:255;not null;uniqueIndex"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
