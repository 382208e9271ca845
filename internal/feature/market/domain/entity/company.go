package entity

import "time"

// Company represents a listed company whose shares can be traded.
type Company struct {
	// ID is the unique identifier for the company.
	ID uint `gorm:"primaryKey"`

	// Name is the company's registered name.
	Name string `gorm:"size:255;not null"`

	// Ticker is the company's trading symbol (e.g. "AAPL", "7203.T").
	// It must be unique across all companies.
	Ticker string `gorm:"size:16;not null;uniqueIndex"`

	// ExchangeID references the exchange the company is listed on.
	ExchangeID uint     `gorm:"not null;index"`
	Exchange   Exchange `gorm:"foreignKey:ExchangeID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
