package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeType identifies the direction of an executed trade.
type TradeType string

const (
	TradeTypeBuy  TradeType = "buy"
	TradeTypeSell TradeType = "sell"
)

// Trade is one entry in the append-only trade journal. Once committed it is
// never updated or deleted. UnitPrice is the share's price at execution time,
// deliberately decoupled from later price changes.
type Trade struct {
	// ID is a UUID assigned at execution time.
	ID string `gorm:"primaryKey;size:36"`

	// ShareholderID is the trading party.
	ShareholderID uint `gorm:"not null;index"`

	// CompanyID is the company whose share was traded.
	CompanyID uint `gorm:"not null;index"`

	// BrokerID is the broker the trade was placed through.
	BrokerID uint `gorm:"not null"`

	// Quantity is the number of shares exchanged. Strictly positive.
	Quantity int64 `gorm:"not null"`

	// UnitPrice is the price per share frozen at execution time.
	UnitPrice decimal.Decimal `gorm:"type:decimal(20,4);not null"`

	// Type is the trade direction, buy or sell.
	Type TradeType `gorm:"size:8;not null"`

	// ExecutedAt is the execution timestamp.
	ExecutedAt time.Time `gorm:"not null;index"`

	CreatedAt time.Time
}
