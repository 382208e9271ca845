package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Share はある企業の取引可能な株式を表します。
// AvailableQuantity は誰にも保有されていない在庫プールで、負数は不変条件違反です。
// Version は楽観的ロック用のカウンタで、在庫を変更するすべての更新が検査します。
type Share struct {
	ID uint `gorm:"primaryKey"`

	// CompanyID references the issuing company. One share row per company.
	CompanyID uint    `gorm:"not null;uniqueIndex"`
	Company   Company `gorm:"foreignKey:CompanyID"`

	// Price is the current unit price. Trades freeze it into the journal
	// at execution time; later changes trigger valuation recalculation.
	Price decimal.Decimal `gorm:"type:decimal(20,4);not null"`

	// AvailableQuantity is the inventory not currently held by any shareholder.
	AvailableQuantity int64 `gorm:"not null"`

	// Version is bumped on every inventory or price mutation.
	Version uint `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
