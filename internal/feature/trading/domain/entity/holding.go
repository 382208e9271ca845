package entity

import "time"

// Holding はある株主がある株式を保有している数量を表す台帳エントリです。
// Amount は存在する限り厳密に正であり、売却で0になった行は削除されます。
// 0株の保有行を残すことは不変条件違反です。
type Holding struct {
	ID uint `gorm:"primaryKey"`

	// ShareholderID and ShareID form the ledger key: at most one holding
	// row exists per (shareholder, share) pair.
	ShareholderID uint `gorm:"not null;uniqueIndex:holding_owner_share,priority:1"`
	ShareID       uint `gorm:"not null;uniqueIndex:holding_owner_share,priority:2"`

	// Amount is the number of shares held. Strictly positive.
	Amount int64 `gorm:"not null"`

	// Version is bumped on every Amount mutation.
	Version uint `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
