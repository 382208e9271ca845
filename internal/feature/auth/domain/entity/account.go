// Package entity defines the account entity for the auth feature.
package entity

import "time"

// Account は株主のログイン認証情報を表します。
// 取引台帳側の株主（Shareholder）と1対1で結び付き、取引APIは
// トークンに埋め込まれたShareholderIDで株主を特定します。
type Account struct {
	// ID is the unique identifier for the account.
	ID uint `gorm:"primaryKey"`

	// ShareholderID references the ledger-side shareholder this account
	// authenticates as. Exactly one account per shareholder.
	ShareholderID uint `gorm:"not null;uniqueIndex"`

	// Email is the login identifier. It must be unique across all accounts.
	Email string `gorm:"size:255;not null;uniqueIndex"`

	// Password is the bcrypt hash of the account's password.
	Password string `gorm:"size:255;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
