package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	market "trading_backend/internal/feature/market/domain/entity"
	"trading_backend/internal/feature/trading/domain/entity"
)

// ShareholderRepository は株主エンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type ShareholderRepository interface {
	// FindByID は指定されたIDの株主を取得します。
	// 株主が存在しない場合、ErrShareholderNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.Shareholder, error)

	// Save は株主の変更をバージョン検査付きで永続化します。
	// 読み取り以降に他のトランザクションが更新していた場合、ErrConcurrencyConflictを返します。
	Save(ctx context.Context, shareholder *entity.Shareholder) error
}

// ShareRepository は株式エンティティの永続化層を抽象化します。
type ShareRepository interface {
	// FindByIDWithCompany は指定されたIDの株式を発行企業付きで取得します。
	// 株式が存在しない場合、ErrShareNotFoundを返します。
	FindByIDWithCompany(ctx context.Context, id uint) (*market.Share, error)

	// Save は株式の変更をバージョン検査付きで永続化します。
	// 競合時はErrConcurrencyConflictを返します。
	Save(ctx context.Context, share *market.Share) error
}

// BrokerRepository はブローカー参照データの読み取りを抽象化します。
type BrokerRepository interface {
	// FindByID は指定されたIDのブローカーを取得します。
	// ブローカーが存在しない場合、ErrBrokerNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*market.Broker, error)
}

// HoldingRepository は保有台帳の永続化層を抽象化します。
type HoldingRepository interface {
	// Find は(株主, 株式)ペアの保有行を取得します。
	// 存在しない場合、ErrHoldingNotFoundを返します。
	Find(ctx context.Context, shareholderID, shareID uint) (*entity.Holding, error)

	// Create は新しい保有行を追加します。
	Create(ctx context.Context, holding *entity.Holding) error

	// Save は保有数量の変更をバージョン検査付きで永続化します。
	Save(ctx context.Context, holding *entity.Holding) error

	// Delete は保有行をバージョン検査付きで削除します。
	// 数量が0になった保有は行ごと削除され、0株の行は決して残りません。
	Delete(ctx context.Context, holding *entity.Holding) error

	// ListShareholderIDs は指定された株式を保有しているすべての株主IDを返します。
	ListShareholderIDs(ctx context.Context, shareID uint) ([]uint, error)

	// PortfolioValue は株主の全保有について数量×現在価格の合計を計算します。
	PortfolioValue(ctx context.Context, shareholderID uint) (decimal.Decimal, error)
}

// TradeRepository は取引ジャーナルへの追記と参照を抽象化します。
type TradeRepository interface {
	// Append は実行済みの取引をジャーナルに追記します。
	// ジャーナルは追記専用で、更新・削除は存在しません。
	Append(ctx context.Context, trade *entity.Trade) error

	// ListByShareholder は株主の取引履歴を新しい順に返します。
	ListByShareholder(ctx context.Context, shareholderID uint) ([]entity.Trade, error)
}

// Ledger bundles the repositories bound to one transaction. Every repository
// obtained from the same Ledger value reads and writes through the same
// database transaction.
type Ledger interface {
	Shareholders() ShareholderRepository
	Shares() ShareRepository
	Brokers() BrokerRepository
	Holdings() HoldingRepository
	Trades() TradeRepository
}

// UnitOfWork runs fn inside a single transaction: every mutation fn performs
// through the Ledger is committed together, or rolled back together when fn
// returns an error. Implementations retry fn a bounded number of times when
// the transaction fails on a version conflict.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(l Ledger) error) error
}

// PortfolioCache invalidates cached portfolio snapshots after the underlying
// ledger state changed. Invalidation is best effort.
type PortfolioCache interface {
	Invalidate(ctx context.Context, shareholderID uint) error
}
