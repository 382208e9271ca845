// Package adapters はtradingフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"trading_backend/internal/feature/trading/usecase"
)

// maxConflictRetries is how many times a unit of work is re-run after a
// version conflict before the conflict is surfaced to the caller.
const maxConflictRetries = 3

// gormLedger binds the trading repositories to one transaction.
type gormLedger struct {
	tx *gorm.DB
}

var _ usecase.Ledger = (*gormLedger)(nil)

func (l *gormLedger) Shareholders() usecase.ShareholderRepository { return NewShareholderGorm(l.tx) }
func (l *gormLedger) Shares() usecase.ShareRepository             { return NewShareGorm(l.tx) }
func (l *gormLedger) Brokers() usecase.BrokerRepository           { return NewBrokerGorm(l.tx) }
func (l *gormLedger) Holdings() usecase.HoldingRepository         { return NewHoldingGorm(l.tx) }
func (l *gormLedger) Trades() usecase.TradeRepository             { return NewTradeGorm(l.tx) }

// gormUnitOfWork はUnitOfWorkインターフェースのGORM実装です。
// fn全体を1つのデータベーストランザクションで実行し、fnがエラーを返した
// 場合はジャーナル追記を含むすべての変更をロールバックします。
// バージョン競合で失敗した場合はfnを最初から再実行します（上限あり）。
type gormUnitOfWork struct {
	db *gorm.DB
}

var _ usecase.UnitOfWork = (*gormUnitOfWork)(nil)

// NewUnitOfWork は指定されたgorm.DB接続でgormUnitOfWorkの新しいインスタンスを生成します。
func NewUnitOfWork(db *gorm.DB) *gormUnitOfWork {
	return &gormUnitOfWork{db: db}
}

// Do はfnを1トランザクションとして実行します。
// 検証エラーはそのまま呼び出し元に返り、トランザクションはロールバックされます。
// ErrConcurrencyConflictはmaxConflictRetries回まで再試行され、
// 使い切った場合に呼び出し元へ返ります。
func (u *gormUnitOfWork) Do(ctx context.Context, fn func(l usecase.Ledger) error) error {
	var err error
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&gormLedger{tx: tx})
		})
		if !errors.Is(err, usecase.ErrConcurrencyConflict) {
			return err
		}
	}
	return err
}
