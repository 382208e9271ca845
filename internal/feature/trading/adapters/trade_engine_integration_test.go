package adapters

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	market "trading_backend/internal/feature/market/domain/entity"
	"trading_backend/internal/feature/trading/domain/entity"
	"trading_backend/internal/feature/trading/usecase"
)

// These tests drive the trade engine through the real GORM unit of work on
// SQLite, so the invariants are checked against actual committed state.

// tradeEngine is the slice of the trading usecase these tests exercise.
type tradeEngine interface {
	Buy(ctx context.Context, shareholderID, shareID, brokerID uint, quantity int64) (*usecase.TradeResult, error)
	Sell(ctx context.Context, shareholderID, shareID, brokerID uint, quantity int64) (*usecase.TradeResult, error)
	Trades(ctx context.Context, shareholderID uint) ([]entity.Trade, error)
}

type engineFixture struct {
	db     *gorm.DB
	uc     tradeEngine
	share  *market.Share
	broker *market.Broker
	owner  *entity.Shareholder
}

func setupEngine(t *testing.T) *engineFixture {
	t.Helper()

	db := setupTestDB(t)
	share, broker := seedMarket(t, db)
	owner := seedShareholder(t, db, "alice")

	return &engineFixture{
		db:     db,
		uc:     usecase.NewTradingUsecase(NewUnitOfWork(db), nil),
		share:  share,
		broker: broker,
		owner:  owner,
	}
}

// reload fetches the committed state of the fixture's rows.
func (f *engineFixture) reload(t *testing.T) (*market.Share, *entity.Shareholder) {
	t.Helper()

	share, err := NewShareGorm(f.db).FindByIDWithCompany(context.Background(), f.share.ID)
	require.NoError(t, err)
	owner, err := NewShareholderGorm(f.db).FindByID(context.Background(), f.owner.ID)
	require.NoError(t, err)
	return share, owner
}

func TestTradeEngine_BuyCommitsAllEffects(t *testing.T) {
	f := setupEngine(t)

	res, err := f.uc.Buy(context.Background(), f.owner.ID, f.share.ID, f.broker.ID, 10)

	require.NoError(t, err)
	require.NotNil(t, res.Holding)
	assert.Equal(t, int64(10), res.Holding.Amount)
	assert.Equal(t, entity.TradeTypeBuy, res.Trade.Type)
	assert.True(t, res.Trade.UnitPrice.Equal(decimal.RequireFromString("100.00")))

	share, owner := f.reload(t)
	assert.Equal(t, int64(40), share.AvailableQuantity)
	assert.True(t, owner.PortfolioValue.Equal(decimal.RequireFromString("1000.00")))

	trades, err := NewTradeGorm(f.db).ListByShareholder(context.Background(), f.owner.ID)
	require.NoError(t, err)
	assert.Len(t, trades, 1)
}

func TestTradeEngine_BuyTopsUpExistingHolding(t *testing.T) {
	f := setupEngine(t)

	_, err := f.uc.Buy(context.Background(), f.owner.ID, f.share.ID, f.broker.ID, 10)
	require.NoError(t, err)
	res, err := f.uc.Buy(context.Background(), f.owner.ID, f.share.ID, f.broker.ID, 5)
	require.NoError(t, err)

	assert.Equal(t, int64(15), res.Holding.Amount, "second buy should top up the same ledger row")

	var count int64
	require.NoError(t, f.db.Model(&entity.Holding{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "only one holding row per (shareholder, share)")

	share, owner := f.reload(t)
	assert.Equal(t, int64(35), share.AvailableQuantity)
	assert.True(t, owner.PortfolioValue.Equal(decimal.RequireFromString("1500.00")))
}

func TestTradeEngine_BuyRejectsOversizedOrder(t *testing.T) {
	f := setupEngine(t)

	// First order drains most of the pool, the second no longer fits.
	_, err := f.uc.Buy(context.Background(), f.owner.ID, f.share.ID, f.broker.ID, 30)
	require.NoError(t, err)

	_, err = f.uc.Buy(context.Background(), f.owner.ID, f.share.ID, f.broker.ID, 30)

	assert.ErrorIs(t, err, usecase.ErrInsufficientInventory)
	var detail *usecase.InsufficientInventoryError
	require.ErrorAs(t, err, &detail)
	assert.Equal(t, int64(30), detail.Requested)
	assert.Equal(t, int64(20), detail.Available)

	share, owner := f.reload(t)
	assert.Equal(t, int64(20), share.AvailableQuantity, "inventory must never go negative")
	assert.True(t, owner.PortfolioValue.Equal(decimal.RequireFromString("3000.00")), "the failed order must leave no trace")

	trades, err := NewTradeGorm(f.db).ListByShareholder(context.Background(), f.owner.ID)
	require.NoError(t, err)
	assert.Len(t, trades, 1, "no journal entry for the rejected order")
}

func TestTradeEngine_SellPartial(t *testing.T) {
	f := setupEngine(t)

	_, err := f.uc.Buy(context.Background(), f.owner.ID, f.share.ID, f.broker.ID, 10)
	require.NoError(t, err)

	res, err := f.uc.Sell(context.Background(), f.owner.ID, f.share.ID, f.broker.ID, 4)

	require.NoError(t, err)
	require.NotNil(t, res.Holding)
	assert.Equal(t, int64(6), res.Holding.Amount)
	assert.Equal(t, entity.TradeTypeSell, res.Trade.Type)

	share, owner := f.reload(t)
	assert.Equal(t, int64(44), share.AvailableQuantity, "sold shares return to the pool")
	assert.True(t, owner.PortfolioValue.Equal(decimal.RequireFromString("600.00")))
}

func TestTradeEngine_SellExhaustingDeletesHolding(t *testing.T) {
	f := setupEngine(t)

	_, err := f.uc.Buy(context.Background(), f.owner.ID, f.share.ID, f.broker.ID, 10)
	require.NoError(t, err)

	res, err := f.uc.Sell(context.Background(), f.owner.ID, f.share.ID, f.broker.ID, 10)

	require.NoError(t, err)
	assert.Nil(t, res.Holding, "an exhausted position has no ledger row to return")

	var count int64
	require.NoError(t, f.db.Model(&entity.Holding{}).Count(&count).Error)
	assert.Zero(t, count, "zero-amount rows must not linger in the ledger")

	share, owner := f.reload(t)
	assert.Equal(t, int64(50), share.AvailableQuantity)
	assert.True(t, owner.PortfolioValue.IsZero())
}

func TestTradeEngine_SellFailures(t *testing.T) {
	t.Run("no position at all", func(t *testing.T) {
		f := setupEngine(t)

		_, err := f.uc.Sell(context.Background(), f.owner.ID, f.share.ID, f.broker.ID, 1)

		assert.ErrorIs(t, err, usecase.ErrNoHoldings)
	})

	t.Run("position too small", func(t *testing.T) {
		f := setupEngine(t)
		_, err := f.uc.Buy(context.Background(), f.owner.ID, f.share.ID, f.broker.ID, 10)
		require.NoError(t, err)

		_, err = f.uc.Sell(context.Background(), f.owner.ID, f.share.ID, f.broker.ID, 15)

		assert.ErrorIs(t, err, usecase.ErrInsufficientHoldings)
		var detail *usecase.InsufficientHoldingsError
		require.ErrorAs(t, err, &detail)
		assert.Equal(t, int64(15), detail.Requested)
		assert.Equal(t, int64(10), detail.Held)

		share, _ := f.reload(t)
		assert.Equal(t, int64(40), share.AvailableQuantity, "the rejected sell must not touch inventory")
	})
}

func TestTradeEngine_RoundTripRestoresState(t *testing.T) {
	f := setupEngine(t)

	_, err := f.uc.Buy(context.Background(), f.owner.ID, f.share.ID, f.broker.ID, 10)
	require.NoError(t, err)
	_, err = f.uc.Sell(context.Background(), f.owner.ID, f.share.ID, f.broker.ID, 10)
	require.NoError(t, err)

	share, owner := f.reload(t)
	assert.Equal(t, int64(50), share.AvailableQuantity)
	assert.True(t, owner.PortfolioValue.IsZero())

	// Only the journal remembers: one buy and one sell.
	trades, err := f.uc.Trades(context.Background(), f.owner.ID)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, entity.TradeTypeSell, trades[0].Type)
	assert.Equal(t, entity.TradeTypeBuy, trades[1].Type)
}

func TestTradeEngine_JournalPreservesExecutionPrice(t *testing.T) {
	f := setupEngine(t)

	_, err := f.uc.Buy(context.Background(), f.owner.ID, f.share.ID, f.broker.ID, 10)
	require.NoError(t, err)

	// The price moves after execution; the journal entry must not.
	share, err := NewShareGorm(f.db).FindByIDWithCompany(context.Background(), f.share.ID)
	require.NoError(t, err)
	share.Price = decimal.RequireFromString("250.00")
	require.NoError(t, NewShareGorm(f.db).Save(context.Background(), share))

	trades, err := f.uc.Trades(context.Background(), f.owner.ID)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.True(t, trades[0].UnitPrice.Equal(decimal.RequireFromString("100.00")),
		"journal keeps the price frozen at execution time")
}

func TestTradeEngine_NotFoundOrder(t *testing.T) {
	f := setupEngine(t)

	tests := []struct {
		name          string
		shareholderID uint
		shareID       uint
		brokerID      uint
		want          error
	}{
		{"unknown shareholder", 99, f.share.ID, f.broker.ID, usecase.ErrShareholderNotFound},
		{"unknown share", f.owner.ID, 99, f.broker.ID, usecase.ErrShareNotFound},
		{"unknown broker", f.owner.ID, f.share.ID, 99, usecase.ErrBrokerNotFound},
		{"shareholder checked before share", 99, 98, f.broker.ID, usecase.ErrShareholderNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Buy(context.Background(), tt.shareholderID, tt.shareID, tt.brokerID, 1)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTradeEngine_ValuationRecalculation(t *testing.T) {
	f := setupEngine(t)
	vuc := usecase.NewValuationUsecase(NewUnitOfWork(f.db), nil)

	_, err := f.uc.Buy(context.Background(), f.owner.ID, f.share.ID, f.broker.ID, 10)
	require.NoError(t, err)

	// Bystander with no holdings in this share keeps a stale-looking value.
	bystander := seedShareholder(t, f.db, "bob")
	bystander.PortfolioValue = decimal.RequireFromString("42.00")
	require.NoError(t, NewShareholderGorm(f.db).Save(context.Background(), bystander))

	share, err := NewShareGorm(f.db).FindByIDWithCompany(context.Background(), f.share.ID)
	require.NoError(t, err)
	share.Price = decimal.RequireFromString("120.00")
	require.NoError(t, NewShareGorm(f.db).Save(context.Background(), share))

	require.NoError(t, vuc.RecalculateForShare(context.Background(), f.share.ID))

	_, owner := f.reload(t)
	assert.True(t, owner.PortfolioValue.Equal(decimal.RequireFromString("1200.00")),
		"holder's valuation should follow the new price")

	reloaded, err := NewShareholderGorm(f.db).FindByID(context.Background(), bystander.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.PortfolioValue.Equal(decimal.RequireFromString("42.00")),
		"non-holders must be left untouched")
}

func TestTradeEngine_InvalidQuantity(t *testing.T) {
	f := setupEngine(t)

	for _, q := range []int64{0, -5} {
		_, err := f.uc.Buy(context.Background(), f.owner.ID, f.share.ID, f.broker.ID, q)
		assert.ErrorIs(t, err, usecase.ErrInvalidQuantity)
		_, err = f.uc.Sell(context.Background(), f.owner.ID, f.share.ID, f.broker.ID, q)
		assert.ErrorIs(t, err, usecase.ErrInvalidQuantity)
	}

	var trades int64
	require.NoError(t, f.db.Model(&entity.Trade{}).Count(&trades).Error)
	assert.Zero(t, trades, "rejected orders never reach the journal")
}

// staleReadUnitOfWork は、この取引の読み取りとバージョン検査付き書き込みの間に
// 競合する取引がコミットするウィンドウを再現します。最初の株式読み取りは
// 競合相手のコミット前に捕捉したスナップショットを返すため、最初の試行の
// 更新はバージョン検査で敗北し、ユニットオブワークが最新状態で再試行します。
type staleReadUnitOfWork struct {
	inner usecase.UnitOfWork
	stale market.Share
	used  bool
}

func (u *staleReadUnitOfWork) Do(ctx context.Context, fn func(usecase.Ledger) error) error {
	return u.inner.Do(ctx, func(l usecase.Ledger) error {
		return fn(&staleReadLedger{Ledger: l, uow: u})
	})
}

type staleReadLedger struct {
	usecase.Ledger
	uow *staleReadUnitOfWork
}

func (l *staleReadLedger) Shares() usecase.ShareRepository {
	return &staleReadShareRepo{ShareRepository: l.Ledger.Shares(), uow: l.uow}
}

type staleReadShareRepo struct {
	usecase.ShareRepository
	uow *staleReadUnitOfWork
}

func (r *staleReadShareRepo) FindByIDWithCompany(ctx context.Context, id uint) (*market.Share, error) {
	if !r.uow.used {
		r.uow.used = true
		snapshot := r.uow.stale
		return &snapshot, nil
	}
	return r.ShareRepository.FindByIDWithCompany(ctx, id)
}

// TestTradeEngine_ContendedBuySingleWinner は在庫50に対する2件のBuy(30)の競合を検証します。
// 後から書き込む側は古いスナップショットで在庫検査を通過しますが、
// バージョン検査付き更新が0行に終わり、再試行が最新の在庫20で再検証して
// InsufficientInventoryを返します。勝者は1件だけで、在庫が負になることも
// 二重に減算されることもありません。
func TestTradeEngine_ContendedBuySingleWinner(t *testing.T) {
	f := setupEngine(t)
	rival := seedShareholder(t, f.db, "bob")

	// 競合前の状態を捕捉する
	stale, err := NewShareGorm(f.db).FindByIDWithCompany(context.Background(), f.share.ID)
	require.NoError(t, err)

	// 競合相手のBuy(30)が先にコミットする
	_, err = f.uc.Buy(context.Background(), rival.ID, f.share.ID, f.broker.ID, 30)
	require.NoError(t, err)

	// 敗者は競合相手のコミット前に読んだスナップショットで取引を開始する
	contended := usecase.NewTradingUsecase(
		&staleReadUnitOfWork{inner: NewUnitOfWork(f.db), stale: *stale}, nil)
	_, err = contended.Buy(context.Background(), f.owner.ID, f.share.ID, f.broker.ID, 30)

	var invErr *usecase.InsufficientInventoryError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, int64(30), invErr.Requested)
	assert.Equal(t, int64(20), invErr.Available, "retry must re-validate against committed state")

	share, owner := f.reload(t)
	assert.Equal(t, int64(20), share.AvailableQuantity, "inventory must reflect exactly one winning trade")
	assert.True(t, owner.PortfolioValue.IsZero(), "the losing buyer must be untouched")

	_, err = NewHoldingGorm(f.db).Find(context.Background(), f.owner.ID, f.share.ID)
	assert.ErrorIs(t, err, usecase.ErrHoldingNotFound, "the losing buyer must not gain a holding")

	winnerTrades, err := NewTradeGorm(f.db).ListByShareholder(context.Background(), rival.ID)
	require.NoError(t, err)
	assert.Len(t, winnerTrades, 1)
	loserTrades, err := NewTradeGorm(f.db).ListByShareholder(context.Background(), f.owner.ID)
	require.NoError(t, err)
	assert.Empty(t, loserTrades, "a lost trade must leave no journal entry")
}

// TestTradeEngine_ContendedBuyRetrySucceeds は、バージョン検査で敗北した取引が
// 再試行後も在庫が足りる場合、最新状態で正しく成立することを検証します。
func TestTradeEngine_ContendedBuyRetrySucceeds(t *testing.T) {
	f := setupEngine(t)
	rival := seedShareholder(t, f.db, "bob")

	stale, err := NewShareGorm(f.db).FindByIDWithCompany(context.Background(), f.share.ID)
	require.NoError(t, err)

	_, err = f.uc.Buy(context.Background(), rival.ID, f.share.ID, f.broker.ID, 10)
	require.NoError(t, err)

	contended := usecase.NewTradingUsecase(
		&staleReadUnitOfWork{inner: NewUnitOfWork(f.db), stale: *stale}, nil)
	res, err := contended.Buy(context.Background(), f.owner.ID, f.share.ID, f.broker.ID, 30)

	require.NoError(t, err)
	require.NotNil(t, res.Holding)
	assert.Equal(t, int64(30), res.Holding.Amount)

	share, owner := f.reload(t)
	assert.Equal(t, int64(10), share.AvailableQuantity, "both trades must be applied exactly once")
	assert.True(t, owner.PortfolioValue.Equal(decimal.RequireFromString("3000.00")))
}
