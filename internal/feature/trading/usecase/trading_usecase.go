package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	market "trading_backend/internal/feature/market/domain/entity"
	"trading_backend/internal/feature/trading/domain/entity"
)

// TradeResult is the outcome of a successfully executed trade. Holding is nil
// when a sell exhausted the position and the ledger row was deleted.
type TradeResult struct {
	Trade   *entity.Trade
	Holding *entity.Holding
}

// tradingUsecase は取引実行エンジンを実装します。
// 1回のBuy/Sellは1つのUnitOfWorkとして実行され、すべての変更が
// コミットされるか、すべてロールバックされるかのいずれかです。
type tradingUsecase struct {
	uow   UnitOfWork
	cache PortfolioCache
}

// NewTradingUsecase はtradingUsecaseの新しいインスタンスを生成します。
// cacheはnil可で、その場合キャッシュ無効化は行われません。
func NewTradingUsecase(uow UnitOfWork, cache PortfolioCache) *tradingUsecase {
	return &tradingUsecase{uow: uow, cache: cache}
}

// parties are the three entities every trade references.
type parties struct {
	shareholder *entity.Shareholder
	share       *market.Share
	broker      *market.Broker
}

// findParties は株主・株式（企業付き）・ブローカーをこの順で検索します。
// いずれかが存在しない場合、対応するNotFoundエラーを返します。
func findParties(ctx context.Context, l Ledger, shareholderID, shareID, brokerID uint) (*parties, error) {
	shareholder, err := l.Shareholders().FindByID(ctx, shareholderID)
	if err != nil {
		return nil, err
	}
	share, err := l.Shares().FindByIDWithCompany(ctx, shareID)
	if err != nil {
		return nil, err
	}
	broker, err := l.Brokers().FindByID(ctx, brokerID)
	if err != nil {
		return nil, err
	}
	return &parties{shareholder: shareholder, share: share, broker: broker}, nil
}

// newTrade builds a journal entry, freezing the share's current price into it.
func newTrade(p *parties, tradeType entity.TradeType, quantity int64) *entity.Trade {
	return &entity.Trade{
		ID:            uuid.NewString(),
		ShareholderID: p.shareholder.ID,
		CompanyID:     p.share.CompanyID,
		BrokerID:      p.broker.ID,
		Quantity:      quantity,
		UnitPrice:     p.share.Price,
		Type:          tradeType,
		ExecutedAt:    time.Now().UTC(),
	}
}

// Buy は株式の購入を実行します。
// 検証順序: 数量 → 株主 → 株式 → ブローカー → 在庫。
// 効果: 在庫減算、保有行の作成または加算、ジャーナル追記、
// ポートフォリオ評価額の加算。すべて1トランザクションでコミットされます。
func (u *tradingUsecase) Buy(ctx context.Context, shareholderID, shareID, brokerID uint, quantity int64) (*TradeResult, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var result TradeResult
	err := u.uow.Do(ctx, func(l Ledger) error {
		p, err := findParties(ctx, l, shareholderID, shareID, brokerID)
		if err != nil {
			return err
		}
		if p.share.AvailableQuantity < quantity {
			return &InsufficientInventoryError{Requested: quantity, Available: p.share.AvailableQuantity}
		}

		// 在庫プールから引き当て
		p.share.AvailableQuantity -= quantity
		if err := l.Shares().Save(ctx, p.share); err != nil {
			return err
		}

		// 保有行: 初回購入なら作成、2回目以降は加算
		holding, err := l.Holdings().Find(ctx, shareholderID, shareID)
		switch {
		case err == nil:
			holding.Amount += quantity
			if err := l.Holdings().Save(ctx, holding); err != nil {
				return err
			}
		case errors.Is(err, ErrHoldingNotFound):
			holding = &entity.Holding{ShareholderID: shareholderID, ShareID: shareID, Amount: quantity}
			if err := l.Holdings().Create(ctx, holding); err != nil {
				return err
			}
		default:
			return err
		}

		trade := newTrade(p, entity.TradeTypeBuy, quantity)
		if err := l.Trades().Append(ctx, trade); err != nil {
			return err
		}

		// 評価額 += 数量 × 実行時価格
		cost := p.share.Price.Mul(decimal.NewFromInt(quantity))
		p.shareholder.PortfolioValue = p.shareholder.PortfolioValue.Add(cost)
		if err := l.Shareholders().Save(ctx, p.shareholder); err != nil {
			return err
		}

		result = TradeResult{Trade: trade, Holding: holding}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.invalidate(ctx, shareholderID)
	return &result, nil
}

// Sell は株式の売却を実行します。
// Buyと同じ4つの事前条件に加えて、保有行の存在と保有数量を検査します。
// 保有数量と同数の売却は保有行自体を削除し、0株の行を残しません。
func (u *tradingUsecase) Sell(ctx context.Context, shareholderID, shareID, brokerID uint, quantity int64) (*TradeResult, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var result TradeResult
	err := u.uow.Do(ctx, func(l Ledger) error {
		p, err := findParties(ctx, l, shareholderID, shareID, brokerID)
		if err != nil {
			return err
		}

		holding, err := l.Holdings().Find(ctx, shareholderID, shareID)
		if errors.Is(err, ErrHoldingNotFound) {
			return ErrNoHoldings
		}
		if err != nil {
			return err
		}
		if holding.Amount < quantity {
			return &InsufficientHoldingsError{Requested: quantity, Held: holding.Amount}
		}

		if holding.Amount == quantity {
			// 全量売却: 行を削除し、結果に保有を含めない
			if err := l.Holdings().Delete(ctx, holding); err != nil {
				return err
			}
			holding = nil
		} else {
			holding.Amount -= quantity
			if err := l.Holdings().Save(ctx, holding); err != nil {
				return err
			}
		}

		// 在庫プールへ返却
		p.share.AvailableQuantity += quantity
		if err := l.Shares().Save(ctx, p.share); err != nil {
			return err
		}

		trade := newTrade(p, entity.TradeTypeSell, quantity)
		if err := l.Trades().Append(ctx, trade); err != nil {
			return err
		}

		// 評価額 -= 数量 × 実行時価格
		proceeds := p.share.Price.Mul(decimal.NewFromInt(quantity))
		p.shareholder.PortfolioValue = p.shareholder.PortfolioValue.Sub(proceeds)
		if err := l.Shareholders().Save(ctx, p.shareholder); err != nil {
			return err
		}

		result = TradeResult{Trade: trade, Holding: holding}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.invalidate(ctx, shareholderID)
	return &result, nil
}

// Trades は株主の取引履歴を新しい順に返します。
func (u *tradingUsecase) Trades(ctx context.Context, shareholderID uint) ([]entity.Trade, error) {
	var trades []entity.Trade
	err := u.uow.Do(ctx, func(l Ledger) error {
		if _, err := l.Shareholders().FindByID(ctx, shareholderID); err != nil {
			return err
		}
		var err error
		trades, err = l.Trades().ListByShareholder(ctx, shareholderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return trades, nil
}

// invalidate drops the shareholder's cached portfolio snapshot. Best effort.
func (u *tradingUsecase) invalidate(ctx context.Context, shareholderID uint) {
	if u.cache == nil {
		return
	}
	_ = u.cache.Invalidate(ctx, shareholderID)
}
