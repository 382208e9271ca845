package adapters

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"trading_backend/internal/feature/trading/domain/entity"
	"trading_backend/internal/feature/trading/usecase"
)

// tradeGorm はTradeRepositoryインターフェースのGORM実装です。
// ジャーナルは追記専用で、このリポジトリは更新・削除を提供しません。
type tradeGorm struct {
	db *gorm.DB
}

var _ usecase.TradeRepository = (*tradeGorm)(nil)

// NewTradeGorm は指定されたgorm.DB接続でtradeGormの新しいインスタンスを生成します。
func NewTradeGorm(db *gorm.DB) *tradeGorm {
	return &tradeGorm{db: db}
}

// Append は実行済みの取引をジャーナルに追記します。
func (r *tradeGorm) Append(ctx context.Context, t *entity.Trade) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("append trade: %w", err)
	}
	return nil
}

// ListByShareholder は株主の取引履歴を新しい順に返します。
func (r *tradeGorm) ListByShareholder(ctx context.Context, shareholderID uint) ([]entity.Trade, error) {
	var trades []entity.Trade
	err := r.db.WithContext(ctx).
		Where("shareholder_id = ?", shareholderID).
		Order("executed_at DESC, created_at DESC").
		Find(&trades).Error
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	return trades, nil
}
