package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	market "trading_backend/internal/feature/market/domain/entity"
	"trading_backend/internal/feature/trading/usecase"
)

// brokerGorm はBrokerRepositoryインターフェースのGORM実装です。
// ブローカーは取引エンジンにとって読み取り専用の参照データです。
type brokerGorm struct {
	db *gorm.DB
}

var _ usecase.BrokerRepository = (*brokerGorm)(nil)

// NewBrokerGorm は指定されたgorm.DB接続でbrokerGormの新しいインスタンスを生成します。
func NewBrokerGorm(db *gorm.DB) *brokerGorm {
	return &brokerGorm{db: db}
}

// FindByID はIDでブローカーを取得します。
// ブローカーが存在しない場合、usecase.ErrBrokerNotFoundを返します。
func (r *brokerGorm) FindByID(ctx context.Context, id uint) (*market.Broker, error) {
	var b market.Broker
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrBrokerNotFound
		}
		return nil, fmt.Errorf("find broker: %w", err)
	}
	return &b, nil
}
