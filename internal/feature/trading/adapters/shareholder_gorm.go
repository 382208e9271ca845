package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"trading_backend/internal/feature/trading/domain/entity"
	"trading_backend/internal/feature/trading/usecase"
)

// shareholderGorm はShareholderRepositoryインターフェースのGORM実装です。
type shareholderGorm struct {
	db *gorm.DB
}

// shareholderGormがShareholderRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.ShareholderRepository = (*shareholderGorm)(nil)

// NewShareholderGorm は指定されたgorm.DB接続でshareholderGormの新しいインスタンスを生成します。
func NewShareholderGorm(db *gorm.DB) *shareholderGorm {
	return &shareholderGorm{db: db}
}

// FindByID はIDで株主を取得します。
// 株主が存在しない場合、usecase.ErrShareholderNotFoundを返します。
func (r *shareholderGorm) FindByID(ctx context.Context, id uint) (*entity.Shareholder, error) {
	var s entity.Shareholder
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrShareholderNotFound
		}
		return nil, fmt.Errorf("find shareholder: %w", err)
	}
	return &s, nil
}

// Save はPortfolioValueの変更をバージョン検査付きで永続化します。
// 読み取り以降に他のトランザクションが行を更新していた場合、
// usecase.ErrConcurrencyConflictを返します。
func (r *shareholderGorm) Save(ctx context.Context, s *entity.Shareholder) error {
	res := r.db.WithContext(ctx).Model(&entity.Shareholder{}).
		Where("id = ? AND version = ?", s.ID, s.Version).
		Updates(map[string]any{
			"portfolio_value": s.PortfolioValue,
			"version":         s.Version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("save shareholder: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return usecase.ErrConcurrencyConflict
	}
	s.Version++
	return nil
}
