package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	market "trading_backend/internal/feature/market/domain/entity"
	"trading_backend/internal/feature/trading/usecase"
)

// shareGorm はShareRepositoryインターフェースのGORM実装です。
type shareGorm struct {
	db *gorm.DB
}

var _ usecase.ShareRepository = (*shareGorm)(nil)

// NewShareGorm は指定されたgorm.DB接続でshareGormの新しいインスタンスを生成します。
func NewShareGorm(db *gorm.DB) *shareGorm {
	return &shareGorm{db: db}
}

// FindByIDWithCompany はIDで株式を発行企業付きで取得します。
// 株式が存在しない場合、usecase.ErrShareNotFoundを返します。
func (r *shareGorm) FindByIDWithCompany(ctx context.Context, id uint) (*market.Share, error) {
	var s market.Share
	if err := r.db.WithContext(ctx).Preload("Company").Where("id = ?", id).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrShareNotFound
		}
		return nil, fmt.Errorf("find share: %w", err)
	}
	return &s, nil
}

// Save は在庫と価格の変更をバージョン検査付きで永続化します。
// 競合時はusecase.ErrConcurrencyConflictを返します。
func (r *shareGorm) Save(ctx context.Context, s *market.Share) error {
	res := r.db.WithContext(ctx).Model(&market.Share{}).
		Where("id = ? AND version = ?", s.ID, s.Version).
		Updates(map[string]any{
			"price":              s.Price,
			"available_quantity": s.AvailableQuantity,
			"version":            s.Version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("save share: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return usecase.ErrConcurrencyConflict
	}
	s.Version++
	return nil
}
