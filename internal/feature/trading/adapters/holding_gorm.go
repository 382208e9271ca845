package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"trading_backend/internal/feature/trading/domain/entity"
	"trading_backend/internal/feature/trading/usecase"
)

// holdingGorm はHoldingRepositoryインターフェースのGORM実装です。
type holdingGorm struct {
	db *gorm.DB
}

var _ usecase.HoldingRepository = (*holdingGorm)(nil)

// NewHoldingGorm は指定されたgorm.DB接続でholdingGormの新しいインスタンスを生成します。
func NewHoldingGorm(db *gorm.DB) *holdingGorm {
	return &holdingGorm{db: db}
}

// Find は(株主, 株式)ペアの保有行を取得します。
// 存在しない場合、usecase.ErrHoldingNotFoundを返します。
func (r *holdingGorm) Find(ctx context.Context, shareholderID, shareID uint) (*entity.Holding, error) {
	var h entity.Holding
	err := r.db.WithContext(ctx).
		Where("shareholder_id = ? AND share_id = ?", shareholderID, shareID).
		First(&h).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrHoldingNotFound
		}
		return nil, fmt.Errorf("find holding: %w", err)
	}
	return &h, nil
}

// Create は新しい保有行を追加します。
func (r *holdingGorm) Create(ctx context.Context, h *entity.Holding) error {
	if err := r.db.WithContext(ctx).Create(h).Error; err != nil {
		return fmt.Errorf("create holding: %w", err)
	}
	return nil
}

// Save は保有数量の変更をバージョン検査付きで永続化します。
// 競合時はusecase.ErrConcurrencyConflictを返します。
func (r *holdingGorm) Save(ctx context.Context, h *entity.Holding) error {
	res := r.db.WithContext(ctx).Model(&entity.Holding{}).
		Where("id = ? AND version = ?", h.ID, h.Version).
		Updates(map[string]any{
			"amount":  h.Amount,
			"version": h.Version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("save holding: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return usecase.ErrConcurrencyConflict
	}
	h.Version++
	return nil
}

// Delete は保有行をバージョン検査付きで削除します。
func (r *holdingGorm) Delete(ctx context.Context, h *entity.Holding) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND version = ?", h.ID, h.Version).
		Delete(&entity.Holding{})
	if res.Error != nil {
		return fmt.Errorf("delete holding: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return usecase.ErrConcurrencyConflict
	}
	return nil
}

// ListShareholderIDs は指定された株式を保有しているすべての株主IDを返します。
func (r *holdingGorm) ListShareholderIDs(ctx context.Context, shareID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&entity.Holding{}).
		Where("share_id = ?", shareID).
		Order("shareholder_id").
		Pluck("shareholder_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list shareholders by share: %w", err)
	}
	return ids, nil
}

// PortfolioValue は株主の全保有について数量×現在価格の合計をSQL側で計算します。
// 保有が1件もない場合は0を返します。
func (r *holdingGorm) PortfolioValue(ctx context.Context, shareholderID uint) (decimal.Decimal, error) {
	row := r.db.WithContext(ctx).Table("holdings").
		Select("COALESCE(SUM(holdings.amount * shares.price), 0)").
		Joins("JOIN shares ON shares.id = holdings.share_id").
		Where("holdings.shareholder_id = ?", shareholderID).
		Row()

	var total decimal.Decimal
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum portfolio value: %w", err)
	}
	return total, nil
}
