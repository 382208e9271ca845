package adapters

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"trading_backend/internal/feature/auth/usecase"
	trading "trading_backend/internal/feature/trading/domain/entity"
)

// shareholderRegistryGorm はShareholderRegistryインターフェースのGORM実装です。
// サインアップ時に取引台帳側の株主行をプロビジョニングします。
type shareholderRegistryGorm struct {
	db *gorm.DB
}

var _ usecase.ShareholderRegistry = (*shareholderRegistryGorm)(nil)

// NewShareholderRegistryGorm は指定されたgorm.DB接続でshareholderRegistryGormの新しいインスタンスを生成します。
func NewShareholderRegistryGorm(db *gorm.DB) *shareholderRegistryGorm {
	return &shareholderRegistryGorm{db: db}
}

// Register は新しい株主を評価額ゼロで登録し、そのIDを返します。
// メールアドレスが重複する場合、usecase.ErrEmailAlreadyExistsを返します。
func (r *shareholderRegistryGorm) Register(ctx context.Context, name, email string) (uint, error) {
	shareholder := &trading.Shareholder{
		Name:           name,
		Email:          email,
		PortfolioValue: decimal.Zero,
	}
	if err := r.db.WithContext(ctx).Create(shareholder).Error; err != nil {
		if isUniqueViolation(err) {
			return 0, usecase.ErrEmailAlreadyExists
		}
		return 0, fmt.Errorf("register shareholder: %w", err)
	}
	return shareholder.ID, nil
}
