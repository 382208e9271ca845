package adapters

import (
	"context"

	"gorm.io/gorm"

	"trading_backend/internal/feature/auth/usecase"
)

// signupGormUnitOfWork はSignupUnitOfWorkインターフェースのGORM実装です。
// 株主行とアカウント行の作成を単一トランザクションにまとめます。
type signupGormUnitOfWork struct {
	db *gorm.DB
}

var _ usecase.SignupUnitOfWork = (*signupGormUnitOfWork)(nil)

// NewSignupUnitOfWork は指定されたgorm.DB接続でsignupGormUnitOfWorkの新しいインスタンスを生成します。
func NewSignupUnitOfWork(db *gorm.DB) *signupGormUnitOfWork {
	return &signupGormUnitOfWork{db: db}
}

// Do はfnをデータベーストランザクション内で実行します。
// fnがエラーを返した場合、トランザクション内のすべての書き込みは
// ロールバックされ、アカウントを持たない株主行は残りません。
func (u *signupGormUnitOfWork) Do(ctx context.Context, fn func(usecase.AccountRepository, usecase.ShareholderRegistry) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewAccountGorm(tx), NewShareholderRegistryGorm(tx))
	})
}
