// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"trading_backend/internal/feature/auth/domain/entity"
	"trading_backend/internal/feature/auth/usecase"
)

// isUniqueViolation reports whether err is a unique-constraint violation
// (Postgres SQLSTATE 23505, or the SQLite test driver's message text).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// accountGorm はAccountRepositoryインターフェースのGORM実装です。
type accountGorm struct {
	db *gorm.DB
}

// accountGormがAccountRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.AccountRepository = (*accountGorm)(nil)

// NewAccountGorm は指定されたgorm.DB接続でaccountGormの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタです。
func NewAccountGorm(db *gorm.DB) *accountGorm {
	return &accountGorm{db: db}
}

// Create はアカウントをデータベースに追加します。
// 同じメールアドレスのアカウントが既に存在する場合、usecase.ErrEmailAlreadyExistsを返します。
func (r *accountGorm) Create(ctx context.Context, a *entity.Account) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		if isUniqueViolation(err) {
			return usecase.ErrEmailAlreadyExists
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// FindByEmail はメールアドレスでアカウントを取得します。
// アカウントが存在しない場合、usecase.ErrAccountNotFoundを返します。
func (r *accountGorm) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var a entity.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &a, nil
}
