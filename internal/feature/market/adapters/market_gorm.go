// Package adapters はmarketフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"trading_backend/internal/feature/market/domain/entity"
	"trading_backend/internal/feature/market/usecase"
)

// isUniqueViolation reports whether err is a unique-constraint violation.
// Postgres signals SQLSTATE 23505; the SQLite test driver only exposes the
// message text.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// exchangeGorm はExchangeRepositoryインターフェースのGORM実装です。
type exchangeGorm struct {
	db *gorm.DB
}

var _ usecase.ExchangeRepository = (*exchangeGorm)(nil)

// NewExchangeGorm は指定されたgorm.DB接続でexchangeGormの新しいインスタンスを生成します。
func NewExchangeGorm(db *gorm.DB) *exchangeGorm {
	return &exchangeGorm{db: db}
}

// Create は取引所を追加します。名前が重複する場合、usecase.ErrAlreadyExistsを返します。
func (r *exchangeGorm) Create(ctx context.Context, e *entity.Exchange) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		if isUniqueViolation(err) {
			return usecase.ErrAlreadyExists
		}
		return fmt.Errorf("create exchange: %w", err)
	}
	return nil
}

// FindByID はIDで取引所を取得します。存在しない場合、usecase.ErrExchangeNotFoundを返します。
func (r *exchangeGorm) FindByID(ctx context.Context, id uint) (*entity.Exchange, error) {
	var e entity.Exchange
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrExchangeNotFound
		}
		return nil, fmt.Errorf("find exchange: %w", err)
	}
	return &e, nil
}

// List はすべての取引所を名前順で返します。
func (r *exchangeGorm) List(ctx context.Context) ([]entity.Exchange, error) {
	var exchanges []entity.Exchange
	if err := r.db.WithContext(ctx).Order("name").Find(&exchanges).Error; err != nil {
		return nil, fmt.Errorf("list exchanges: %w", err)
	}
	return exchanges, nil
}

// companyGorm はCompanyRepositoryインターフェースのGORM実装です。
type companyGorm struct {
	db *gorm.DB
}

var _ usecase.CompanyRepository = (*companyGorm)(nil)

// NewCompanyGorm は指定されたgorm.DB接続でcompanyGormの新しいインスタンスを生成します。
func NewCompanyGorm(db *gorm.DB) *companyGorm {
	return &companyGorm{db: db}
}

// Create は企業を追加します。ティッカーが重複する場合、usecase.ErrAlreadyExistsを返します。
func (r *companyGorm) Create(ctx context.Context, c *entity.Company) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if isUniqueViolation(err) {
			return usecase.ErrAlreadyExists
		}
		return fmt.Errorf("create company: %w", err)
	}
	return nil
}

// FindByID はIDで企業を取引所付きで取得します。存在しない場合、usecase.ErrCompanyNotFoundを返します。
func (r *companyGorm) FindByID(ctx context.Context, id uint) (*entity.Company, error) {
	var c entity.Company
	if err := r.db.WithContext(ctx).Preload("Exchange").Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("find company: %w", err)
	}
	return &c, nil
}

// List はすべての企業を取引所付きでティッカー順に返します。
func (r *companyGorm) List(ctx context.Context) ([]entity.Company, error) {
	var companies []entity.Company
	if err := r.db.WithContext(ctx).Preload("Exchange").Order("ticker").Find(&companies).Error; err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return companies, nil
}

// brokerGorm はBrokerRepositoryインターフェースのGORM実装です。
type brokerGorm struct {
	db *gorm.DB
}

var _ usecase.BrokerRepository = (*brokerGorm)(nil)

// NewBrokerGorm は指定されたgorm.DB接続でbrokerGormの新しいインスタンスを生成します。
func NewBrokerGorm(db *gorm.DB) *brokerGorm {
	return &brokerGorm{db: db}
}

// Create はブローカーを追加します。メールアドレスが重複する場合、usecase.ErrAlreadyExistsを返します。
func (r *brokerGorm) Create(ctx context.Context, b *entity.Broker) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		if isUniqueViolation(err) {
			return usecase.ErrAlreadyExists
		}
		return fmt.Errorf("create broker: %w", err)
	}
	return nil
}

// List はすべてのブローカーを名前順で返します。
func (r *brokerGorm) List(ctx context.Context) ([]entity.Broker, error) {
	var brokers []entity.Broker
	if err := r.db.WithContext(ctx).Order("name").Find(&brokers).Error; err != nil {
		return nil, fmt.Errorf("list brokers: %w", err)
	}
	return brokers, nil
}

// shareGorm はShareRepositoryインターフェースのGORM実装です。
type shareGorm struct {
	db *gorm.DB
}

var _ usecase.ShareRepository = (*shareGorm)(nil)

// NewShareGorm は指定されたgorm.DB接続でshareGormの新しいインスタンスを生成します。
func NewShareGorm(db *gorm.DB) *shareGorm {
	return &shareGorm{db: db}
}

// Create は株式を追加します。同じ企業の株式が既に存在する場合、usecase.ErrAlreadyExistsを返します。
func (r *shareGorm) Create(ctx context.Context, s *entity.Share) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		if isUniqueViolation(err) {
			return usecase.ErrAlreadyExists
		}
		return fmt.Errorf("create share: %w", err)
	}
	return nil
}

// FindByID はIDで株式を企業付きで取得します。存在しない場合、usecase.ErrShareNotFoundを返します。
func (r *shareGorm) FindByID(ctx context.Context, id uint) (*entity.Share, error) {
	var s entity.Share
	if err := r.db.WithContext(ctx).Preload("Company").Preload("Company.Exchange").Where("id = ?", id).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrShareNotFound
		}
		return nil, fmt.Errorf("find share: %w", err)
	}
	return &s, nil
}

// List はすべての株式を企業付きで返します。
func (r *shareGorm) List(ctx context.Context) ([]entity.Share, error) {
	var shares []entity.Share
	if err := r.db.WithContext(ctx).Preload("Company").Order("id").Find(&shares).Error; err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	return shares, nil
}

// SavePrice は価格変更をバージョン検査付きで永続化します。
// 読み取り以降に他のトランザクション（取引エンジンの在庫変更を含む）が
// 行を更新していた場合、usecase.ErrConcurrencyConflictを返します。
func (r *shareGorm) SavePrice(ctx context.Context, s *entity.Share) error {
	res := r.db.WithContext(ctx).Model(&entity.Share{}).
		Where("id = ? AND version = ?", s.ID, s.Version).
		Updates(map[string]any{
			"price":   s.Price,
			"version": s.Version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("save share price: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return usecase.ErrConcurrencyConflict
	}
	s.Version++
	return nil
}
