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

// portfolioGorm はPortfolioReaderインターフェースのGORM実装です。
// 保有・株式・企業を結合してスナップショットを組み立てます。
type portfolioGorm struct {
	db *gorm.DB
}

var _ usecase.PortfolioReader = (*portfolioGorm)(nil)

// NewPortfolioGorm は指定されたgorm.DB接続でportfolioGormの新しいインスタンスを生成します。
func NewPortfolioGorm(db *gorm.DB) *portfolioGorm {
	return &portfolioGorm{db: db}
}

// positionRow is the join projection for one holding.
type positionRow struct {
	ShareID     uint
	CompanyID   uint
	CompanyName string
	Ticker      string
	Amount      int64
	Price       decimal.Decimal
}

// Snapshot は株主のポートフォリオスナップショットを取得します。
// 株主が存在しない場合、usecase.ErrShareholderNotFoundを返します。
func (r *portfolioGorm) Snapshot(ctx context.Context, shareholderID uint) (*usecase.PortfolioSnapshot, error) {
	var shareholder entity.Shareholder
	if err := r.db.WithContext(ctx).Where("id = ?", shareholderID).First(&shareholder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrShareholderNotFound
		}
		return nil, fmt.Errorf("find shareholder: %w", err)
	}

	var rows []positionRow
	err := r.db.WithContext(ctx).Table("holdings").
		Select("holdings.share_id AS share_id, shares.company_id AS company_id, companies.name AS company_name, companies.ticker AS ticker, holdings.amount AS amount, shares.price AS price").
		Joins("JOIN shares ON shares.id = holdings.share_id").
		Joins("JOIN companies ON companies.id = shares.company_id").
		Where("holdings.shareholder_id = ?", shareholderID).
		Order("companies.ticker").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load positions: %w", err)
	}

	positions := make([]usecase.PortfolioPosition, 0, len(rows))
	for _, row := range rows {
		positions = append(positions, usecase.PortfolioPosition{
			ShareID:     row.ShareID,
			CompanyID:   row.CompanyID,
			CompanyName: row.CompanyName,
			Ticker:      row.Ticker,
			Amount:      row.Amount,
			Price:       row.Price,
			MarketValue: row.Price.Mul(decimal.NewFromInt(row.Amount)),
		})
	}

	return &usecase.PortfolioSnapshot{
		ShareholderID:  shareholder.ID,
		Name:           shareholder.Name,
		PortfolioValue: shareholder.PortfolioValue,
		Positions:      positions,
	}, nil
}
