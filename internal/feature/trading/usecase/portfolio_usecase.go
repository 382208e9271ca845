package usecase

import (
	"context"

	"github.com/shopspring/decimal"
)

// PortfolioPosition is one holding enriched with its company and current price.
type PortfolioPosition struct {
	ShareID     uint            `json:"share_id"`
	CompanyID   uint            `json:"company_id"`
	CompanyName string          `json:"company_name"`
	Ticker      string          `json:"ticker"`
	Amount      int64           `json:"amount"`
	Price       decimal.Decimal `json:"price"`
	MarketValue decimal.Decimal `json:"market_value"`
}

// PortfolioSnapshot is the read model for one shareholder's portfolio.
type PortfolioSnapshot struct {
	ShareholderID  uint                `json:"shareholder_id"`
	Name           string              `json:"name"`
	PortfolioValue decimal.Decimal     `json:"portfolio_value"`
	Positions      []PortfolioPosition `json:"positions"`
}

// PortfolioReader はポートフォリオスナップショットの読み取りを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type PortfolioReader interface {
	// Snapshot は株主のスナップショットを取得します。
	// 株主が存在しない場合、ErrShareholderNotFoundを返します。
	Snapshot(ctx context.Context, shareholderID uint) (*PortfolioSnapshot, error)
}

// portfolioUsecase はポートフォリオ参照のユースケースを定義します。
type portfolioUsecase struct {
	reader PortfolioReader
}

// NewPortfolioUsecase はportfolioUsecaseの新しいインスタンスを生成します。
func NewPortfolioUsecase(reader PortfolioReader) *portfolioUsecase {
	return &portfolioUsecase{reader: reader}
}

// Portfolio は株主のポートフォリオスナップショットを返します。
func (u *portfolioUsecase) Portfolio(ctx context.Context, shareholderID uint) (*PortfolioSnapshot, error) {
	return u.reader.Snapshot(ctx, shareholderID)
}
