package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"trading_backend/internal/feature/market/domain/entity"
)

// ExchangeRepository は取引所参照データの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type ExchangeRepository interface {
	// Create は新しい取引所を追加します。名前が重複する場合、ErrAlreadyExistsを返します。
	Create(ctx context.Context, exchange *entity.Exchange) error
	// FindByID はIDで取引所を取得します。存在しない場合、ErrExchangeNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.Exchange, error)
	// List はすべての取引所を返します。
	List(ctx context.Context) ([]entity.Exchange, error)
}

// CompanyRepository は企業参照データの永続化層を抽象化します。
type CompanyRepository interface {
	// Create は新しい企業を追加します。ティッカーが重複する場合、ErrAlreadyExistsを返します。
	Create(ctx context.Context, company *entity.Company) error
	// FindByID はIDで企業を取引所付きで取得します。存在しない場合、ErrCompanyNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.Company, error)
	// List はすべての企業を取引所付きで返します。
	List(ctx context.Context) ([]entity.Company, error)
}

// BrokerRepository はブローカー参照データの永続化層を抽象化します。
type BrokerRepository interface {
	// Create は新しいブローカーを追加します。メールアドレスが重複する場合、ErrAlreadyExistsを返します。
	Create(ctx context.Context, broker *entity.Broker) error
	// List はすべてのブローカーを返します。
	List(ctx context.Context) ([]entity.Broker, error)
}

// ShareRepository は株式の永続化層を抽象化します。
type ShareRepository interface {
	// Create は新しい株式を追加します。同じ企業の株式が既に存在する場合、ErrAlreadyExistsを返します。
	Create(ctx context.Context, share *entity.Share) error
	// FindByID はIDで株式を企業付きで取得します。存在しない場合、ErrShareNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.Share, error)
	// List はすべての株式を企業付きで返します。
	List(ctx context.Context) ([]entity.Share, error)
	// SavePrice は価格変更をバージョン検査付きで永続化します。
	// 競合時はErrConcurrencyConflictを返します。
	SavePrice(ctx context.Context, share *entity.Share) error
}

// Recalculator は価格変更後のポートフォリオ評価額再計算を抽象化します。
// tradingフィーチャーが実装を提供します。
type Recalculator interface {
	RecalculateForShare(ctx context.Context, shareID uint) error
}

// marketUsecase は参照データの管理と価格変更のビジネスロジックを実装します。
type marketUsecase struct {
	exchanges ExchangeRepository
	companies CompanyRepository
	brokers   BrokerRepository
	shares    ShareRepository
	recalc    Recalculator
}

// NewMarketUsecase はmarketUsecaseの新しいインスタンスを生成します。
func NewMarketUsecase(
	exchanges ExchangeRepository,
	companies CompanyRepository,
	brokers BrokerRepository,
	shares ShareRepository,
	recalc Recalculator,
) *marketUsecase {
	return &marketUsecase{
		exchanges: exchanges,
		companies: companies,
		brokers:   brokers,
		shares:    shares,
		recalc:    recalc,
	}
}

// CreateExchange は新しい取引所を登録します。
func (u *marketUsecase) CreateExchange(ctx context.Context, name, country string) (*entity.Exchange, error) {
	exchange := &entity.Exchange{Name: name, Country: country}
	if err := u.exchanges.Create(ctx, exchange); err != nil {
		return nil, err
	}
	return exchange, nil
}

// ListExchanges はすべての取引所を返します。
func (u *marketUsecase) ListExchanges(ctx context.Context) ([]entity.Exchange, error) {
	return u.exchanges.List(ctx)
}

// CreateCompany は取引所の存在を確認した上で新しい企業を登録します。
func (u *marketUsecase) CreateCompany(ctx context.Context, name, ticker string, exchangeID uint) (*entity.Company, error) {
	if _, err := u.exchanges.FindByID(ctx, exchangeID); err != nil {
		return nil, err
	}
	company := &entity.Company{Name: name, Ticker: ticker, ExchangeID: exchangeID}
	if err := u.companies.Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// ListCompanies はすべての企業を取引所付きで返します。
func (u *marketUsecase) ListCompanies(ctx context.Context) ([]entity.Company, error) {
	return u.companies.List(ctx)
}

// CreateBroker は新しいブローカーを登録します。
func (u *marketUsecase) CreateBroker(ctx context.Context, name, email string) (*entity.Broker, error) {
	broker := &entity.Broker{Name: name, Email: email}
	if err := u.brokers.Create(ctx, broker); err != nil {
		return nil, err
	}
	return broker, nil
}

// ListBrokers はすべてのブローカーを返します。
func (u *marketUsecase) ListBrokers(ctx context.Context) ([]entity.Broker, error) {
	return u.brokers.List(ctx)
}

// CreateShare は企業の存在を確認した上で新しい株式を発行します。
func (u *marketUsecase) CreateShare(ctx context.Context, companyID uint, price decimal.Decimal, availableQuantity int64) (*entity.Share, error) {
	if !price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if availableQuantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if _, err := u.companies.FindByID(ctx, companyID); err != nil {
		return nil, err
	}
	share := &entity.Share{CompanyID: companyID, Price: price, AvailableQuantity: availableQuantity}
	if err := u.shares.Create(ctx, share); err != nil {
		return nil, err
	}
	return u.shares.FindByID(ctx, share.ID)
}

// ListShares はすべての株式を企業付きで返します。
func (u *marketUsecase) ListShares(ctx context.Context) ([]entity.Share, error) {
	return u.shares.List(ctx)
}

// GetShare はIDで株式を取得します。
func (u *marketUsecase) GetShare(ctx context.Context, id uint) (*entity.Share, error) {
	return u.shares.FindByID(ctx, id)
}

// UpdateSharePrice は株式の価格を変更し、その株式を保有するすべての株主の
// ポートフォリオ評価額を再計算します。価格の永続化と再計算はそれぞれ
// 独立したトランザクションとして実行されます。
func (u *marketUsecase) UpdateSharePrice(ctx context.Context, id uint, price decimal.Decimal) (*entity.Share, error) {
	if !price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	share, err := u.shares.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	share.Price = price
	if err := u.shares.SavePrice(ctx, share); err != nil {
		return nil, err
	}

	if err := u.recalc.RecalculateForShare(ctx, share.ID); err != nil {
		return nil, err
	}
	return share, nil
}
