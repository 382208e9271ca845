package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "trading_backend/internal/feature/auth/transport/handler"
	markethandler "trading_backend/internal/feature/market/transport/handler"
	tradinghandler "trading_backend/internal/feature/trading/transport/handler"
	"trading_backend/internal/platform/http/handler"
	jwtmw "trading_backend/internal/platform/jwt"
)

func NewRouter(
	authHandler *authhandler.AuthHandler,
	tradeHandler *tradinghandler.TradeHandler,
	portfolioHandler *tradinghandler.PortfolioHandler,
	marketHandler *markethandler.MarketHandler,
) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	// 新規株主登録
	r.POST("/signup", authHandler.Signup)
	// ログイン（JWT 発行）
	r.POST("/login", authHandler.Login)

	// 認証必須のルート
	auth := r.Group("/")
	// jwtmw.AuthRequired() ミドルウェアを適用
	// → リクエストヘッダーに JWT が必要になる
	auth.Use(jwtmw.AuthRequired())
	{
		// 取引実行エンジンとジャーナル
		auth.POST("/trades/buy", tradeHandler.Buy)
		auth.POST("/trades/sell", tradeHandler.Sell)
		auth.GET("/trades", tradeHandler.List)
		auth.GET("/portfolio", portfolioHandler.Get)

		// 参照データ管理
		auth.POST("/exchanges", marketHandler.CreateExchange)
		auth.GET("/exchanges", marketHandler.ListExchanges)
		auth.POST("/companies", marketHandler.CreateCompany)
		auth.GET("/companies", marketHandler.ListCompanies)
		auth.POST("/brokers", marketHandler.CreateBroker)
		auth.GET("/brokers", marketHandler.ListBrokers)
		auth.POST("/shares", marketHandler.CreateShare)
		auth.GET("/shares", marketHandler.ListShares)
		auth.GET("/shares/:id", marketHandler.GetShare)
		// 価格変更は保有株主全員の評価額再計算をトリガーする
		auth.PUT("/shares/:id/price", marketHandler.UpdateSharePrice)
	}

	return r
}
