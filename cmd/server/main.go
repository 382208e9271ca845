package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"trading_backend/internal/app/di"
	"trading_backend/internal/app/router"
	authadapters "trading_backend/internal/feature/auth/adapters"
	authhandler "trading_backend/internal/feature/auth/transport/handler"
	authusecase "trading_backend/internal/feature/auth/usecase"
	marketadapters "trading_backend/internal/feature/market/adapters"
	markethandler "trading_backend/internal/feature/market/transport/handler"
	marketusecase "trading_backend/internal/feature/market/usecase"
	tradingadapters "trading_backend/internal/feature/trading/adapters"
	tradinghandler "trading_backend/internal/feature/trading/transport/handler"
	tradingusecase "trading_backend/internal/feature/trading/usecase"
	infradb "trading_backend/internal/platform/db"
	jwtmw "trading_backend/internal/platform/jwt"
	infraredis "trading_backend/internal/platform/redis"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	// db
	db := infradb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without portfolio cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// トランザクション境界とポートフォリオ読み取りモデル
	uow := tradingadapters.NewUnitOfWork(db)
	portfolioReader, portfolioCache := di.NewPortfolioReader(rdb, db, time.Minute)

	// Usecase
	tradingUC := tradingusecase.NewTradingUsecase(uow, portfolioCache)
	valuationUC := tradingusecase.NewValuationUsecase(uow, portfolioCache)
	portfolioUC := tradingusecase.NewPortfolioUsecase(portfolioReader)
	marketUC := marketusecase.NewMarketUsecase(
		marketadapters.NewExchangeGorm(db),
		marketadapters.NewCompanyGorm(db),
		marketadapters.NewBrokerGorm(db),
		marketadapters.NewShareGorm(db),
		valuationUC,
	)
	jwtGen := jwtmw.NewGenerator(os.Getenv(jwtmw.EnvKeyJWTSecret), 24*time.Hour)
	authUC := authusecase.NewAuthUsecase(
		authadapters.NewAccountGorm(db),
		authadapters.NewSignupUnitOfWork(db),
		jwtGen,
	)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	tradeH := tradinghandler.NewTradeHandler(tradingUC)
	portfolioH := tradinghandler.NewPortfolioHandler(portfolioUC)
	marketH := markethandler.NewMarketHandler(marketUC)

	// ルータ生成
	router := router.NewRouter(authH, tradeH, portfolioH, marketH)

	// JWT_SECRETチェック（開発中の注意喚起）
	if os.Getenv(jwtmw.EnvKeyJWTSecret) == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	if err := router.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
