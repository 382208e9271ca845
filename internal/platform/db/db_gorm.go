// Package db はGORMによるデータベース接続の初期化を提供します。
package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	authentity "trading_backend/internal/feature/auth/domain/entity"
	marketentity "trading_backend/internal/feature/market/domain/entity"
	tradingentity "trading_backend/internal/feature/trading/domain/entity"
)

// Config holds the database connection parameters.
type Config struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     string
}

// configFromEnv reads the connection parameters from the environment.
func configFromEnv() Config {
	return Config{
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
	}
}

// BuildDSN builds a Postgres DSN from the config.
func BuildDSN(cfg Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
}

// OpenDB は環境変数の設定でデータベースに接続します。
// 起動直後のデータベースを待てるよう、60秒まで接続をリトライします。
// RUN_MIGRATIONS=true の場合、全テーブルのマイグレーションを実行します。
func OpenDB() *gorm.DB {
	dsn := BuildDSN(configFromEnv())

	var (
		db  *gorm.DB
		err error
	)

	deadline := time.Now().Add(60 * time.Second)
	for {
		db, err = gorm.Open(gpostgres.Open(dsn), &gorm.Config{})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			log.Fatalf("DB connect failed after 60s: %v", err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		// マイグレーション（参照データ、台帳、ジャーナル、アカウント）
		if err := db.AutoMigrate(
			&marketentity.Exchange{},
			&marketentity.Company{},
			&marketentity.Share{},
			&marketentity.Broker{},
			&tradingentity.Shareholder{},
			&tradingentity.Holding{},
			&tradingentity.Trade{},
			&authentity.Account{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
