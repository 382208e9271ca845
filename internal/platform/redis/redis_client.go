// Package redis はポートフォリオキャッシュが使うRedisクライアントを提供します。
package redis

import (
	"context"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient は環境変数からRedisへ接続し、疎通確認済みのクライアントを返します。
// ポートフォリオスナップショットのキャッシュ専用で、DB 0を使用します。
func NewRedisClient() (*redis.Client, error) {
	addr := os.Getenv("REDIS_HOST") + ":" + os.Getenv("REDIS_PORT")
	password := os.Getenv("REDIS_PASSWORD")

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	// 接続確認。失敗時はサーバー起動側でキャッシュなし運用にフォールバックする
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		slog.Error("portfolio cache: Redis connection failed", "address", addr, "error", err)
		return nil, err
	}

	slog.Info("portfolio cache: Redis connected", "address", addr)
	return rdb, nil
}
