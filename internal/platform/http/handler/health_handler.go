// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import "github.com/gin-gonic/gin"

// Health は取引バックエンドの導通確認用 /healthz エンドポイントを処理します。
// 監視側が古い結果を見ないよう、レスポンスのキャッシュを明示的に禁止します。
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case "HEAD":
		// HEADはボディなしの200のみ
		c.Status(200)
	case "OPTIONS":
		c.Status(204)
	default:
		c.JSON(200, gin.H{"status": "ok"})
	}
}
