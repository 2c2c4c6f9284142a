// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"weeklist_backend/internal/api"
)

// Health はサービスヘルスチェック用の /health エンドポイントを処理します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
func Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	// すべてのGET/HEAD/OPTIONSリクエストに対して200または204を返す
	switch c.Request.Method {
	case "HEAD":
		c.Status(200)
	case "OPTIONS":
		c.Status(204)
	default:
		c.JSON(200, api.HealthResponse{
			Server:      "weeklist-server",
			CurrentTime: time.Now(),
			State:       "active",
			Message:     "successful",
		})
	}
}

// Root は導通確認用の / エンドポイントを処理します。
func Root(c *gin.Context) {
	c.JSON(200, api.MessageResponse{Message: "Server is working"})
}
